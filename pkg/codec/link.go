package codec

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/digibouquet/pkg/core/bouquet"
	"github.com/matzehuels/digibouquet/pkg/errors"
)

// LinkVersion is the wire version written into new link tokens.
const LinkVersion = 1

// MaxTokenLength bounds the size of a token accepted by DecodeLink.
const MaxTokenLength = 8 << 10

// Link is the content of a self-contained share link.
type Link struct {
	SenderName   string
	ReceiverName string
	Message      string
	Spec         bouquet.Spec
}

type linkWire struct {
	V             *int             `json:"v,omitempty"`
	SenderName    string           `json:"senderName"`
	ReceiverName  string           `json:"receiverName"`
	Message       string           `json:"message"`
	Flowers       map[string]int   `json:"flowers"`
	LayoutSeed    *int64           `json:"layoutSeed"`
	GreeneryStyle bouquet.Greenery `json:"greeneryStyle,omitempty"`
}

// EncodeLink serializes l into a URL-safe token.
func EncodeLink(l Link) (string, error) {
	if strings.TrimSpace(l.ReceiverName) == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "receiver name is required")
	}
	spec := l.Spec
	if spec.Greenery == "" {
		spec.Greenery = bouquet.DefaultGreenery
	}
	if err := spec.Validate(); err != nil {
		return "", err
	}

	v := LinkVersion
	seed := spec.Seed
	data, err := json.Marshal(linkWire{
		V:             &v,
		SenderName:    l.SenderName,
		ReceiverName:  l.ReceiverName,
		Message:       l.Message,
		Flowers:       spec.Flowers,
		LayoutSeed:    &seed,
		GreeneryStyle: spec.Greenery,
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode link")
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeLink parses a token produced by EncodeLink. It also accepts tokens
// with padding or the standard Base64 alphabet, and legacy tokens without a
// version field.
func DecodeLink(token string) (Link, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Link{}, invalid(nil, "empty link token")
	}
	if len(token) > MaxTokenLength {
		return Link{}, invalid(nil, "link token too long (%d bytes)", len(token))
	}

	data, err := decodeBase64URL(token)
	if err != nil {
		return Link{}, invalid(err, "link token is not valid base64")
	}
	if !utf8.Valid(data) {
		return Link{}, invalid(nil, "link token is not valid UTF-8")
	}

	var w linkWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Link{}, invalid(err, "link token is not valid JSON")
	}
	if w.V != nil && *w.V != LinkVersion {
		return Link{}, invalid(nil, "unsupported link version %d", *w.V)
	}
	if strings.TrimSpace(w.ReceiverName) == "" {
		return Link{}, invalid(nil, "link token missing receiverName")
	}
	if w.Flowers == nil {
		return Link{}, invalid(nil, "link token missing flowers")
	}
	if w.LayoutSeed == nil {
		return Link{}, invalid(nil, "link token missing layoutSeed")
	}
	g := w.GreeneryStyle
	if g == "" {
		g = bouquet.DefaultGreenery
	}
	spec := bouquet.New(w.Flowers, *w.LayoutSeed, g)
	if err := spec.Validate(); err != nil {
		return Link{}, invalid(err, "link token holds an unusable bouquet")
	}
	if utf8.RuneCountInString(w.SenderName) > errors.MaxNameLength ||
		utf8.RuneCountInString(w.ReceiverName) > errors.MaxNameLength ||
		utf8.RuneCountInString(w.Message) > errors.MaxMessageLength {
		return Link{}, invalid(nil, "link token fields exceed length limits")
	}

	return Link{
		SenderName:   w.SenderName,
		ReceiverName: w.ReceiverName,
		Message:      w.Message,
		Spec:         spec,
	}, nil
}

// decodeBase64URL decodes Base64url with or without padding, also accepting
// the standard alphabet.
func decodeBase64URL(s string) ([]byte, error) {
	s = strings.TrimRight(s, "=")
	s = strings.NewReplacer("+", "-", "/", "_").Replace(s)
	return base64.RawURLEncoding.DecodeString(s)
}

func invalid(cause error, format string, args ...any) error {
	if cause == nil {
		return errors.New(errors.ErrCodeInvalidPayload, format, args...)
	}
	return errors.Wrap(errors.ErrCodeInvalidPayload, cause, format, args...)
}
