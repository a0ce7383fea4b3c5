// Package share turns bouquet drafts into shareable bouquets and back.
//
// A bouquet can be shared two ways:
//
//   - As a stored record: [Service.Compose] validates the draft, encodes the
//     arrangement into a theme payload and persists it; [Service.View] loads
//     it again by ID.
//   - As a self-contained link: [Service.EncodeLink] packs the whole card into
//     a URL-safe token and [Service.DecodeLink] unpacks it. Nothing is stored.
//
// Either way the recipient gets a [Bouquet] carrying the card text and the
// placed layout. A missing record and an unreadable token look the same to
// the recipient: both are NOT_FOUND errors with a generic message. The
// decoder's reason is only logged.
package share

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/digibouquet/pkg/codec"
	"github.com/matzehuels/digibouquet/pkg/core/bouquet"
	"github.com/matzehuels/digibouquet/pkg/core/render/layout"
	"github.com/matzehuels/digibouquet/pkg/core/render/sink"
	"github.com/matzehuels/digibouquet/pkg/errors"
	"github.com/matzehuels/digibouquet/pkg/observability"
	"github.com/matzehuels/digibouquet/pkg/pipeline"
	"github.com/matzehuels/digibouquet/pkg/store"
)

// DefaultBaseURL prefixes share URLs when no base URL is configured.
const DefaultBaseURL = "http://localhost:8080"

// URL paths under the base URL.
const (
	BouquetPath = "/bouquet/"
	LinkPath    = "/b/"
)

// Draft is what a sender fills in before sharing.
type Draft struct {
	SenderName   string       `json:"senderName"`
	ReceiverName string       `json:"receiverName"`
	Message      string       `json:"message"`
	Spec         bouquet.Spec `json:"bouquet"`
}

// Bouquet is a shared bouquet as the recipient sees it.
type Bouquet struct {
	ID           string        `json:"id,omitempty"`
	SenderName   string        `json:"senderName"`
	ReceiverName string        `json:"receiverName"`
	Message      string        `json:"message"`
	CreatedAt    time.Time     `json:"createdAt,omitzero"`
	Spec         bouquet.Spec  `json:"bouquet"`
	Layout       layout.Layout `json:"layout"`
	URL          string        `json:"url"`
}

// Card returns the text printed on the bouquet's message card.
func (b *Bouquet) Card() sink.CardText {
	return sink.CardText{To: b.ReceiverName, From: b.SenderName, Message: b.Message}
}

// Service composes, stores and resolves shared bouquets.
type Service struct {
	store   store.Store
	runner  *pipeline.Runner
	baseURL string
	backend string
	logger  *log.Logger
	width   float64
	height  float64
}

// Option configures a Service.
type Option func(*Service)

// WithBaseURL sets the origin used in share URLs, e.g. "https://bouquet.example".
func WithBaseURL(u string) Option {
	return func(s *Service) { s.baseURL = strings.TrimRight(u, "/") }
}

// WithBackend names the store backend in observability events.
func WithBackend(name string) Option {
	return func(s *Service) { s.backend = name }
}

// WithFrame sets the frame that stored and linked bouquets are laid out in.
// Zero dimensions fall back to the pipeline defaults.
func WithFrame(width, height float64) Option {
	return func(s *Service) { s.width, s.height = width, height }
}

// WithLogger sets the logger for decode and storage diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a Service. A nil runner gets an uncached one.
func New(st store.Store, runner *pipeline.Runner, opts ...Option) *Service {
	s := &Service{
		store:   st,
		runner:  runner,
		baseURL: DefaultBaseURL,
		backend: store.BackendMemory,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	return s
}

// Runner returns the pipeline runner used for layouts.
func (s *Service) Runner() *pipeline.Runner { return s.runner }

func (s *Service) layoutOptions(spec bouquet.Spec) pipeline.Options {
	return pipeline.Options{Spec: spec, Width: s.width, Height: s.height}
}

// =============================================================================
// Stored bouquets
// =============================================================================

// Compose validates d and stores it. The returned Bouquet carries the new ID
// and its share URL. Storage failures are retried once by the store and then
// surface as STORAGE errors; nothing is stored for invalid input.
func (s *Service) Compose(ctx context.Context, d Draft) (*Bouquet, error) {
	d, err := normalize(d)
	if err != nil {
		return nil, err
	}

	rec := &store.Record{
		// Assigned up front so a retried insert reuses it.
		ID:           store.NewID(),
		SenderName:   d.SenderName,
		ReceiverName: d.ReceiverName,
		Message:      d.Message,
		Theme:        codec.EncodeTheme(d.Spec),
	}

	start := time.Now()
	id, err := s.store.Create(ctx, rec)
	observability.Store().OnCreate(ctx, s.backend, time.Since(start), err)
	if err != nil {
		s.logger.Error("could not store bouquet", "id", rec.ID, "error", err)
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeStorage, err, "store bouquet")
		}
		return nil, err
	}
	s.logger.Debug("stored bouquet", "id", id, "flowers", d.Spec.Total())

	l, err := s.runner.GenerateLayout(ctx, s.layoutOptions(d.Spec))
	if err != nil {
		return nil, err
	}
	return &Bouquet{
		ID:           id,
		SenderName:   rec.SenderName,
		ReceiverName: rec.ReceiverName,
		Message:      rec.Message,
		CreatedAt:    rec.CreatedAt,
		Spec:         d.Spec,
		Layout:       l,
		URL:          s.BouquetURL(id),
	}, nil
}

// View loads a stored bouquet. Unknown IDs and records whose theme cannot be
// decoded are reported as NOT_FOUND.
func (s *Service) View(ctx context.Context, id string) (*Bouquet, error) {
	id = strings.TrimSpace(id)
	if err := errors.ValidateID(id); err != nil {
		return nil, err
	}

	start := time.Now()
	rec, err := s.store.Fetch(ctx, id)
	found := err == nil
	hookErr := err
	if store.IsNotFound(err) {
		hookErr = nil
	}
	observability.Store().OnFetch(ctx, s.backend, found, time.Since(start), hookErr)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, notFound()
		}
		s.logger.Error("could not fetch bouquet", "id", id, "error", err)
		return nil, err
	}

	spec, err := codec.ResolveTheme(rec.Theme)
	if err != nil {
		s.logger.Warn("stored theme is unreadable", "id", id, "error", err)
		return nil, notFound()
	}

	l, err := s.runner.GenerateLayout(ctx, s.layoutOptions(spec))
	if err != nil {
		s.logger.Warn("stored bouquet cannot be laid out", "id", id, "error", err)
		return nil, notFound()
	}
	return &Bouquet{
		ID:           rec.ID,
		SenderName:   rec.SenderName,
		ReceiverName: rec.ReceiverName,
		Message:      rec.Message,
		CreatedAt:    rec.CreatedAt,
		Spec:         spec,
		Layout:       l,
		URL:          s.BouquetURL(rec.ID),
	}, nil
}

// =============================================================================
// Self-contained links
// =============================================================================

// EncodeLink validates d and packs it into a link token. It returns the token
// and the full share URL.
func (s *Service) EncodeLink(d Draft) (token, shareURL string, err error) {
	d, err = normalize(d)
	if err != nil {
		return "", "", err
	}
	token, err = codec.EncodeLink(codec.Link{
		SenderName:   d.SenderName,
		ReceiverName: d.ReceiverName,
		Message:      d.Message,
		Spec:         d.Spec,
	})
	if err != nil {
		return "", "", err
	}
	return token, s.LinkURL(token), nil
}

// DecodeLink unpacks a link token into a Bouquet. Any malformed token is
// reported as NOT_FOUND.
func (s *Service) DecodeLink(ctx context.Context, token string) (*Bouquet, error) {
	token = strings.TrimSpace(token)
	link, err := codec.DecodeLink(token)
	if err != nil {
		s.logger.Debug("rejected link token", "error", err)
		return nil, notFound()
	}
	l, err := s.runner.GenerateLayout(ctx, s.layoutOptions(link.Spec))
	if err != nil {
		s.logger.Debug("link bouquet cannot be laid out", "error", err)
		return nil, notFound()
	}
	return &Bouquet{
		SenderName:   link.SenderName,
		ReceiverName: link.ReceiverName,
		Message:      link.Message,
		Spec:         link.Spec,
		Layout:       l,
		URL:          s.LinkURL(token),
	}, nil
}

// =============================================================================
// Rendering and share text
// =============================================================================

// Render draws b with its message card in the formats of opts.
func (s *Service) Render(ctx context.Context, b *Bouquet, opts pipeline.Options) (map[string][]byte, error) {
	artifacts, _, err := s.RenderWithCacheInfo(ctx, b, opts)
	return artifacts, err
}

// RenderWithCacheInfo is Render that also reports whether every artifact
// came from the cache.
func (s *Service) RenderWithCacheInfo(ctx context.Context, b *Bouquet, opts pipeline.Options) (map[string][]byte, bool, error) {
	card := b.Card()
	opts.Card = &card
	opts.Spec = b.Spec
	return s.runner.RenderWithCacheInfo(ctx, b.Layout, opts)
}

// BouquetURL returns the share URL of a stored bouquet.
func (s *Service) BouquetURL(id string) string {
	return s.baseURL + BouquetPath + id
}

// LinkURL returns the share URL of a link token.
func (s *Service) LinkURL(token string) string {
	return s.baseURL + LinkPath + token
}

// ShareText returns the message sent along with a bouquet.
func ShareText(b *Bouquet) string {
	return fmt.Sprintf("💐 %s sent a digital bouquet to %s! View it here: %s", b.SenderName, b.ReceiverName, b.URL)
}

// WhatsAppURL returns a wa.me link that pre-fills ShareText.
func WhatsAppURL(b *Bouquet) string {
	return "https://wa.me/?text=" + strings.ReplaceAll(url.QueryEscape(ShareText(b)), "+", "%20")
}

// =============================================================================
// Helpers
// =============================================================================

// normalize trims the card fields and applies the authoring rules.
func normalize(d Draft) (Draft, error) {
	d.SenderName = strings.TrimSpace(d.SenderName)
	d.ReceiverName = strings.TrimSpace(d.ReceiverName)
	d.Message = strings.TrimSpace(d.Message)

	if err := errors.ValidateName("sender name", d.SenderName); err != nil {
		return d, err
	}
	if err := errors.ValidateName("receiver name", d.ReceiverName); err != nil {
		return d, err
	}
	if err := errors.ValidateMessage(d.Message); err != nil {
		return d, err
	}
	if d.Spec.Greenery == "" {
		d.Spec.Greenery = bouquet.DefaultGreenery
	}
	if err := d.Spec.ValidateForAuthoring(); err != nil {
		return d, err
	}
	d.Spec = d.Spec.Clone()
	return d, nil
}

func notFound() error {
	return errors.New(errors.ErrCodeNotFound, "bouquet not found")
}
