// Package store persists composed bouquets so they can be shared by ID.
//
// A [Record] is written once by [Store.Create] and read back with
// [Store.Fetch]; records are never updated. The bouquet itself travels in
// the record's Theme field as an opaque payload produced by the codec
// package, so backends never interpret it.
//
// # Backends
//
//   - [MemoryStore]: process-local, for tests and `serve --store memory`
//   - [FileStore]: one JSON file per record, for the CLI
//   - [SQLiteStore]: single-node deployments (pure Go driver)
//   - [RedisStore]: shared storage for API replicas
//   - [MongoStore]: document storage for hosted deployments
//
// # Failure handling
//
// Backends mark transient failures with [cache.Retryable]. [WithRetry]
// retries such failures once and [WithBreaker] stops hammering a backend
// that keeps failing. Open wires both around the selected backend.
package store

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	bqerrors "github.com/matzehuels/digibouquet/pkg/errors"
)

// IDLength is the number of hex characters in a generated record ID.
const IDLength = 12

// Record is a stored bouquet card.
type Record struct {
	ID           string    `json:"id" bson:"_id" validate:"omitempty,alphanum,lowercase,max=64"`
	SenderName   string    `json:"senderName" bson:"sender_name" validate:"required,max=50"`
	ReceiverName string    `json:"receiverName" bson:"receiver_name" validate:"required,max=50"`
	Message      string    `json:"message" bson:"message" validate:"required,max=500"`
	Theme        string    `json:"theme" bson:"theme" validate:"required,max=4096"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

// Store persists records.
type Store interface {
	// Create stores rec and returns its ID. An empty rec.ID is filled with
	// a fresh ID and a zero CreatedAt with the current time. Creating an
	// ID that already exists fails with STORAGE_CONFLICT.
	Create(ctx context.Context, rec *Record) (string, error)

	// Fetch returns the record with the given ID, or a NOT_FOUND error.
	Fetch(ctx context.Context, id string) (*Record, error)

	// Close releases backend resources.
	Close() error
}

// NewID returns a fresh record ID: the first 12 hex digits of a random UUID.
func NewID() string {
	u := uuid.New()
	return strings.ReplaceAll(u.String(), "-", "")[:IDLength]
}

// =============================================================================
// Validation
// =============================================================================

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks field presence and length limits.
func (r *Record) Validate() error {
	err := recordValidator().Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return bqerrors.Wrap(bqerrors.ErrCodeInvalidInput, err, "invalid record")
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return bqerrors.New(bqerrors.ErrCodeInvalidInput, "%s is required", fe.Field())
	case "max":
		return bqerrors.New(bqerrors.ErrCodeInvalidInput, "%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return bqerrors.New(bqerrors.ErrCodeInvalidInput, "%s is invalid", fe.Field())
	}
}

// prepare validates rec and fills ID and CreatedAt.
func prepare(rec *Record) error {
	if rec == nil {
		return bqerrors.New(bqerrors.ErrCodeInvalidInput, "record is required")
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = NewID()
	}
	if rec.CreatedAt.IsZero() {
		// Millisecond precision survives every backend unchanged.
		rec.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	return nil
}

// =============================================================================
// Errors
// =============================================================================

func notFound(id string) error {
	return bqerrors.New(bqerrors.ErrCodeNotFound, "bouquet %q not found", id)
}

func conflict(id string) error {
	return bqerrors.New(bqerrors.ErrCodeConflict, "bouquet %q already exists", id)
}

func storageErr(err error, op string) error {
	return bqerrors.Wrap(bqerrors.ErrCodeStorage, err, "%s", op)
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return bqerrors.Is(err, bqerrors.ErrCodeNotFound)
}
