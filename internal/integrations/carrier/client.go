package carrier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rjewls/white-site-sub000/internal/shipment"
)

// Kind classifies a carrier call failure. The lifecycle controller decides
// retry affordances from the kind alone, never from the message text.
type Kind string

const (
	// KindRejected: the carrier refused the data (business rule, 4xx or a
	// 2xx with the success flag down). Not retried automatically; the
	// operator gets the carrier's literal message.
	KindRejected Kind = "REJECTED"
	// KindAuth: credentials were refused.
	KindAuth Kind = "AUTH"
	// KindTransient: network failure, timeout or 5xx. Retrying is the
	// caller's call; Create is not guaranteed idempotent carrier-side.
	KindTransient Kind = "TRANSIENT"
	// KindConfig: credentials are missing; every call short-circuits until
	// configuration is fixed.
	KindConfig Kind = "CONFIG"
)

type APIError struct {
	Kind       Kind
	Message    string
	HTTPStatus int
}

func (e *APIError) Error() string {
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("carrier %s (http %d): %s", e.Kind, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("carrier %s: %s", e.Kind, e.Message)
}

func ErrorKind(err error) (Kind, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return "", false
}

func IsTransient(err error) bool {
	k, ok := ErrorKind(err)
	return ok && k == KindTransient
}

// TrackingInfo is the one-shot status snapshot for a shipment.
type TrackingInfo struct {
	Tracking  string
	Status    string
	UpdatedAt *time.Time
}

// Client wraps the carrier's shipment endpoints. Implementations hold no
// state beyond credentials and are safe for concurrent use.
type Client interface {
	Create(ctx context.Context, req *shipment.Request) (tracking string, err error)
	Confirm(ctx context.Context, tracking string) error
	Delete(ctx context.Context, tracking string) error
	Track(ctx context.Context, trackings []string) (map[string]TrackingInfo, error)
}
