// Package api provides the interface and error taxonomy for fuel price API providers.
package api

import (
	"context"
	"errors"

	"github.com/andygrunwald/tanker-exporter/internal/models"
)

// Classified provider errors. A fetch fails with exactly one of these; the
// refresh loop logs the classification and keeps the previous snapshot.
// Retrying is the refresh loop's job via its next tick, never the provider's.
var (
	// ErrUpstream reports a transport failure or a non-success HTTP status.
	ErrUpstream = errors.New("upstream request failed")
	// ErrMalformedResponse reports a response body that could not be parsed.
	ErrMalformedResponse = errors.New("malformed provider response")
	// ErrAPIRejected reports that the provider itself flagged the request
	// as failed, e.g. an invalid key or an oversized radius.
	ErrAPIRejected = errors.New("provider rejected request")
)

// Classify returns the taxonomy name for a provider error, for logging.
func Classify(err error) string {
	switch {
	case errors.Is(err, ErrAPIRejected):
		return "api_rejected"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrUpstream):
		return "upstream_error"
	default:
		return "unknown"
	}
}

// Provider defines the interface for fuel price API providers.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// FetchPrices performs one round-trip to the provider and returns the
	// stations within radiusKm of center with their current prices.
	FetchPrices(ctx context.Context, center models.Coordinate, radiusKm float64) ([]models.StationPrice, error)
}
