package storeRepo

import (
	"context"

	"zenflow/models"
)

// RecordStore is the studio's remote document backend. Implementations are
// plain fetch/write adapters; they never reshape records beyond decoding.
type RecordStore interface {
	// FetchAll returns the full dataset. Absent nodes come back as empty
	// (nil) arrays, never as an error.
	FetchAll(ctx context.Context) (models.RawBundle, error)

	// SubmitBooking writes one booking document and returns its id. The
	// idempotency key is the booking's identity in the store, so a retried
	// submission lands on the same record instead of creating a duplicate.
	SubmitBooking(ctx context.Context, email string, instanceIDs []int, idempotencyKey string) (string, error)

	// BookingsByEmail returns bookings whose userEmail matches exactly.
	BookingsByEmail(ctx context.Context, email string) ([]models.RawBooking, error)
}
