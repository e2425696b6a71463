package booking

import (
	"context"

	"zenflow/models"
	"zenflow/services/cart"
	"zenflow/services/catalog"
)

// Service coordinates booking submission and retrieval around the record
// store and the current catalog snapshot.
type Service interface {
	// Submit validates the email and the session's selection, writes the
	// booking, and clears the cart only once the write is acknowledged.
	// Validation failures are ValidationErrors and cause no side effect;
	// store failures leave the cart untouched for retry.
	Submit(ctx context.Context, sessionID, email string, c *cart.Manager) (*models.BookingRecord, error)

	// BookingsFor returns the user's bookings enriched through the given
	// snapshot, newest first. Instance ids that no longer resolve are
	// dropped; bookings that enrich to nothing are omitted entirely.
	BookingsFor(ctx context.Context, email string, snap *catalog.Snapshot) ([]models.EnrichedBooking, error)
}
