package booking

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	prefsRepo "zenflow/database/repository/prefs"
	storeRepo "zenflow/database/repository/store"
	"zenflow/models"
	"zenflow/services/cart"
	"zenflow/services/catalog"
	"zenflow/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Local-part, "@", domain with a dot, no whitespace anywhere.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// DefaultBookingService is the production booking coordinator.
type DefaultBookingService struct {
	Store storeRepo.RecordStore
	Prefs prefsRepo.Store
}

// Submit runs the checkout flow: local validation first (no I/O on
// failure), then the email preference write, then the store write under a
// fresh idempotency key. The cart empties exactly when the write has been
// acknowledged, never before, so a failed submission can be retried without
// re-selecting.
func (s *DefaultBookingService) Submit(ctx context.Context, sessionID, email string, c *cart.Manager) (*models.BookingRecord, error) {
	logger := utils.GetLogger()

	if !emailPattern.MatchString(email) {
		return nil, NewValidationError("please enter a valid email address")
	}

	// Point-in-time snapshot of the selection: mutations arriving while
	// the write is in flight do not alter this submission.
	instanceIDs := c.Items()
	if len(instanceIDs) == 0 {
		return nil, NewValidationError("your cart is empty")
	}

	// Remember the email for prefill on future sessions. Best effort; a
	// preference write failure must not block the booking.
	if s.Prefs != nil {
		if err := s.Prefs.SaveEmail(ctx, sessionID, email); err != nil {
			logger.Warn("failed to save email preference", zap.Error(err))
		}
	}

	// One key per attempt; the store dedupes on it, so a retry after a
	// lost acknowledgment cannot create a second booking.
	idempotencyKey := uuid.New().String()
	bookingID, err := s.Store.SubmitBooking(ctx, email, instanceIDs, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to submit booking: %w", err)
	}

	c.Clear()
	logger.Info("booking submitted",
		zap.String("bookingId", bookingID),
		zap.Int("instances", len(instanceIDs)),
	)

	return &models.BookingRecord{
		ID:                bookingID,
		UserEmail:         email,
		BookedInstanceIDs: instanceIDs,
	}, nil
}

// BookingsFor fetches the user's raw bookings and re-joins each stored
// instance id against the snapshot. Ids outside the future window (or that
// never existed) are filtered silently, and a booking left with no
// resolvable instances is invisible. Newest bookings come first; a missing
// timestamp sorts as oldest.
func (s *DefaultBookingService) BookingsFor(ctx context.Context, email string, snap *catalog.Snapshot) ([]models.EnrichedBooking, error) {
	rawBookings, err := s.Store.BookingsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}

	enriched := make([]models.EnrichedBooking, 0, len(rawBookings))
	for _, raw := range rawBookings {
		views := make([]models.BookedInstanceView, 0, len(raw.BookedInstanceIDs))
		for _, id := range raw.BookedInstanceIDs {
			inst, ok := snap.InstanceByID[id]
			if !ok {
				continue
			}
			parent, ok := snap.ClassByID[inst.ClassID]
			if !ok {
				continue
			}
			views = append(views, models.BookedInstanceView{
				InstanceID:  inst.ID,
				ClassName:   parent.Description,
				Date:        inst.Date,
				Time:        parent.Time,
				TeacherName: inst.Teacher.Name,
				Price:       parent.Price,
			})
		}
		if len(views) == 0 {
			continue
		}
		enriched = append(enriched, models.EnrichedBooking{
			BookingID:          raw.ID,
			BookingTimestampMs: raw.BookingTimestampMs,
			Instances:          views,
		})
	}

	sort.SliceStable(enriched, func(a, b int) bool {
		return enriched[a].BookingTimestampMs > enriched[b].BookingTimestampMs
	})
	return enriched, nil
}
