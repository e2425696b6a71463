package storeRepo

import (
	"context"
	"fmt"
	"time"

	"zenflow/config"
	"zenflow/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

const bookingsNode = "Bookings"

// FirebaseRecordStore reads and writes the studio dataset in a Firebase
// Realtime Database: four record arrays under the root plus a Bookings node
// keyed by booking id.
type FirebaseRecordStore struct {
	client *db.Client
}

// NewFirebaseRecordStore initializes the Firebase app from the configured
// service account and returns a store bound to its Realtime Database.
func NewFirebaseRecordStore(ctx context.Context) (*FirebaseRecordStore, error) {
	opt := option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsFile)
	fbConfig := &firebase.Config{DatabaseURL: config.AppConfig.FirebaseDatabaseURL}

	app, err := firebase.NewApp(ctx, fbConfig, opt)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Database client: %w", err)
	}

	return &FirebaseRecordStore{client: client}, nil
}

// FetchAll reads the database root in one round trip. Nodes the admin app
// never wrote decode as nil slices; sparse arrays keep their nil entries.
func (s *FirebaseRecordStore) FetchAll(ctx context.Context) (models.RawBundle, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var bundle models.RawBundle
	if err := s.client.NewRef("/").Get(ctx, &bundle); err != nil {
		return models.RawBundle{}, fmt.Errorf("error fetching studio data: %w", err)
	}
	return bundle, nil
}

// SubmitBooking writes the booking under Bookings/<idempotencyKey>. A keyed
// Set is retry-safe: resubmitting after a lost acknowledgment overwrites the
// same node rather than pushing a duplicate. The timestamp uses the RTDB
// server-value sentinel so it is assigned server-side.
func (s *FirebaseRecordStore) SubmitBooking(ctx context.Context, email string, instanceIDs []int, idempotencyKey string) (string, error) {
	if email == "" || len(instanceIDs) == 0 {
		return "", fmt.Errorf("email and instance ids are required for booking")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	doc := map[string]interface{}{
		"userEmail":         email,
		"bookedInstanceIds": instanceIDs,
		"bookingTimestamp":  map[string]string{".sv": "timestamp"},
	}
	ref := s.client.NewRef(bookingsNode).Child(idempotencyKey)
	if err := ref.Set(ctx, doc); err != nil {
		return "", fmt.Errorf("error writing booking: %w", err)
	}
	return idempotencyKey, nil
}

// BookingsByEmail queries the Bookings node ordered by userEmail with an
// exact-match filter, the same index the mobile client used.
func (s *FirebaseRecordStore) BookingsByEmail(ctx context.Context, email string) ([]models.RawBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := s.client.NewRef(bookingsNode).OrderByChild("userEmail").EqualTo(email)
	nodes, err := query.GetOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings for %s: %w", email, err)
	}

	bookings := make([]models.RawBooking, 0, len(nodes))
	for _, node := range nodes {
		var booking models.RawBooking
		if err := node.Unmarshal(&booking); err != nil {
			return nil, fmt.Errorf("error decoding booking %s: %w", node.Key(), err)
		}
		booking.ID = node.Key()
		bookings = append(bookings, booking)
	}
	return bookings, nil
}
