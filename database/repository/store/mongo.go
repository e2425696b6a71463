package storeRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zenflow/config"
	"zenflow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const catalogDocID = "catalog"

// MongoRecordStore keeps the same dataset in MongoDB: one catalog document
// holding the four record arrays, and a bookings collection.
type MongoRecordStore struct {
	catalogColl *mongo.Collection
	bookingColl *mongo.Collection
}

// NewMongoRecordStore returns a store backed by the configured database.
func NewMongoRecordStore(client *mongo.Client) *MongoRecordStore {
	dbName := config.AppConfig.MongoDatabase
	return &MongoRecordStore{
		catalogColl: client.Database(dbName).Collection("catalog"),
		bookingColl: client.Database(dbName).Collection("bookings"),
	}
}

// FetchAll loads the catalog document. A missing document degrades to an
// empty bundle, matching an empty backend rather than failing.
func (s *MongoRecordStore) FetchAll(ctx context.Context) (models.RawBundle, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc struct {
		Bundle models.RawBundle `bson:"bundle"`
	}
	err := s.catalogColl.FindOne(ctx, bson.M{"_id": catalogDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.RawBundle{}, nil
	}
	if err != nil {
		return models.RawBundle{}, fmt.Errorf("error fetching studio data: %w", err)
	}
	return doc.Bundle, nil
}

// SubmitBooking upserts on the idempotency key with $setOnInsert, so a
// retried submission leaves the original record (and its timestamp) intact.
func (s *MongoRecordStore) SubmitBooking(ctx context.Context, email string, instanceIDs []int, idempotencyKey string) (string, error) {
	if email == "" || len(instanceIDs) == 0 {
		return "", fmt.Errorf("email and instance ids are required for booking")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	booking := models.RawBooking{
		ID:                 idempotencyKey,
		UserEmail:          email,
		BookedInstanceIDs:  instanceIDs,
		BookingTimestampMs: time.Now().UnixMilli(),
	}
	filter := bson.M{"id": idempotencyKey}
	update := bson.M{"$setOnInsert": booking}
	opts := options.Update().SetUpsert(true)
	if _, err := s.bookingColl.UpdateOne(ctx, filter, update, opts); err != nil {
		return "", fmt.Errorf("error writing booking: %w", err)
	}
	return idempotencyKey, nil
}

// BookingsByEmail returns bookings matching the email exactly.
func (s *MongoRecordStore) BookingsByEmail(ctx context.Context, email string) ([]models.RawBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := s.bookingColl.Find(ctx, bson.M{"userEmail": email})
	if err != nil {
		return nil, fmt.Errorf("error querying bookings for %s: %w", email, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.RawBooking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings for %s: %w", email, err)
	}
	return bookings, nil
}
