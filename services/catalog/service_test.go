package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenflow/models"
)

// fakeStore returns a canned bundle or a canned error.
type fakeStore struct {
	bundle models.RawBundle
	err    error
	calls  int
}

func (f *fakeStore) FetchAll(ctx context.Context) (models.RawBundle, error) {
	f.calls++
	return f.bundle, f.err
}

func (f *fakeStore) SubmitBooking(ctx context.Context, email string, instanceIDs []int, idempotencyKey string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeStore) BookingsByEmail(ctx context.Context, email string) ([]models.RawBooking, error) {
	return nil, errors.New("not implemented")
}

func fixedNow() time.Time {
	return time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
}

func TestRefresh_PublishesVersionedSnapshots(t *testing.T) {
	store := &fakeStore{bundle: models.RawBundle{
		Classes: []*models.RawClass{{Description: "Vinyasa"}},
	}}
	svc := &DefaultCatalogService{Store: store, Now: fixedNow}

	require.Nil(t, svc.Current(), "no model before the first pass")

	first, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.Version)
	assert.Equal(t, 20250901, first.Today)
	assert.Same(t, first, svc.Current())

	second, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.Version)
	assert.Same(t, second, svc.Current())
	assert.NotSame(t, first, second, "each pass rebuilds wholesale")
}

func TestRefresh_FetchFailureKeepsPriorSnapshot(t *testing.T) {
	store := &fakeStore{bundle: models.RawBundle{
		Classes: []*models.RawClass{{Description: "Hatha"}},
	}}
	svc := &DefaultCatalogService{Store: store, Now: fixedNow}

	published, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	store.err = errors.New("backend down")
	_, err = svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Same(t, published, svc.Current(), "readers keep the last good model")
}

func TestRefresh_ReadersHoldTheirSnapshot(t *testing.T) {
	store := &fakeStore{bundle: models.RawBundle{
		ClassInstances: []*models.RawClassInstance{
			{ClassID: 0, Date: "2025-09-03"},
		},
	}}
	svc := &DefaultCatalogService{Store: store, Now: fixedNow}

	held, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	// A concurrent rebuild with different data never mutates the snapshot
	// a reader already holds.
	store.bundle = models.RawBundle{}
	_, err = svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.Contains(t, held.InstanceByID, 0)
	assert.Empty(t, svc.Current().InstanceByID)
}
