package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenflow/models"
	"zenflow/services/cart"
	"zenflow/services/catalog"
)

// fakeStore records submissions and serves canned bookings.
type fakeStore struct {
	submitErr   error
	submitted   [][]int
	submitKeys  []string
	rawBookings []models.RawBooking
	fetchErr    error
}

func (f *fakeStore) FetchAll(ctx context.Context) (models.RawBundle, error) {
	return models.RawBundle{}, errors.New("not implemented")
}

func (f *fakeStore) SubmitBooking(ctx context.Context, email string, instanceIDs []int, idempotencyKey string) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submitted = append(f.submitted, instanceIDs)
	f.submitKeys = append(f.submitKeys, idempotencyKey)
	return idempotencyKey, nil
}

func (f *fakeStore) BookingsByEmail(ctx context.Context, email string) ([]models.RawBooking, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.rawBookings, nil
}

// fakePrefs counts saves so tests can assert no side effect happened.
type fakePrefs struct {
	saved map[string]string
}

func newFakePrefs() *fakePrefs { return &fakePrefs{saved: make(map[string]string)} }

func (f *fakePrefs) SaveEmail(ctx context.Context, sessionID, email string) error {
	f.saved[sessionID] = email
	return nil
}

func (f *fakePrefs) LastEmail(ctx context.Context, sessionID string) (string, error) {
	return f.saved[sessionID], nil
}

func testSnapshot() *catalog.Snapshot {
	snap, _ := catalog.Reconcile(models.RawBundle{
		Classes: []*models.RawClass{
			{Description: "Vinyasa", Time: "09:00", Price: 20},
		},
		ClassInstances: []*models.RawClassInstance{
			{ClassID: 0, TeacherID: 0, Date: "2025-09-02"},
			{ClassID: 0, TeacherID: 0, Date: "2025-09-05"},
		},
		Teachers: []*models.RawTeacher{{Name: "Asha"}},
	}, 20250901)
	return snap
}

func TestSubmit_RejectsInvalidEmailBeforeAnyIO(t *testing.T) {
	store := &fakeStore{}
	prefs := newFakePrefs()
	svc := &DefaultBookingService{Store: store, Prefs: prefs}

	c := cart.NewManager()
	c.Add(7)

	_, err := svc.Submit(context.Background(), "s1", "not-an-email", c)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, store.submitted, "no store write")
	assert.Empty(t, prefs.saved, "no prefs write")
	assert.Equal(t, []int{7}, c.Items(), "selection untouched")
}

func TestSubmit_RejectsEmailWithWhitespace(t *testing.T) {
	svc := &DefaultBookingService{Store: &fakeStore{}, Prefs: newFakePrefs()}
	c := cart.NewManager()
	c.Add(1)

	for _, email := range []string{"a b@example.com", "a@exa mple.com", "a@example", "@example.com", "a@"} {
		_, err := svc.Submit(context.Background(), "s1", email, c)
		assert.True(t, IsValidation(err), "email %q must be rejected", email)
	}
}

func TestSubmit_RejectsEmptySelection(t *testing.T) {
	store := &fakeStore{}
	svc := &DefaultBookingService{Store: store, Prefs: newFakePrefs()}

	_, err := svc.Submit(context.Background(), "s1", "yogi@example.com", cart.NewManager())
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, store.submitted)
}

func TestSubmit_ClearsCartOnlyOnAcknowledgedWrite(t *testing.T) {
	store := &fakeStore{}
	prefs := newFakePrefs()
	svc := &DefaultBookingService{Store: store, Prefs: prefs}

	c := cart.NewManager()
	c.Add(2)
	c.Add(5)

	record, err := svc.Submit(context.Background(), "s1", "yogi@example.com", c)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5}, record.BookedInstanceIDs)
	assert.Equal(t, "yogi@example.com", record.UserEmail)
	assert.NotEmpty(t, record.ID)
	assert.Empty(t, c.Items(), "cart empties on acknowledgment")
	assert.Equal(t, "yogi@example.com", prefs.saved["s1"])

	require.Len(t, store.submitKeys, 1)
	assert.Equal(t, record.ID, store.submitKeys[0], "booking id is the idempotency key")
}

func TestSubmit_StoreFailureLeavesCartIntact(t *testing.T) {
	store := &fakeStore{submitErr: errors.New("write failed")}
	svc := &DefaultBookingService{Store: store, Prefs: newFakePrefs()}

	c := cart.NewManager()
	c.Add(9)

	_, err := svc.Submit(context.Background(), "s1", "yogi@example.com", c)
	require.Error(t, err)
	assert.False(t, IsValidation(err))
	assert.Equal(t, []int{9}, c.Items(), "cart kept for retry")
}

func TestSubmit_FreshIdempotencyKeyPerAttempt(t *testing.T) {
	store := &fakeStore{}
	svc := &DefaultBookingService{Store: store, Prefs: newFakePrefs()}

	c := cart.NewManager()
	c.Add(1)
	_, err := svc.Submit(context.Background(), "s1", "yogi@example.com", c)
	require.NoError(t, err)

	c.Add(2)
	_, err = svc.Submit(context.Background(), "s1", "yogi@example.com", c)
	require.NoError(t, err)

	require.Len(t, store.submitKeys, 2)
	assert.NotEqual(t, store.submitKeys[0], store.submitKeys[1])
}

func TestBookingsFor_EnrichesAndDropsUnresolvable(t *testing.T) {
	store := &fakeStore{rawBookings: []models.RawBooking{
		{ID: "b1", UserEmail: "yogi@example.com", BookedInstanceIDs: []int{0, 404}, BookingTimestampMs: 100},
		{ID: "b2", UserEmail: "yogi@example.com", BookedInstanceIDs: []int{404}, BookingTimestampMs: 300},
		{ID: "b3", UserEmail: "yogi@example.com", BookedInstanceIDs: []int{1}, BookingTimestampMs: 200},
	}}
	svc := &DefaultBookingService{Store: store}

	bookings, err := svc.BookingsFor(context.Background(), "yogi@example.com", testSnapshot())
	require.NoError(t, err)

	// b2 resolved to nothing and is invisible; b3 is newer than b1.
	require.Len(t, bookings, 2)
	assert.Equal(t, "b3", bookings[0].BookingID)
	assert.Equal(t, "b1", bookings[1].BookingID)

	require.Len(t, bookings[1].Instances, 1)
	view := bookings[1].Instances[0]
	assert.Equal(t, 0, view.InstanceID)
	assert.Equal(t, "Vinyasa", view.ClassName)
	assert.Equal(t, "2025-09-02", view.Date)
	assert.Equal(t, "09:00", view.Time)
	assert.Equal(t, "Asha", view.TeacherName)
	assert.Equal(t, 20.0, view.Price)
}

func TestBookingsFor_MissingTimestampSortsOldest(t *testing.T) {
	store := &fakeStore{rawBookings: []models.RawBooking{
		{ID: "untimed", BookedInstanceIDs: []int{0}},
		{ID: "timed", BookedInstanceIDs: []int{1}, BookingTimestampMs: 50},
	}}
	svc := &DefaultBookingService{Store: store}

	bookings, err := svc.BookingsFor(context.Background(), "yogi@example.com", testSnapshot())
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "timed", bookings[0].BookingID)
	assert.Equal(t, "untimed", bookings[1].BookingID)
}

func TestBookingsFor_FetchErrorSurfaces(t *testing.T) {
	store := &fakeStore{fetchErr: errors.New("query failed")}
	svc := &DefaultBookingService{Store: store}

	_, err := svc.BookingsFor(context.Background(), "yogi@example.com", testSnapshot())
	assert.Error(t, err)
}
