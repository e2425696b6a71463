package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenflow/middleware"
	"zenflow/models"
	"zenflow/services/booking"
	"zenflow/services/cart"
	"zenflow/services/catalog"
	"zenflow/utils"
)

// stubCatalog serves a fixed snapshot.
type stubCatalog struct {
	snap *catalog.Snapshot
}

func (s *stubCatalog) Refresh(ctx context.Context) (*catalog.Snapshot, error) {
	return s.snap, nil
}

func (s *stubCatalog) Current() *catalog.Snapshot {
	return s.snap
}

// stubStore acknowledges every submission and serves canned bookings.
type stubStore struct {
	submissions  int
	queriedEmail string
	rawBookings  []models.RawBooking
}

func (s *stubStore) FetchAll(ctx context.Context) (models.RawBundle, error) {
	return models.RawBundle{}, nil
}

func (s *stubStore) SubmitBooking(ctx context.Context, email string, instanceIDs []int, idempotencyKey string) (string, error) {
	s.submissions++
	return idempotencyKey, nil
}

func (s *stubStore) BookingsByEmail(ctx context.Context, email string) ([]models.RawBooking, error) {
	s.queriedEmail = email
	return s.rawBookings, nil
}

// stubPrefs remembers emails in a plain map.
type stubPrefs struct {
	saved map[string]string
}

func newStubPrefs() *stubPrefs {
	return &stubPrefs{saved: map[string]string{}}
}

func (p *stubPrefs) SaveEmail(ctx context.Context, sessionID, email string) error {
	p.saved[sessionID] = email
	return nil
}

func (p *stubPrefs) LastEmail(ctx context.Context, sessionID string) (string, error) {
	return p.saved[sessionID], nil
}

func testSnapshot() *catalog.Snapshot {
	snap, _ := catalog.Reconcile(models.RawBundle{
		Classes: []*models.RawClass{
			{Description: "Vinyasa", Time: "09:00", Price: 20},
		},
		ClassInstances: []*models.RawClassInstance{
			{ClassID: 0, TeacherID: 0, Date: "2025-09-02"},
		},
		Teachers: []*models.RawTeacher{{Name: "Asha"}},
	}, 20250901)
	return snap
}

// buildRouter wires the full API surface against the given stubs.
func buildRouter(t *testing.T, catalogSvc catalog.Service, store *stubStore, prefs *stubPrefs) (*gin.Engine, *cart.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := cart.NewRegistry()
	logger := utils.GetLogger()

	bookingSvc := &booking.DefaultBookingService{Store: store, Prefs: prefs}

	catalogHandler := NewCatalogHandler(catalogSvc, logger)
	cartHandler := NewCartHandler(registry, catalogSvc, logger)
	bookingHandler := NewBookingHandler(bookingSvc, catalogSvc, registry, prefs, logger)

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.SessionMiddleware())
	api.GET("/classes", catalogHandler.ListClasses)
	api.GET("/classes/:id", catalogHandler.GetClass)
	api.POST("/catalog/refresh", catalogHandler.Refresh)
	api.GET("/cart", cartHandler.GetCart)
	api.POST("/cart/items", cartHandler.AddItem)
	api.DELETE("/cart/items/:id", cartHandler.RemoveItem)
	api.DELETE("/cart", cartHandler.ClearCart)
	api.POST("/checkout", bookingHandler.Checkout)
	api.GET("/checkout/email", bookingHandler.SavedEmail)
	api.GET("/bookings", bookingHandler.MyBookings)
	return r, registry
}

func testRouter(t *testing.T) (*gin.Engine, *stubStore, *cart.Registry) {
	t.Helper()
	store := &stubStore{}
	r, registry := buildRouter(t, &stubCatalog{snap: testSnapshot()}, store, newStubPrefs())
	return r, store, registry
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, session string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(utils.SessionHeader, session)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCartFlow_AddDuplicateRemove(t *testing.T) {
	r, _, _ := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/cart/items", `{"instanceId":0}`, "sess-1")
	require.Equal(t, http.StatusOK, w.Code)
	var addResp struct {
		Added     bool `json:"added"`
		Duplicate bool `json:"duplicate"`
		Count     int  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &addResp))
	assert.True(t, addResp.Added)
	assert.Equal(t, 1, addResp.Count)

	// Duplicate add is answered, not errored.
	w = doJSON(t, r, http.MethodPost, "/api/cart/items", `{"instanceId":0}`, "sess-1")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &addResp))
	assert.True(t, addResp.Duplicate)
	assert.Equal(t, 1, addResp.Count)

	w = doJSON(t, r, http.MethodDelete, "/api/cart/items/0", "", "sess-1")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/cart", "", "sess-1")
	require.Equal(t, http.StatusOK, w.Code)
	var cartResp struct {
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cartResp))
	assert.Empty(t, cartResp.Items)
}

func TestCart_AddUnknownInstanceRejected(t *testing.T) {
	r, _, _ := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/cart/items", `{"instanceId":404}`, "sess-1")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	r, _, _ := testRouter(t)

	doJSON(t, r, http.MethodPost, "/api/cart/items", `{"instanceId":0}`, "sess-a")

	w := doJSON(t, r, http.MethodGet, "/api/cart", "", "sess-b")
	var cartResp struct {
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cartResp))
	assert.Empty(t, cartResp.Items)
}

func TestCheckout_InvalidEmailRejectedBeforeStoreWrite(t *testing.T) {
	r, store, registry := testRouter(t)

	doJSON(t, r, http.MethodPost, "/api/cart/items", `{"instanceId":0}`, "sess-1")

	w := doJSON(t, r, http.MethodPost, "/api/checkout", `{"email":"not-an-email"}`, "sess-1")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Zero(t, store.submissions)
	assert.Equal(t, []int{0}, registry.Get("sess-1").Items(), "cart untouched")
}

func TestCheckout_SuccessClearsCart(t *testing.T) {
	r, store, registry := testRouter(t)

	doJSON(t, r, http.MethodPost, "/api/cart/items", `{"instanceId":0}`, "sess-1")

	w := doJSON(t, r, http.MethodPost, "/api/checkout", `{"email":"yogi@example.com"}`, "sess-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, store.submissions)
	assert.Empty(t, registry.Get("sess-1").Items())

	var record models.BookingRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, "yogi@example.com", record.UserEmail)
	assert.Equal(t, []int{0}, record.BookedInstanceIDs)
}
