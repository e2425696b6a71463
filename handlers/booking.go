package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	prefsRepo "zenflow/database/repository/prefs"
	"zenflow/middleware"
	"zenflow/services/booking"
	"zenflow/services/cart"
	"zenflow/services/catalog"
	"zenflow/utils"
)

// BookingHandler exposes checkout and booking history.
type BookingHandler struct {
	Booking booking.Service
	Catalog catalog.Service
	Carts   *cart.Registry
	Prefs   prefsRepo.Store
	Logger  *zap.Logger
}

func NewBookingHandler(bookingSvc booking.Service, catalogSvc catalog.Service, carts *cart.Registry, prefs prefsRepo.Store, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		Booking: bookingSvc,
		Catalog: catalogSvc,
		Carts:   carts,
		Prefs:   prefs,
		Logger:  logger,
	}
}

// Checkout submits the session's cart under the given email. Validation
// failures answer 422 before any store write; transport failures answer
// 502 with the cart left intact so the client can retry.
func (h *BookingHandler) Checkout(c *gin.Context) {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	sessionID := middleware.SessionID(c)
	manager := h.Carts.Get(sessionID)

	record, err := h.Booking.Submit(c.Request.Context(), sessionID, input.Email, manager)
	if err != nil {
		if booking.IsValidation(err) {
			utils.JSONError(c, http.StatusUnprocessableEntity, "booking rejected", err.Error())
			return
		}
		h.Logger.Error("booking submission failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "booking failed", "something went wrong, please try again")
		return
	}

	c.JSON(http.StatusOK, record)
}

// SavedEmail returns the email remembered from the session's last checkout,
// for prefill.
func (h *BookingHandler) SavedEmail(c *gin.Context) {
	email, err := h.Prefs.LastEmail(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.Logger.Warn("failed to load saved email", zap.Error(err))
		// Prefill is a convenience; answer empty rather than erroring.
		email = ""
	}
	c.JSON(http.StatusOK, gin.H{"email": email})
}

// MyBookings returns the user's bookings enriched through the current
// snapshot, newest first. The email comes from the query string, falling
// back to the session's saved email.
func (h *BookingHandler) MyBookings(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		saved, err := h.Prefs.LastEmail(c.Request.Context(), middleware.SessionID(c))
		if err != nil {
			h.Logger.Warn("failed to load saved email", zap.Error(err))
		}
		email = saved
	}
	if email == "" {
		utils.JSONError(c, http.StatusBadRequest, "no email", "pass ?email= or book a class first to save one")
		return
	}

	snap := h.Catalog.Current()
	if snap == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "catalog not loaded yet", "")
		return
	}

	bookings, err := h.Booking.BookingsFor(c.Request.Context(), email, snap)
	if err != nil {
		h.Logger.Error("failed to fetch bookings", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "failed to load bookings", "please try again")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
