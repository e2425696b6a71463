package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zenflow/middleware"
	"zenflow/models"
	"zenflow/services/cart"
	"zenflow/services/catalog"
	"zenflow/utils"
)

// CartHandler exposes the session's selection set. The cart stores instance
// ids only; every read resolves them through the current snapshot and
// filters out whatever no longer resolves.
type CartHandler struct {
	Carts   *cart.Registry
	Catalog catalog.Service
	Logger  *zap.Logger
}

func NewCartHandler(carts *cart.Registry, svc catalog.Service, logger *zap.Logger) *CartHandler {
	return &CartHandler{Carts: carts, Catalog: svc, Logger: logger}
}

// cartItemView is one resolvable cart entry with display detail.
type cartItemView struct {
	InstanceID int                  `json:"instanceId"`
	Class      string               `json:"class"`
	Date       string               `json:"date"`
	Time       string               `json:"time"`
	Teacher    string               `json:"teacher"`
	Price      float64              `json:"price"`
	Instance   models.ClassInstance `json:"instance"`
}

// GetCart returns the resolved cart. Unresolvable ids (aged out of the
// future window, or never valid) are filtered from the view, never an
// error; their count is reported so the client can explain the shrinkage.
func (h *CartHandler) GetCart(c *gin.Context) {
	snap := h.Catalog.Current()
	manager := h.Carts.Get(middleware.SessionID(c))

	items := make([]cartItemView, 0, manager.Len())
	unresolvable := 0
	var total float64

	for _, id := range manager.Items() {
		if snap == nil {
			unresolvable++
			continue
		}
		inst, ok := snap.InstanceByID[id]
		if !ok {
			unresolvable++
			continue
		}
		parent, ok := snap.ClassByID[inst.ClassID]
		if !ok {
			unresolvable++
			continue
		}
		items = append(items, cartItemView{
			InstanceID: id,
			Class:      parent.Description,
			Date:       inst.Date,
			Time:       parent.Time,
			Teacher:    inst.Teacher.Name,
			Price:      parent.Price,
			Instance:   inst,
		})
		total += parent.Price
	}

	c.JSON(http.StatusOK, gin.H{
		"items":        items,
		"total":        total,
		"unresolvable": unresolvable,
	})
}

// AddItem adds one instance id to the cart. Only ids that resolve in the
// current snapshot are addable; adding an id already present is answered
// with duplicate=true rather than an error.
func (h *CartHandler) AddItem(c *gin.Context) {
	var input struct {
		InstanceID *int `json:"instanceId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.InstanceID == nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "instanceId is required")
		return
	}

	snap := h.Catalog.Current()
	if snap == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "catalog not loaded yet", "")
		return
	}
	if _, ok := snap.InstanceByID[*input.InstanceID]; !ok {
		utils.JSONError(c, http.StatusNotFound, "class session not found", strconv.Itoa(*input.InstanceID))
		return
	}

	manager := h.Carts.Get(middleware.SessionID(c))
	added := manager.Add(*input.InstanceID)
	if !added {
		h.Logger.Debug("duplicate cart add", zap.Int("instanceId", *input.InstanceID))
	}
	c.JSON(http.StatusOK, gin.H{
		"added":     added,
		"duplicate": !added,
		"count":     manager.Len(),
	})
}

// RemoveItem removes one id; removing an absent id is still a success.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid instance id", c.Param("id"))
		return
	}
	h.Carts.Get(middleware.SessionID(c)).Remove(id)
	c.Status(http.StatusNoContent)
}

// ClearCart empties the session's cart.
func (h *CartHandler) ClearCart(c *gin.Context) {
	h.Carts.Get(middleware.SessionID(c)).Clear()
	c.Status(http.StatusNoContent)
}
