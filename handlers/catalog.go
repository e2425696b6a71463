package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zenflow/services/catalog"
	"zenflow/utils"
)

// CatalogHandler serves the reconciled class catalog.
type CatalogHandler struct {
	Catalog catalog.Service
	Logger  *zap.Logger
}

func NewCatalogHandler(svc catalog.Service, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Catalog: svc, Logger: logger}
}

// requireSnapshot answers 503 until the first reconciliation pass has
// published a model.
func (h *CatalogHandler) requireSnapshot(c *gin.Context) *catalog.Snapshot {
	snap := h.Catalog.Current()
	if snap == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "catalog not loaded yet", "try again shortly or trigger a refresh")
		return nil
	}
	return snap
}

// ListClasses returns every class with its embedded type and future
// instances.
func (h *CatalogHandler) ListClasses(c *gin.Context) {
	snap := h.requireSnapshot(c)
	if snap == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"version": snap.Version,
		"classes": snap.Classes,
	})
}

// GetClass returns one class by id, 404 when the id does not resolve in the
// current snapshot.
func (h *CatalogHandler) GetClass(c *gin.Context) {
	snap := h.requireSnapshot(c)
	if snap == nil {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid class id", c.Param("id"))
		return
	}
	class, ok := snap.ClassByID[id]
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "class not found", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, class)
}

// Refresh triggers a full reconciliation pass, the pull-to-refresh
// analogue. The previous snapshot stays live until the new one is
// published.
func (h *CatalogHandler) Refresh(c *gin.Context) {
	snap, err := h.Catalog.Refresh(c.Request.Context())
	if err != nil {
		h.Logger.Error("catalog refresh failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "failed to refresh catalog", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"version":         snap.Version,
		"classes":         len(snap.Classes),
		"futureInstances": len(snap.InstanceByID),
		"refreshedAt":     snap.RefreshedAt,
	})
}
