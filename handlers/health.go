package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zenflow/utils"
)

// HealthHandler returns the latest backend health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
