package handlers

import (
	"net/http"
	"time"

	response "securequote/internal/adapter/http/dto/response"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: func() time.Time { return time.Now().UTC() }}
}

// Healthcheck godoc
// @Summary      Service status with server time
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Envelope{data=response.HealthResponse}
// @Router       /rpc/healthcheck [get]
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, response.Envelope{Data: response.HealthResponse{Status: "ok", Timestamp: h.now()}})
}

// Ping godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
