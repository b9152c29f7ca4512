package routes

import (
	"securequote/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

func addPingRoutes(rg *gin.RouterGroup, healthHandler *handlers.HealthHandler) {
	rg.GET("/ping", healthHandler.Ping)
}
