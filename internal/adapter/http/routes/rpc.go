package routes

import (
	"securequote/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathRPC = "/rpc"
)

func addRPCRoutes(rg *gin.RouterGroup, quotationHandler *handlers.QuotationHandler, healthHandler *handlers.HealthHandler) {
	rpc := rg.Group(PathRPC)
	{
		// Queries
		rpc.GET("/listPublicQuotations", quotationHandler.ListPublicQuotations)
		rpc.GET("/getQuotationById", quotationHandler.GetQuotationByID)
		rpc.GET("/getSensitiveQuotationData", quotationHandler.GetSensitiveQuotationData)
		rpc.GET("/healthcheck", healthHandler.Healthcheck)

		// Mutations
		rpc.POST("/createQuotation", quotationHandler.CreateQuotation)
		rpc.POST("/updateQuotation", quotationHandler.UpdateQuotation)
		rpc.POST("/deleteQuotation", quotationHandler.DeleteQuotation)
	}
}
