package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	_ "securequote/docs"
	"securequote/internal/adapter/http/handlers"
	"securequote/internal/infrastructure/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Quotation *handlers.QuotationHandler
	Health    *handlers.HealthHandler
}

// NewRouter builds the gin engine with middlewares, swagger and the /v1 routes.
func NewRouter(cfg config.Config, log *logrus.Logger, h Handlers) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, cfg, log)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")
	addPingRoutes(v1, h.Health)
	addRPCRoutes(v1, h.Quotation, h.Health)
	return router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, cfg config.Config, log *logrus.Logger, h Handlers) error {
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           NewRouter(cfg, log, h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("[http] listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("[http] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func setMiddlewares(router *gin.Engine, cfg config.Config, log *logrus.Logger) {
	router.Use(requestID())
	router.Use(accessLog(log))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"panic":      recovered,
		}).Error("[http] recovered from panic")
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AddAllowHeaders(requestIDHeader)
	c.AddExposeHeaders(requestIDHeader)
	return c
}
