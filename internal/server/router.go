package server

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/probiller/purchase-gateway/internal/http/handlers"
	httpMW "github.com/probiller/purchase-gateway/internal/http/middleware"
	"github.com/probiller/purchase-gateway/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	PurchaseHandler *httpH.PurchaseHandler
	HealthHandler   *httpH.HealthHandler
	SessionAuth     *httpMW.SessionAuthMiddleware

	ExtraCORSOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.ExtraCORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api/v1")
	{
		// Init is the only public purchase call; it issues the session token
		// the rest of the flow authenticates with.
		if cfg.PurchaseHandler != nil {
			api.POST("/purchase/init", cfg.PurchaseHandler.Init)
		}
	}

	protected := api.Group("/")
	{
		if cfg.SessionAuth != nil {
			protected.Use(cfg.SessionAuth.RequireSession())
		}
		if cfg.PurchaseHandler != nil {
			protected.POST("/purchase/process", cfg.PurchaseHandler.Process)
			protected.POST("/purchase/complete", cfg.PurchaseHandler.Complete)
			protected.POST("/purchase/return", cfg.PurchaseHandler.Return)
		}
	}

	return r
}
