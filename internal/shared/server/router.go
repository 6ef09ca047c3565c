package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cvtailor-backend/internal/shared/config"
	"cvtailor-backend/internal/shared/metrics"
	"cvtailor-backend/internal/shared/server/middleware"
	"cvtailor-backend/internal/shared/server/respond"
)

// NewEngine builds the gin engine with shared middleware and the ambient
// health/metrics routes registered. Feature handlers attach their own routes
// on the returned API group.
func NewEngine(cfg config.Config) (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.Use(middleware.Auth())

	return r, api
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
