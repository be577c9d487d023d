package rest

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// NewRouter builds the gin engine with logging, recovery and, when limiter
// is non-nil, rate limiting on the credit routes. Health probes are never
// rate limited.
func NewRouter(credit *CreditHandler, health *HealthHandler, limiter *rate.Limiter, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(Recovery(logger), RequestLogger(logger))
	r.HandleMethodNotAllowed = true

	health.RegisterRoutes(r)

	api := r.Group("/")
	if limiter != nil {
		api.Use(RateLimit(limiter))
	}
	credit.RegisterRoutes(api)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	})
	return r
}
