package app

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerfiles "github.com/swaggo/files"
	swagger "github.com/swaggo/gin-swagger"

	_ "github.com/Nazarious-ucu/blogsphere-api/docs"
	"github.com/Nazarious-ucu/blogsphere-api/internal/config"
	"github.com/Nazarious-ucu/blogsphere-api/internal/handlers/contact"
	"github.com/Nazarious-ucu/blogsphere-api/internal/handlers/health"
	"github.com/Nazarious-ucu/blogsphere-api/internal/handlers/newsletter"
	"github.com/Nazarious-ucu/blogsphere-api/internal/metrics"
)

// NewRouter builds the gin engine with the API routes, metrics, docs and
// the static file fallback.
func NewRouter(store FormStore, logger zerolog.Logger, m *metrics.Metrics, srv config.Server) *gin.Engine {
	router := gin.New()
	router.Use(
		requestLogger(logger),
		gin.Recovery(),
		cors.Default(),
		m.HTTPMiddleware(),
	)

	timeout := srv.RequestTimeoutDuration()
	newsletterHandler := newsletter.NewHandler(store, logger, m, timeout)
	contactHandler := contact.NewHandler(store, logger, m, timeout)

	api := router.Group("/api")
	{
		api.POST("/newsletter", newsletterHandler.Subscribe)
		api.POST("/contact", contactHandler.Send)
		api.GET("/health", health.Health)
	}

	router.GET("/swagger/*any", swagger.WrapHandler(swaggerfiles.Handler))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	router.NoRoute(staticFiles(srv.PublicDir))

	return router
}

// staticFiles serves GET and HEAD requests from dir. Directory listings are disabled.
func staticFiles(dir string) gin.HandlerFunc {
	fileServer := http.FileServer(gin.Dir(dir, false))
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	logger = logger.With().Str("component", "HTTP").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := logger.Info()
		if status >= http.StatusInternalServerError {
			ev = logger.Error()
		} else if status >= http.StatusBadRequest {
			ev = logger.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("remote", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("request handled")
	}
}
