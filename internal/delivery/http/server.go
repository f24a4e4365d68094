package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ilindan-dev/follower-notifier/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server is a wrapper for the HTTP server.
type Server struct {
	*http.Server
	logger zerolog.Logger
}

// NewServer creates and configures a new Gin server.
func NewServer(cfg *config.Config, handlers *Handlers, registry *prometheus.Registry, logger *zerolog.Logger) *Server {
	log := logger.With().Str("layer", "http_server").Logger()
	log.Info().Msg("initializing http server")

	router := NewRouter(cfg, handlers, registry, log)

	server := &http.Server{
		Addr:         cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	return &Server{server, log}
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(cfg *config.Config, handlers *Handlers, registry *prometheus.Registry, log zerolog.Logger) *gin.Engine {
	log.Info().Str("mode", cfg.HTTP.GinMode).Msg("setting gin mode")
	gin.SetMode(cfg.HTTP.GinMode)

	router := gin.New()

	log.Info().Msg("initializing middleware: recovery")
	router.Use(gin.Recovery())

	log.Info().Msg("registering webhook routes")
	handlers.RegisterRoutes(router)

	log.Info().Msg("registering health check endpoint")
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.HTTP.MetricsEnable && registry != nil {
		log.Info().Msg("registering metrics endpoint")
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	return router
}
