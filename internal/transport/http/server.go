package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/whojaskaran/EchoShare/internal/config"
	"github.com/whojaskaran/EchoShare/internal/core"
	"github.com/whojaskaran/EchoShare/pkg/metrics"
)

// NewServer builds the HTTP server: liveness endpoints, Prometheus metrics,
// and the websocket upgrade route. There is no other HTTP surface.
func NewServer(hub *core.Hub, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(LoggerMiddleware(logger))

	router.GET("/", healthHandler)
	router.GET("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// The upgrade hijacks the connection, which gin's response writer does
	// not allow, so /ws is mounted on the outer mux with gin as fallback.
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, cfg, logger))
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "Server is running and healthy!")
}
