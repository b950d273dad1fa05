package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sketchpair/sketchpair-server/internal/auth"
	"github.com/sketchpair/sketchpair-server/internal/config"
	"github.com/sketchpair/sketchpair-server/internal/core"
)

// NewServer builds the HTTP server: REST auth collaborators, health check
// and the WebSocket session endpoint.
func NewServer(hub *core.Hub, authService *auth.Service, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	api := NewAPIHandlers(authService, logger)
	router.POST("/api/login", api.Login)
	router.POST("/api/register", api.Register)
	router.GET("/api/check-username", api.CheckUsername)
	router.GET("/api/check-email", api.CheckEmail)

	authorized := router.Group("/api", AuthMiddleware(authService, logger))
	authorized.GET("/me", api.Me)

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
