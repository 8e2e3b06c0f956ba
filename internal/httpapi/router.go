package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joseph-bing-han/opencode-session-renamer/internal/common"
	"github.com/joseph-bing-han/opencode-session-renamer/internal/config"
	"github.com/joseph-bing-han/opencode-session-renamer/internal/httpapi/handlers"
	"github.com/joseph-bing-han/opencode-session-renamer/internal/httpapi/middleware"
	"github.com/joseph-bing-han/opencode-session-renamer/internal/journal"
	"github.com/joseph-bing-han/opencode-session-renamer/internal/renamer"
	"github.com/rs/zerolog"
)

// NewRouter builds the local status API.
func NewRouter(cfg config.Config, tracker *renamer.Tracker, jnl *journal.Journal, log zerolog.Logger) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	h := handlers.NewHandler(cfg, tracker, jnl)

	r.GET("/ping", h.Ping)
	r.GET("/status", h.Status)
	r.GET("/renames", h.Renames)

	return r
}
