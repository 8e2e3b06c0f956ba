package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joseph-bing-han/opencode-session-renamer/internal/common"
	"github.com/joseph-bing-han/opencode-session-renamer/internal/config"
	"github.com/joseph-bing-han/opencode-session-renamer/internal/journal"
	"github.com/joseph-bing-han/opencode-session-renamer/internal/renamer"
)

type Handler struct {
	Cfg     config.Config
	Tracker *renamer.Tracker
	Journal *journal.Journal
}

func NewHandler(cfg config.Config, tracker *renamer.Tracker, jnl *journal.Journal) *Handler {
	return &Handler{Cfg: cfg, Tracker: tracker, Journal: jnl}
}

func (h *Handler) Ping(c *gin.Context) {
	common.Ok(c, gin.H{"pong": true})
}

// Status reports the tracker snapshot and the effective rename settings.
func (h *Handler) Status(c *gin.Context) {
	common.Ok(c, gin.H{
		"sessions": h.Tracker.Stats(),
		"config": gin.H{
			"model":            h.Cfg.Model,
			"titleMaxLength":   h.Cfg.TitleMaxLength,
			"dateFormat":       h.Cfg.DateFormat,
			"minMessageLength": h.Cfg.MinMessageLength,
			"debug":            h.Cfg.Debug,
		},
	})
}

// Renames lists recent journal entries, newest first.
func (h *Handler) Renames(c *gin.Context) {
	if h.Journal == nil {
		common.Fail(c, http.StatusNotFound, 40401, "journal disabled")
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	entries, err := h.Journal.Recent(c.Request.Context(), limit)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "journal query failed")
		return
	}
	common.Ok(c, entries)
}
