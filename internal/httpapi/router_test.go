package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joseph-bing-han/opencode-session-renamer/internal/config"
	"github.com/joseph-bing-han/opencode-session-renamer/internal/renamer"
	"github.com/rs/zerolog"
)

func TestStatusEndpoint(t *testing.T) {
	tracker := renamer.NewTracker()
	tracker.TryClaim("ses_1")
	tracker.MarkLocked("ses_2")

	r := NewRouter(config.Default(), tracker, nil, zerolog.Nop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}

	var body struct {
		Code int `json:"code"`
		Data struct {
			Sessions renamer.Stats  `json:"sessions"`
			Config   map[string]any `json:"config"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data.Sessions.Renamed != 1 || body.Data.Sessions.Locked != 1 {
		t.Fatalf("unexpected stats: %+v", body.Data.Sessions)
	}
	if body.Data.Config["model"] != "opencode/grok-code" {
		t.Fatalf("unexpected config: %+v", body.Data.Config)
	}
}

func TestRenamesWithoutJournal(t *testing.T) {
	r := NewRouter(config.Default(), renamer.NewTracker(), nil, zerolog.Nop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/renames", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with journal disabled, got %d", w.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	r := NewRouter(config.Default(), renamer.NewTracker(), nil, zerolog.Nop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}
