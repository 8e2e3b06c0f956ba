package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the renamer's effective configuration. Immutable once loaded.
type Config struct {
	// Model is the LLM used for title generation, "providerID/modelID".
	// Empty means the server's default model.
	Model string `json:"model"`

	// TitleMaxLength caps the generated title in code points, date suffix
	// excluded.
	TitleMaxLength int `json:"titleMaxLength"`

	// DateFormat renders the title's date suffix. Supported tokens:
	// YYYY YY MM DD HH mm.
	DateFormat string `json:"dateFormat"`

	// MinMessageLength is the shortest message that triggers a rename.
	MinMessageLength int `json:"minMessageLength"`

	Debug bool `json:"debug"`

	// Service-level settings, env only.
	Directory   string `json:"-"`
	ServerURL   string `json:"-"`
	StatusAddr  string `json:"-"`
	JournalPath string `json:"-"`
}

func Default() Config {
	return Config{
		Model:            "opencode/grok-code",
		TitleMaxLength:   20,
		DateFormat:       "YY-MM-DD HH:mm",
		MinMessageLength: 5,
		Debug:            false,
		ServerURL:        "http://127.0.0.1:4096",
	}
}

// Load builds the effective config: defaults, overlaid by the first
// parseable config file, overlaid by environment variables.
func Load(directory string) Config {
	cfg := Default()
	cfg.Directory = directory

	for _, path := range configPaths(directory) {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := json.Unmarshal(StripJSONC(content), &cfg); err != nil {
			// A broken file is skipped, not fatal; a later layer may
			// still apply.
			continue
		}
		break
	}

	loadFromEnv(&cfg)
	clamp(&cfg)
	return cfg
}

// configPaths lists candidate config files, most specific first.
func configPaths(directory string) []string {
	var paths []string
	if directory != "" {
		paths = append(paths,
			filepath.Join(directory, ".opencode", "session-renamer.jsonc"),
			filepath.Join(directory, ".opencode", "session-renamer.json"),
		)
	}
	home, err := os.UserHomeDir()
	if err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "opencode", "session-renamer.jsonc"),
			filepath.Join(home, ".config", "opencode", "session-renamer.json"),
		)
	}
	return paths
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("OPENCODE_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("RENAMER_STATUS_ADDR"); v != "" {
		cfg.StatusAddr = v
	}
	if v := os.Getenv("RENAMER_JOURNAL_PATH"); v != "" {
		cfg.JournalPath = v
	}
	if v := os.Getenv("RENAMER_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("RENAMER_DEBUG"); v == "1" || v == "true" {
		cfg.Debug = true
	}
}

// clamp pulls out-of-range values back to their defaults.
func clamp(cfg *Config) {
	def := Default()
	if cfg.TitleMaxLength <= 0 {
		cfg.TitleMaxLength = def.TitleMaxLength
	}
	if cfg.MinMessageLength < 0 {
		cfg.MinMessageLength = def.MinMessageLength
	}
	if cfg.DateFormat == "" {
		cfg.DateFormat = def.DateFormat
	}
}
