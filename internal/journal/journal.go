package journal

import (
	"context"

	"github.com/glebarez/sqlite"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Journal persists rename outcomes to an embedded sqlite database. Purely
// observational: write failures are logged and swallowed so the rename
// flow never depends on it.
type Journal struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open creates or opens the journal database at path and migrates its
// schema.
func Open(path string, log zerolog.Logger) (*Journal, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return New(db, log)
}

// New wraps an existing gorm handle. Used directly by tests.
func New(db *gorm.DB, log zerolog.Logger) (*Journal, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &Journal{db: db, log: log}, nil
}

func (j *Journal) record(ctx context.Context, e *Entry) {
	e.ID = ulid.Make().String()
	if err := j.db.WithContext(ctx).Create(e).Error; err != nil {
		j.log.Warn().Err(err).Str("session", e.SessionID).Msg("journal write failed")
	}
}

func (j *Journal) RecordSuccess(ctx context.Context, sessionID, title, model string) {
	j.record(ctx, &Entry{
		SessionID: sessionID,
		Title:     title,
		Model:     model,
		Status:    StatusSucceeded,
	})
}

func (j *Journal) RecordFailure(ctx context.Context, sessionID, model, reason string) {
	j.record(ctx, &Entry{
		SessionID: sessionID,
		Model:     model,
		Status:    StatusFailed,
		Error:     &reason,
	})
}

// Recent returns the newest entries first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var entries []Entry
	if err := j.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
