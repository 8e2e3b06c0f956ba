package renamer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/joseph-bing-han/opencode-session-renamer/internal/config"
	"github.com/joseph-bing-han/opencode-session-renamer/internal/opencode"
	"github.com/rs/zerolog"
)

// defaultTitlePrefixes mark titles the server assigns at session creation.
// Anything else is user- or host-assigned and locks the session.
var defaultTitlePrefixes = []string{"New session - ", "Child session - "}

// IsDefaultTitle reports whether a title is the server's placeholder.
func IsDefaultTitle(title string) bool {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return true
	}
	for _, prefix := range defaultTitlePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// HostClient is the full host surface the orchestrator consumes.
type HostClient interface {
	PromptClient
	UpdateTitle(ctx context.Context, id, title string) error
}

// SessionReader is an optional host capability. When the client implements
// it, existing titles are checked before claiming; otherwise the lock-check
// step is skipped.
type SessionReader interface {
	GetSession(ctx context.Context, id string) (*opencode.Session, error)
}

// Recorder receives rename outcomes for the audit journal. Implementations
// must not influence renaming decisions.
type Recorder interface {
	RecordSuccess(ctx context.Context, sessionID, title, model string)
	RecordFailure(ctx context.Context, sessionID, model, reason string)
}

// Service is the rename orchestrator: it filters incoming message events,
// claims eligible sessions, and runs generation-and-apply in the
// background.
type Service struct {
	client   HostClient
	cfg      config.Config
	tracker  *Tracker
	catalog  *catalogCell
	gen      *Generator
	recorder Recorder
	log      zerolog.Logger

	now func() time.Time
	wg  sync.WaitGroup
}

func NewService(client HostClient, cfg config.Config, tracker *Tracker, recorder Recorder, log zerolog.Logger) *Service {
	return &Service{
		client:   client,
		cfg:      cfg,
		tracker:  tracker,
		catalog:  newCatalogCell(clientProviderSource(client), cfg.Directory, log),
		gen:      NewGenerator(client, tracker, cfg.TitleMaxLength, log),
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

// clientProviderSource narrows the host client to its catalog capability.
// Clients without one (as in some tests) disable validation.
func clientProviderSource(client HostClient) ProviderSource {
	if src, ok := client.(ProviderSource); ok {
		return src
	}
	return noCatalog{}
}

type noCatalog struct{}

func (noCatalog) Providers(ctx context.Context, directory string) (*opencode.Catalog, error) {
	return nil, errors.New("host client exposes no provider catalog")
}

// Tracker exposes the session classifications for the status API.
func (s *Service) Tracker() *Tracker { return s.tracker }

// Wait blocks until all in-flight generation tasks finish. Tasks are never
// cancelled; shutdown drains them.
func (s *Service) Wait() { s.wg.Wait() }

// HandleMessage is the event entry point. It never blocks on the LLM round
// trip: claim checking is synchronous, generation runs detached.
func (s *Service) HandleMessage(ctx context.Context, ev opencode.MessageEvent) {
	sessionID := ev.SessionID
	if sessionID == "" {
		return
	}
	log := s.log.With().Str("session", sessionID).Logger()

	if s.tracker.IsTemporary(sessionID) {
		log.Debug().Msg("temporary session, skipping")
		return
	}
	if s.tracker.IsRenamed(sessionID) {
		log.Debug().Msg("session already renamed, skipping")
		return
	}
	if s.tracker.IsLocked(sessionID) {
		log.Debug().Msg("session title locked, skipping")
		return
	}

	if reader, ok := s.client.(SessionReader); ok {
		if sess, err := reader.GetSession(ctx, sessionID); err != nil {
			log.Debug().Err(err).Msg("failed to read session title")
		} else if !IsDefaultTitle(sess.Title) {
			s.tracker.MarkLocked(sessionID)
			log.Debug().Msg("session already titled, skipping")
			return
		}
	}

	text := candidateText(ev)
	if text == "" {
		log.Debug().Msg("no content found for title generation")
		return
	}
	if len([]rune(text)) < s.cfg.MinMessageLength {
		log.Debug().Msg("message too short, skipping")
		return
	}

	if !s.tracker.TryClaim(sessionID) {
		return
	}

	// Scheduled tasks run to completion: shutdown drains them via Wait
	// instead of cancelling them.
	taskCtx := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.tracker.Release(sessionID)
				log.Error().Any("panic", r).Msg("rename task panicked")
			}
		}()
		s.applyTitle(taskCtx, sessionID, text, log)
	}()
}

func (s *Service) applyTitle(ctx context.Context, sessionID, text string, log zerolog.Logger) {
	model := ResolveModel(s.cfg.Model, s.catalog.Get(ctx))
	modelName := ""
	if model != nil {
		modelName = model.String()
		log.Debug().Str("model", modelName).Msg("using resolved model")
	} else {
		log.Debug().Msg("using server default model, no explicit override")
	}

	title := s.gen.Generate(ctx, text, model)
	if title == "" {
		s.tracker.Release(sessionID)
		if s.recorder != nil {
			s.recorder.RecordFailure(ctx, sessionID, modelName, "title generation failed")
		}
		log.Debug().Msg("failed to generate title")
		return
	}

	full := title + "(" + FormatDate(s.cfg.DateFormat, s.now()) + ")"
	if err := s.client.UpdateTitle(ctx, sessionID, full); err != nil {
		s.tracker.Release(sessionID)
		if s.recorder != nil {
			s.recorder.RecordFailure(ctx, sessionID, modelName, err.Error())
		}
		log.Error().Err(err).Msg("failed to apply session title")
		return
	}

	if s.recorder != nil {
		s.recorder.RecordSuccess(ctx, sessionID, full, modelName)
	}
	log.Info().Str("title", full).Msg("renamed session")
}

// candidateText picks the text to summarize: the message summary title,
// else the summary body, else the first text part of the event.
func candidateText(ev opencode.MessageEvent) string {
	if sum := ev.Message.Summary; sum != nil {
		if sum.Title != "" {
			return sum.Title
		}
		if sum.Body != "" {
			return sum.Body
		}
	}
	for _, p := range ev.Parts {
		if p.Type == opencode.PartTypeText {
			return p.Text
		}
	}
	return ""
}
