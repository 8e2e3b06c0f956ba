package renamer

import (
	"context"
	"fmt"
	"strings"

	"github.com/joseph-bing-han/opencode-session-renamer/internal/opencode"
	"github.com/rs/zerolog"
)

const systemPrompt = `You are a session title generator. Generate a concise, descriptive title for a coding session based on the user's first message.

Rules:
- Title must be in the same language as the user's message
- Title should capture the main task/topic
- Keep it short and descriptive (max %d characters)
- No quotes, no punctuation at the end
- Just output the title, nothing else

Examples:
- User: "Help me fix the login bug in auth.ts" -> "Fix login bug"
- User: "I want to refactor the database module" -> "Refactor database module"
- User: "Please optimize this React component's performance" -> "Optimize React component performance"`

// PromptClient is the part of the host surface the generator drives.
type PromptClient interface {
	CreateSession(ctx context.Context) (*opencode.Session, error)
	Prompt(ctx context.Context, id string, req opencode.PromptRequest) (*opencode.PromptResponse, error)
	DeleteSession(ctx context.Context, id string) error
}

// Generator obtains a title for a piece of text by driving a throwaway
// scratch session through the host's prompt API.
type Generator struct {
	client    PromptClient
	tracker   *Tracker
	maxLength int
	log       zerolog.Logger
}

func NewGenerator(client PromptClient, tracker *Tracker, maxLength int, log zerolog.Logger) *Generator {
	return &Generator{client: client, tracker: tracker, maxLength: maxLength, log: log}
}

// Generate returns a trimmed, length-capped title for sourceText, or ""
// when generation soft-fails. model pins the prompt to a resolved
// provider/model pair; nil lets the server choose.
func (g *Generator) Generate(ctx context.Context, sourceText string, model *opencode.ModelRef) string {
	scratch, err := g.client.CreateSession(ctx)
	if err != nil {
		g.log.Error().Err(err).Msg("failed to create scratch session")
		return ""
	}

	// Mark before anything else so a routed event for the scratch session
	// is ignored even mid-generation.
	g.tracker.MarkTemporary(scratch.ID)
	defer func() {
		if err := g.client.DeleteSession(ctx, scratch.ID); err != nil {
			g.log.Debug().Err(err).Str("session", scratch.ID).Msg("scratch session delete failed")
		}
	}()

	req := opencode.PromptRequest{
		System: fmt.Sprintf(systemPrompt, g.maxLength),
		Parts: []opencode.Part{
			{Type: opencode.PartTypeText, Text: "Generate a title for this message:\n\n" + sourceText},
		},
		Model: model,
	}

	resp, err := g.client.Prompt(ctx, scratch.ID, req)
	if err != nil && model != nil && opencode.IsModelNotFound(err) {
		g.log.Debug().Str("model", model.String()).Msg("configured model unavailable, retrying with server default")
		retry := req
		retry.Model = nil
		resp, err = g.client.Prompt(ctx, scratch.ID, retry)
	}
	if err != nil {
		g.log.Error().Err(err).Msg("title prompt failed")
		return ""
	}

	text := strings.TrimSpace(resp.FirstText())
	if text == "" {
		g.log.Debug().Msg("title prompt returned no text part")
		return ""
	}
	return TruncateTitle(text, g.maxLength)
}

// TruncateTitle hard-cuts a title to max code points. No ellipsis, no word
// boundary awareness.
func TruncateTitle(title string, max int) string {
	if max <= 0 {
		return title
	}
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max])
}
