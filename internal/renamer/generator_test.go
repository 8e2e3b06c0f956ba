package renamer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/joseph-bing-han/opencode-session-renamer/internal/opencode"
	"github.com/rs/zerolog"
)

func newTestGenerator(host *fakeHost, maxLength int) (*Generator, *Tracker) {
	tracker := NewTracker()
	return NewGenerator(host, tracker, maxLength, zerolog.Nop()), tracker
}

func TestGenerate_Success(t *testing.T) {
	host := newFakeHost()
	gen, tracker := newTestGenerator(host, 20)

	title := gen.Generate(context.Background(), "Help me fix the login bug in auth.ts", nil)
	if title != "Fix login bug" {
		t.Fatalf("unexpected title: %q", title)
	}

	if len(host.created) != 1 {
		t.Fatalf("expected 1 scratch session, got %d", len(host.created))
	}
	scratch := host.created[0]
	if !tracker.IsTemporary(scratch) {
		t.Fatalf("scratch session %s not marked temporary", scratch)
	}
	if len(host.deleted) != 1 || host.deleted[0] != scratch {
		t.Fatalf("scratch session not deleted: %v", host.deleted)
	}
}

func TestGenerate_TruncatesByCodePoints(t *testing.T) {
	host := newFakeHost()
	host.promptFn = func(id string, req opencode.PromptRequest) (*opencode.PromptResponse, error) {
		return &opencode.PromptResponse{
			Parts: []opencode.Part{{Type: opencode.PartTypeText, Text: "  修复登录页面的认证错误并重构会话模块  "}},
		}, nil
	}
	gen, _ := newTestGenerator(host, 8)

	title := gen.Generate(context.Background(), "some long message", nil)
	if title != "修复登录页面的认" {
		t.Fatalf("unexpected title: %q", title)
	}
}

func TestGenerate_ModelNotFoundRetriesWithoutOverride(t *testing.T) {
	host := newFakeHost()
	host.promptFn = func(id string, req opencode.PromptRequest) (*opencode.PromptResponse, error) {
		if req.Model != nil {
			return nil, &opencode.APIError{Name: "ProviderModelNotFoundError"}
		}
		return &opencode.PromptResponse{
			Parts: []opencode.Part{{Type: opencode.PartTypeText, Text: "Refactor database"}},
		}, nil
	}
	gen, _ := newTestGenerator(host, 20)

	model := &opencode.ModelRef{ProviderID: "anthropic", ModelID: "gone"}
	title := gen.Generate(context.Background(), "refactor the db module", model)
	if title != "Refactor database" {
		t.Fatalf("unexpected title: %q", title)
	}

	if len(host.prompts) != 2 {
		t.Fatalf("expected 2 prompt calls, got %d", len(host.prompts))
	}
	if host.prompts[0].req.Model == nil {
		t.Fatalf("first prompt should carry the model override")
	}
	if host.prompts[1].req.Model != nil {
		t.Fatalf("retry must not carry a model override")
	}
}

func TestGenerate_OtherErrorNotRetried(t *testing.T) {
	host := newFakeHost()
	host.promptFn = func(id string, req opencode.PromptRequest) (*opencode.PromptResponse, error) {
		return nil, errors.New("boom")
	}
	gen, _ := newTestGenerator(host, 20)

	model := &opencode.ModelRef{ProviderID: "opencode", ModelID: "grok-code"}
	if title := gen.Generate(context.Background(), "hello world", model); title != "" {
		t.Fatalf("expected empty title, got %q", title)
	}
	if len(host.prompts) != 1 {
		t.Fatalf("expected single prompt call, got %d", len(host.prompts))
	}
	// Cleanup still runs on the failure path.
	if len(host.deleted) != 1 {
		t.Fatalf("scratch session not deleted after failure")
	}
}

func TestGenerate_EmptyResponseIsSoftFailure(t *testing.T) {
	host := newFakeHost()
	host.promptFn = func(id string, req opencode.PromptRequest) (*opencode.PromptResponse, error) {
		return &opencode.PromptResponse{Parts: []opencode.Part{{Type: "tool", Text: ""}}}, nil
	}
	gen, _ := newTestGenerator(host, 20)

	if title := gen.Generate(context.Background(), "hello world", nil); title != "" {
		t.Fatalf("expected empty title, got %q", title)
	}
}

func TestGenerate_SystemPromptCarriesMaxLength(t *testing.T) {
	host := newFakeHost()
	gen, _ := newTestGenerator(host, 42)

	gen.Generate(context.Background(), "hello world", nil)
	if len(host.prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(host.prompts))
	}
	if !strings.Contains(host.prompts[0].req.System, "max 42 characters") {
		t.Fatalf("system prompt missing interpolated length: %q", host.prompts[0].req.System)
	}
}

func TestTruncateTitle(t *testing.T) {
	if got := TruncateTitle("short", 20); got != "short" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := TruncateTitle("exactly-20-chars-ok!", 20); got != "exactly-20-chars-ok!" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := TruncateTitle("this one is definitely longer", 7); got != "this on" {
		t.Fatalf("unexpected: %q", got)
	}
}
