package renamer

import (
	"context"
	"fmt"
	"sync"

	"github.com/joseph-bing-han/opencode-session-renamer/internal/opencode"
)

// fakeHost implements the host client surface in memory. It also exposes a
// provider catalog; a nil catalog means resolution passes requests through.
type fakeHost struct {
	mu sync.Mutex

	nextID  int
	created []string
	deleted []string

	prompts  []promptCall
	promptFn func(sessionID string, req opencode.PromptRequest) (*opencode.PromptResponse, error)

	updates   map[string]string
	updateErr error

	catalog    *opencode.Catalog
	catalogErr error
}

type promptCall struct {
	sessionID string
	req       opencode.PromptRequest
}

func newFakeHost() *fakeHost {
	return &fakeHost{updates: make(map[string]string)}
}

func (f *fakeHost) CreateSession(ctx context.Context) (*opencode.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("ses_scratch_%d", f.nextID)
	f.created = append(f.created, id)
	return &opencode.Session{ID: id}, nil
}

func (f *fakeHost) Prompt(ctx context.Context, id string, req opencode.PromptRequest) (*opencode.PromptResponse, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, promptCall{sessionID: id, req: req})
	fn := f.promptFn
	f.mu.Unlock()
	if fn != nil {
		return fn(id, req)
	}
	return &opencode.PromptResponse{
		Parts: []opencode.Part{{Type: opencode.PartTypeText, Text: "Fix login bug"}},
	}, nil
}

func (f *fakeHost) DeleteSession(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeHost) UpdateTitle(ctx context.Context, id, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates[id] = title
	return nil
}

func (f *fakeHost) Providers(ctx context.Context, directory string) (*opencode.Catalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.catalog, f.catalogErr
}

func (f *fakeHost) promptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *fakeHost) titleOf(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates[id]
}

// fakeHostWithGet adds the optional session-read capability.
type fakeHostWithGet struct {
	*fakeHost
	titles map[string]string
}

func (f *fakeHostWithGet) GetSession(ctx context.Context, id string) (*opencode.Session, error) {
	return &opencode.Session{ID: id, Title: f.titles[id]}, nil
}
