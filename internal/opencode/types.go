package opencode

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ModelRef identifies a concrete provider/model pair known to the server.
type ModelRef struct {
	ProviderID string `json:"providerID"`
	ModelID    string `json:"modelID"`
}

func (m ModelRef) String() string {
	return m.ProviderID + "/" + m.ModelID
}

// Provider is one entry of the server's provider catalog. Model lookup is
// by ID, but ModelIDs keeps the declaration order of the wire payload
// because fallback picks "the first listed model".
type Provider struct {
	ID       string
	ModelIDs []string

	models map[string]struct{}
}

func (p *Provider) HasModel(id string) bool {
	_, ok := p.models[id]
	return ok
}

// FirstModelID returns the first model in declaration order, or "".
func (p *Provider) FirstModelID() string {
	if len(p.ModelIDs) == 0 {
		return ""
	}
	return p.ModelIDs[0]
}

// UnmarshalJSON decodes the provider object token by token so that the
// order of keys in "models" survives. encoding/json map decoding would
// randomize it.
func (p *Provider) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     string          `json:"id"`
		Models json.RawMessage `json:"models"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.ID = raw.ID
	p.ModelIDs = nil
	p.models = make(map[string]struct{})
	if len(raw.Models) == 0 || bytes.Equal(raw.Models, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Models))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("opencode: provider %q models is not an object", raw.ID)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("opencode: provider %q has non-string model key", raw.ID)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return err
		}
		if _, dup := p.models[key]; !dup {
			p.ModelIDs = append(p.ModelIDs, key)
			p.models[key] = struct{}{}
		}
	}
	return nil
}

// Catalog is the server's enumeration of providers plus its per-provider
// default model. Read-only once fetched.
type Catalog struct {
	Providers []Provider        `json:"providers"`
	Default   map[string]string `json:"default"`
}

// Provider returns the catalog entry with the given ID, or nil.
func (c *Catalog) Provider(id string) *Provider {
	for i := range c.Providers {
		if c.Providers[i].ID == id {
			return &c.Providers[i]
		}
	}
	return nil
}

// DefaultModelID returns the catalog-declared default model for a provider.
func (c *Catalog) DefaultModelID(providerID string) string {
	return c.Default[providerID]
}

// Part is one content part of a message.
type Part struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

const PartTypeText = "text"

// MessageSummary carries the server-produced digest of a message, when present.
type MessageSummary struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

// MessageTime records message lifecycle timestamps (unix millis).
type MessageTime struct {
	Created   int64 `json:"created,omitempty"`
	Completed int64 `json:"completed,omitempty"`
}

// Message is the metadata half of a chat message event.
type Message struct {
	ID        string          `json:"id"`
	SessionID string          `json:"sessionID"`
	Role      string          `json:"role"`
	Time      MessageTime     `json:"time"`
	Summary   *MessageSummary `json:"summary,omitempty"`
}

// Session is the subset of server session state the renamer reads.
type Session struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// PromptRequest is the body of a session prompt call. Model is omitted to
// let the server pick its own default.
type PromptRequest struct {
	System string    `json:"system,omitempty"`
	Parts  []Part    `json:"parts"`
	Model  *ModelRef `json:"model,omitempty"`
}

// PromptResponse is the assistant message produced by a prompt call.
type PromptResponse struct {
	Parts []Part `json:"parts"`
}

// FirstText returns the text of the first text-typed part, or "" when the
// response carries none.
func (r *PromptResponse) FirstText() string {
	for _, p := range r.Parts {
		if p.Type == PartTypeText {
			return p.Text
		}
	}
	return ""
}
