package renamer

import (
	"strings"

	"github.com/joseph-bing-han/opencode-session-renamer/internal/opencode"
)

// DefaultProviderID is the built-in provider preferred when the configured
// model string names no provider, or when the named one is unknown.
const DefaultProviderID = "opencode"

// ParseModelString splits a configured "provider/model" string. Without a
// slash the whole string is the model and the provider defaults to the
// built-in one. Empty or partially empty requests yield nil, meaning "no
// explicit model configured".
func ParseModelString(s string) *opencode.ModelRef {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}

	idx := strings.Index(trimmed, "/")
	if idx < 0 {
		return &opencode.ModelRef{ProviderID: DefaultProviderID, ModelID: trimmed}
	}

	providerID := strings.TrimSpace(trimmed[:idx])
	modelID := strings.TrimSpace(trimmed[idx+1:])
	if providerID == "" || modelID == "" {
		return nil
	}
	return &opencode.ModelRef{ProviderID: providerID, ModelID: modelID}
}

// ResolveModel turns the configured model string plus the cached catalog
// into a concrete provider/model pair. A nil result means no override: the
// caller lets the server pick its own default.
//
// Precedence: the explicit request when the catalog lists it, then the
// requested provider's default or first model, then the built-in provider,
// then any provider with a usable model.
func ResolveModel(configured string, catalog *opencode.Catalog) *opencode.ModelRef {
	requested := ParseModelString(configured)
	if catalog == nil {
		// No catalog means no validation is possible.
		return requested
	}

	if requested == nil {
		if ref := pickFromProvider(catalog, catalog.Provider(DefaultProviderID)); ref != nil {
			return ref
		}
		for i := range catalog.Providers {
			p := &catalog.Providers[i]
			if def := catalog.DefaultModelID(p.ID); def != "" && p.HasModel(def) {
				return &opencode.ModelRef{ProviderID: p.ID, ModelID: def}
			}
		}
		for i := range catalog.Providers {
			p := &catalog.Providers[i]
			if first := p.FirstModelID(); first != "" {
				return &opencode.ModelRef{ProviderID: p.ID, ModelID: first}
			}
		}
		return nil
	}

	provider := catalog.Provider(requested.ProviderID)
	if provider != nil && provider.HasModel(requested.ModelID) {
		return requested
	}
	if ref := pickFromProvider(catalog, provider); ref != nil {
		return ref
	}
	return pickFromProvider(catalog, catalog.Provider(DefaultProviderID))
}

// pickFromProvider chooses the provider's catalog-declared default model if
// it is actually listed, else its first listed model.
func pickFromProvider(catalog *opencode.Catalog, p *opencode.Provider) *opencode.ModelRef {
	if p == nil {
		return nil
	}
	if def := catalog.DefaultModelID(p.ID); def != "" && p.HasModel(def) {
		return &opencode.ModelRef{ProviderID: p.ID, ModelID: def}
	}
	if first := p.FirstModelID(); first != "" {
		return &opencode.ModelRef{ProviderID: p.ID, ModelID: first}
	}
	return nil
}
