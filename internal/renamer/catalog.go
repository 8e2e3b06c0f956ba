package renamer

import (
	"context"
	"sync"

	"github.com/joseph-bing-han/opencode-session-renamer/internal/opencode"
	"github.com/rs/zerolog"
)

// ProviderSource is the catalog half of the host client surface.
type ProviderSource interface {
	Providers(ctx context.Context, directory string) (*opencode.Catalog, error)
}

// catalogCell memoizes a single catalog fetch for the process lifetime.
// A failed fetch is cached too: resolution then degrades to pass-through
// instead of retrying the server on every message.
type catalogCell struct {
	source    ProviderSource
	directory string
	log       zerolog.Logger

	once    sync.Once
	catalog *opencode.Catalog
}

func newCatalogCell(source ProviderSource, directory string, log zerolog.Logger) *catalogCell {
	return &catalogCell{source: source, directory: directory, log: log}
}

// Get returns the cached catalog, fetching it on first use. Concurrent
// first callers share the single in-flight fetch. Returns nil when the
// fetch failed.
func (c *catalogCell) Get(ctx context.Context) *opencode.Catalog {
	c.once.Do(func() {
		cat, err := c.source.Providers(ctx, c.directory)
		if err != nil {
			c.log.Warn().Err(err).Msg("provider catalog fetch failed, resolution will pass requests through")
			return
		}
		c.catalog = cat
		c.log.Debug().Int("providers", len(cat.Providers)).Msg("provider catalog cached")
	})
	return c.catalog
}
