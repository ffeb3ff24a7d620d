package source

import (
	"context"
	"fmt"

	"github.com/ecomsuite/storefront/internal/catalog"
	"github.com/ecomsuite/storefront/pkg/config"
)

// Snapshot is one complete fetch of the remote or mock catalog.
type Snapshot struct {
	Products   []catalog.Product
	Categories []catalog.Category
}

// Fetcher supplies the product collection. Implementations own backend
// selection; the query engine never knows where products came from.
type Fetcher interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// ForConfig returns the fetcher selected by configuration.
func ForConfig(cfg config.CatalogConfig) (Fetcher, error) {
	switch cfg.Source {
	case config.CatalogSourceMock:
		return NewMock()
	case config.CatalogSourceREST:
		return NewREST(cfg.RESTBaseURL, cfg.RequestTimeout), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}

// Apply loads one snapshot into the engine, replacing both collections.
func Apply(ctx context.Context, fetcher Fetcher, engine *catalog.Engine) error {
	snapshot, err := fetcher.Fetch(ctx)
	if err != nil {
		return err
	}
	engine.SetProducts(snapshot.Products)
	engine.SetCategories(snapshot.Categories)
	return nil
}
