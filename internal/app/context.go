// Package app wires workspace, config and store together for the CLI and
// server entry points.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weekplan/internal/config"
	"weekplan/internal/db"
	"weekplan/internal/domain"
	"weekplan/internal/memstore"
	"weekplan/internal/migrate"
	"weekplan/internal/repo"
	"weekplan/internal/store"
)

// OpenStore opens the workspace SQLite database (running migrations) or, in
// demo mode, an in-memory store pre-seeded with a sample product. The
// returned close func is a no-op for the demo store.
func OpenStore(workspace string, demo bool) (store.Store, func() error, error) {
	if demo {
		ms := memstore.New()
		if err := ms.Seed(time.Now()); err != nil {
			return nil, nil, err
		}
		return ms, func() error { return nil }, nil
	}
	if _, err := db.EnsureWorkspace(workspace); err != nil {
		return nil, nil, err
	}
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return nil, nil, err
	}
	if err := migrate.Migrate(conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return repo.Repo{DB: conn}, conn.Close, nil
}

// ResolveProductAndConfig picks the active product and makes sure it exists,
// seeding a default config when the workspace has none. Precedence: explicit
// override, then weekplan.yml, then a single product already in the store.
func ResolveProductAndConfig(ctx context.Context, workspace, productOverride, actorID string, st store.Store) (string, *config.Config, error) {
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return "", nil, err
	}
	productID := productOverride
	if productID == "" && cfg != nil {
		productID = cfg.Product.ID
	}
	if productID == "" {
		products, listErr := st.ListProducts(ctx)
		if listErr == nil && len(products) == 1 {
			productID = products[0].ID
		}
	}
	if productID == "" {
		return "", nil, fmt.Errorf("product not specified; use --product or create %s", config.Path(workspace))
	}
	if cfg == nil {
		cfg = config.Default(productID)
	}
	cfg.Product.ID = productID

	if _, err := st.GetProduct(ctx, productID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return "", nil, err
		}
		name := cfg.Product.Name
		if name == "" {
			name = productID
		}
		p := domain.Product{
			ID:        productID,
			Name:      name,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := st.CreateProduct(ctx, p); err != nil {
			return "", nil, fmt.Errorf("create product %s: %w", productID, err)
		}
	}
	return productID, cfg, nil
}
