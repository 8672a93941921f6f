// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package console

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/config"
	"github.com/taibuivan/erpconsole/internal/platform/store"
	"github.com/taibuivan/erpconsole/internal/platform/store/docstore"
	"github.com/taibuivan/erpconsole/internal/platform/store/memstore"
)

// Source opens the backing store of each entity kind.
type Source struct {
	// Driver is config.StoreMemory or config.StorePostgres.
	Driver string

	// Latency is the simulated round trip of the memory driver.
	Latency time.Duration

	// DB is the pool of the postgres driver.
	DB docstore.DB

	Logger *slog.Logger
}

// Open returns the store for kind. Postgres kinds are seeded on first use.
func Open[T listctl.Resource](ctx context.Context, source Source, kind store.Kind[T]) (erp.Backing[T], error) {
	logger := source.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch source.Driver {
	case config.StoreMemory, "":
		return memstore.New(kind, memstore.WithLatency(source.Latency)), nil

	case config.StorePostgres:
		if source.DB == nil {
			return nil, fmt.Errorf("console: %s store needs a database", kind.Name)
		}

		documents := docstore.New(source.DB, kind, logger)
		seeded, err := documents.Seed(ctx)
		if err != nil {
			return nil, fmt.Errorf("console: seed %s: %w", kind.Name, err)
		}
		if seeded {
			logger.InfoContext(ctx, "store_seeded", slog.String("kind", kind.Name), slog.Int("count", len(kind.Seed)))
		}
		return documents, nil
	}

	return nil, fmt.Errorf("console: unknown store driver %q", source.Driver)
}
