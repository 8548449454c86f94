// Command load-literature replaces the whole literature catalog from a
// tab-separated file. The replace is atomic and destructive: all order
// line items are cleared first, then the catalog, then the new rows go
// in with their 1-based file position as sortOrder.
package main

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"litorders/internal/config"
	"litorders/internal/db"
	"litorders/internal/literature"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg := config.Load(log)
	file := cfg.CatalogFile
	if len(os.Args) > 1 {
		file = os.Args[1]
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		log.Fatal("read catalog file", zap.String("file", file), zap.Error(err))
	}
	items, err := literature.ParseCatalog(string(raw))
	if err != nil {
		log.Fatal("parse catalog file", zap.String("file", file), zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := db.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal("apply schema", zap.Error(err))
	}
	if err := literature.NewPGRepo(pool).ReplaceAll(ctx, items); err != nil {
		log.Fatal("replace catalog", zap.Error(err))
	}

	log.Info("catalog imported", zap.Int("items", len(items)), zap.String("file", file))
}
