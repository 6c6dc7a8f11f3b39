package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/uxmentor/uxmentor-be/config"
)

// NewDocumentStore creates a DocumentStore based on the configured driver.
// - "postgres": PostgreSQL
// - "mongo": MongoDB
// - "memory" or empty (with no postgres URI): in-memory store
func NewDocumentStore(ctx context.Context, cfg config.StoreConfig) (DocumentStore, error) {
	driver := cfg.Driver
	if driver == "" && strings.HasPrefix(cfg.PostgresURI, "postgres") {
		driver = "postgres"
	}
	switch driver {
	case "postgres":
		store, err := NewPostgresStore(ctx, cfg.PostgresURI)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return store, nil
	case "mongo":
		store, err := NewMongoStore(ctx, cfg.MongoURI, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		return store, nil
	case "memory", "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", driver)
	}
}
