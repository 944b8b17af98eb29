package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gridflow-io/gridflow/pkg/persistence"
	"github.com/gridflow-io/gridflow/pkg/persistence/file"
	"github.com/gridflow-io/gridflow/pkg/persistence/postgresql"
	"github.com/gridflow-io/gridflow/pkg/persistence/redis"
)

// NewPersistence creates the execution archive selected by the database URL
// scheme: postgres://, redis:// or a file path / file:// directory.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parsePersistenceProvider(databaseURL) {
	case "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	case "redis":
		return redis.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	switch scheme {
	case "postgres", "postgresql":
		return "postgresql"
	case "redis", "rediss":
		return "redis"
	default:
		return "file"
	}
}
