package memory

import (
	"context"
	"fmt"
)

// Open constructs a Store for the given driver name and DSN.
//
// Drivers: "sqlite" (dsn is a file path), "postgres", "mongo", "redis"
// (dsn is the connection URL) and "memory" (dsn ignored, not durable).
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		if dsn == "" {
			dsn = "recall.db"
		}
		return NewSQLiteStore(dsn)
	case "postgres":
		return NewPostgresStore(ctx, dsn)
	case "mongo", "mongodb":
		return NewMongoStore(ctx, dsn, "", "")
	case "redis":
		return NewRedisStore(ctx, dsn)
	case "memory":
		return NewInMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", driver)
	}
}
