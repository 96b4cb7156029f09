package dedup

import (
	"context"
	"go-mostaql-watcher/internal/config"
)

// Store is the durable set of project URLs already processed.
// Entries are never updated or removed.
type Store interface {
	// Has reports whether url has already been recorded.
	Has(ctx context.Context, url string) (bool, error)
	// Add records url. Adding an existing url is a no-op.
	Add(ctx context.Context, url string) error
	Close() error
}

// SeenURL is the single row type of the seen table.
type SeenURL struct {
	URL string `gorm:"column:url;primaryKey"`
}

func (SeenURL) TableName() string {
	return "seen"
}

// Open picks PostgreSQL when a DATABASE_URL is configured, SQLite otherwise.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg.DatabaseURL != "" {
		pg, err := ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	}
	lite, err := OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return lite, nil
}
