package dedup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the seen table exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	//fail early instead of sqlite's "out of memory (14)" on a missing directory
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("seen-set directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}

	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA busy_timeout=5000;")

	//single writer per process
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&SeenURL{}); err != nil {
		return nil, fmt.Errorf("failed to create seen table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Has(ctx context.Context, url string) (bool, error) {
	var row SeenURL
	err := s.db.WithContext(ctx).Select("url").Where("url = ?", url).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query seen url: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) Add(ctx context.Context, url string) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&SeenURL{URL: url}).Error
	if err != nil {
		return fmt.Errorf("failed to mark url seen: %w", err)
	}
	return nil
}

// Count returns the number of recorded urls.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&SeenURL{}).Count(&n).Error
	return n, err
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
