// Package testutil opens throwaway SQLite databases and seeds fixtures for
// package tests.
package testutil

import (
	"path/filepath"
	"sync"
	"testing"

	"minicourse/config"
	"minicourse/database"
	"minicourse/logger"

	"gorm.io/gorm"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// Config returns a test configuration pointing at a fresh SQLite file.
func Config(tb testing.TB) *config.Config {
	tb.Helper()
	return &config.Config{
		Port:             "0",
		AppEnv:           "test",
		DBDriver:         "sqlite",
		DBName:           filepath.Join(tb.TempDir(), "test.db"),
		JWTKey:           "test-secret",
		SaltRound:        4,
		AITimeoutSeconds: 2,
	}
}

// DB opens a migrated database private to the calling test.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	return DBWith(tb, Config(tb))
}

func DBWith(tb testing.TB, cfg *config.Config) *gorm.DB {
	tb.Helper()
	db, err := database.Connect(cfg, Logger(tb))
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	if err := database.Migrate(db, Logger(tb)); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
