// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package database provides the persistent metadata store for governance
// state: proposals, votes, voter profiles, trust records, token balances,
// and risk assessments.
package database

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/blinklabs-io/vigil/database/models"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// Config describes the database configuration
type Config struct {
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	// DataDir is the path to the data directory. An empty value selects an
	// in-memory database, which is useful for testing
	DataDir string
}

// Database is a SQLite-backed store for governance metadata. All mutating
// access goes through Transaction so each operation applies atomically.
type Database struct {
	logger  *slog.Logger
	db      *gorm.DB
	dataDir string
}

// New creates a new database instance with optional persistence using the
// provided data directory
func New(cfg *Config) (*Database, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	var metadataDb *gorm.DB
	var err error
	if cfg.DataDir == "" {
		// Use in-memory database when no data directory is specified
		// cache=shared allows multiple connections to share the same in-memory database
		metadataDb, err = gorm.Open(
			sqlite.Open("file::memory:?cache=shared"),
			&gorm.Config{
				Logger:                 gormlogger.Discard,
				SkipDefaultTransaction: true,
			},
		)
		if err != nil {
			return nil, err
		}
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(cfg.DataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(cfg.DataDir, fs.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		metadataDbPath := filepath.Join(
			cfg.DataDir,
			"metadata.sqlite",
		)
		// WAL journal mode, disable sync on write
		metadataConnOpts := "_pragma=journal_mode(WAL)&_pragma=sync(OFF)"
		metadataDb, err = gorm.Open(
			sqlite.Open(
				fmt.Sprintf("file:%s?%s", metadataDbPath, metadataConnOpts),
			),
			&gorm.Config{
				Logger:                 gormlogger.Discard,
				SkipDefaultTransaction: true,
			},
		)
		if err != nil {
			return nil, err
		}
	}
	db := &Database{
		logger:  cfg.Logger,
		db:      metadataDb,
		dataDir: cfg.DataDir,
	}
	if err := db.init(); err != nil {
		return nil, err
	}
	// Create table schemas
	for _, model := range models.MigrateModels {
		db.logger.Debug(fmt.Sprintf("creating table: %#v", model))
		if err := db.db.AutoMigrate(model); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func (d *Database) init() error {
	if d.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	// Configure tracing for GORM
	if err := d.db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return err
	}
	return nil
}

// DB returns the underlying gorm.DB instance
func (d *Database) DB() *gorm.DB {
	return d.db
}

// DataDir returns the path to the data directory used for storage
func (d *Database) DataDir() string {
	return d.dataDir
}

// Logger returns the logger instance
func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Transaction runs the provided function inside a database transaction.
// The transaction commits if the function returns nil and rolls back
// otherwise, so each governance operation either fully applies or not at
// all.
func (d *Database) Transaction(fn func(txn *gorm.DB) error) error {
	return d.db.Transaction(fn)
}

// Close cleans up the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
