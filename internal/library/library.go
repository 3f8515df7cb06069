// Package library is the local song, annotation and setlist store backed by
// SQLite, with song binaries kept in a file store.
package library

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jaki95/setlist-sync/internal/storage"
)

var (
	ErrSongNotFound    = errors.New("song not found")
	ErrSetlistNotFound = errors.New("setlist not found")
)

// Library implements the song library, annotation store and setlist store.
type Library struct {
	db    *gorm.DB
	sqlDB *sql.DB
	files storage.Storage
	now   func() time.Time
}

// Open opens (creating if needed) the database at dbPath. Song binaries are
// read from and written to files.
func Open(dbPath string, files storage.Storage) (*Library, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	// SQLite allows a single writer.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&songRecord{},
		&midiProfileRecord{},
		&annotationProfileRecord{},
		&fileAliasRecord{},
		&setlistRecord{},
	); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Library{db: db, sqlDB: sqlDB, files: files, now: time.Now}, nil
}

func (l *Library) Close() error {
	if l == nil || l.sqlDB == nil {
		return nil
	}
	return l.sqlDB.Close()
}

func (l *Library) timestamp() time.Time {
	return l.now().UTC().Truncate(time.Second)
}
