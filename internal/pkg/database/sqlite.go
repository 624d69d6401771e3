package database

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite opens a SQLite database at path. A single connection is kept so
// that writers serialize instead of failing with SQLITE_BUSY.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

var memSeq atomic.Uint64

// OpenMemory returns a private, migrated in-memory database. Used by tests and
// local tooling.
func OpenMemory() (*gorm.DB, error) {
	name := fmt.Sprintf("file:vp_%d_%s?mode=memory&cache=shared", memSeq.Add(1), uuid.NewString()[:8])
	db, err := OpenSQLite(name)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
