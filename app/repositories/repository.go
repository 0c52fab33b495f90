package repositories

import (
	"fmt"
	"os"
	"path/filepath"

	"inkwell/app/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store bundles the relational repositories over one database handle.
type Store struct {
	DB       *gorm.DB
	Posts    *GormPostRepository
	Users    *GormUserRepository
	Comments *GormCommentRepository
	Saves    *GormSaveRepository
}

// Open opens (creating if needed) the SQLite database file at path with
// foreign keys enforced.
func Open(path string, logLevel logger.LogLevel) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return db, nil
}

// Migrate creates or updates the schema for every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}, &models.Save{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// NewStore wires the repositories over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		DB:       db,
		Posts:    NewGormPostRepository(db),
		Users:    NewGormUserRepository(db),
		Comments: NewGormCommentRepository(db),
		Saves:    NewGormSaveRepository(db),
	}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
