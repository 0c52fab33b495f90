package service

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"inkwell/app/config"
	"inkwell/app/repositories"

	"gorm.io/gorm/logger"
)

// openStore opens the relational database named by cfg and brings the
// schema up to date.
func openStore(cfg *config.Config) (*repositories.Store, error) {
	level := logger.Silent
	if cfg.SlogLevel() <= slog.LevelDebug {
		level = logger.Info
	}
	db, err := repositories.Open(cfg.Database, level)
	if err != nil {
		return nil, err
	}
	if err := repositories.Migrate(db); err != nil {
		store := repositories.NewStore(db)
		store.Close()
		return nil, err
	}
	return repositories.NewStore(db), nil
}

// exists reports whether path is present on disk.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// confirm asks a yes/no question on stdin. Anything but y/Y is a no.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	var response string
	fmt.Scanln(&response)
	return strings.EqualFold(response, "y")
}
