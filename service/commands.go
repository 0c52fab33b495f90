package service

import (
	"errors"
	"fmt"
	"os"

	"inkwell/app/repositories"
)

var errInMemorySessions = errors.New("sessions are kept in memory; set a sessions path to maintain them")

// BackupSessions writes a full badger backup of the session store at dir to
// file.
func BackupSessions(dir, file string) error {
	if dir == "" {
		return errInMemorySessions
	}
	if !exists(dir) {
		fmt.Println("No session store exists to back up")
		return nil
	}

	db, err := repositories.OpenBadger(dir)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		return fmt.Errorf("failed to back up sessions: %w", err)
	}
	fmt.Printf("Sessions backed up successfully to %s\n", file)
	return nil
}

// RestoreSessions replaces the contents of the session store at dir with the
// backup in file. An existing store is only replaced after confirmation.
func RestoreSessions(dir, file string) error {
	if dir == "" {
		return errInMemorySessions
	}
	fi, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("backup file does not exist: %s", file)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", file)
	}

	if exists(dir) && !confirm("Existing session store found. Do you want to replace it?") {
		fmt.Println("Operation cancelled")
		return nil
	}

	db, err := repositories.OpenBadger(dir)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DropAll(); err != nil {
		return fmt.Errorf("failed to clear session store: %w", err)
	}

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	if err := db.Load(f, 256); err != nil {
		return fmt.Errorf("failed to restore sessions: %w", err)
	}
	fmt.Println("Sessions restored successfully")
	return nil
}

// CleanSessions drops every session, logging out all users.
func CleanSessions(dir string) error {
	if dir == "" {
		return errInMemorySessions
	}
	if !exists(dir) {
		fmt.Println("Session store is already clean (does not exist)")
		return nil
	}
	if !confirm("Are you sure you want to drop all sessions? Every user will be logged out.") {
		fmt.Println("Operation cancelled")
		return nil
	}

	db, err := repositories.OpenBadger(dir)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DropAll(); err != nil {
		return fmt.Errorf("failed to clean sessions: %w", err)
	}
	fmt.Println("Sessions cleaned successfully")
	return nil
}

// CountSessions reports how many live sessions the store at dir holds.
func CountSessions(dir string) (int, error) {
	if dir == "" {
		return 0, errInMemorySessions
	}
	if !exists(dir) {
		return 0, nil
	}
	db, err := repositories.OpenBadger(dir)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return repositories.NewBadgerSessionStore(db, 0).Count()
}
