package service

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"inkwell/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(f func()) string {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		io.Copy(&buf, r)
		close(done)
	}()

	f()

	w.Close()
	os.Stdout = oldStdout
	<-done
	return buf.String()
}

func mockStdin(input string, f func()) {
	oldStdin := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r

	// Write input in a goroutine to avoid blocking
	go func() {
		w.Write([]byte(input))
		w.Close()
	}()

	f()

	os.Stdin = oldStdin
}

// seedSessions creates a session store under a temp dir holding n sessions.
func seedSessions(t *testing.T, n int) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "sessions")
	db, err := repositories.OpenBadger(dir)
	require.NoError(t, err)
	store := repositories.NewBadgerSessionStore(db, time.Hour)
	for i := 0; i < n; i++ {
		_, err := store.Create(i + 1)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())
	return dir
}

func countSessions(t *testing.T, dir string) int {
	t.Helper()
	n, err := CountSessions(dir)
	require.NoError(t, err)
	return n
}

func TestInMemorySessionsRejected(t *testing.T) {
	assert.ErrorIs(t, BackupSessions("", "x"), errInMemorySessions)
	assert.ErrorIs(t, RestoreSessions("", "x"), errInMemorySessions)
	assert.ErrorIs(t, CleanSessions(""), errInMemorySessions)
	_, err := CountSessions("")
	assert.ErrorIs(t, err, errInMemorySessions)
}

func TestBackupSessions(t *testing.T) {
	t.Run("backup non-existent store", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "missing")
		output := captureOutput(func() {
			require.NoError(t, BackupSessions(dir, filepath.Join(t.TempDir(), "b.bak")))
		})
		assert.Contains(t, output, "No session store exists to back up")
		assert.NoDirExists(t, dir)
	})

	t.Run("backup existing store", func(t *testing.T) {
		dir := seedSessions(t, 2)
		file := filepath.Join(t.TempDir(), "sessions.bak")

		output := captureOutput(func() {
			require.NoError(t, BackupSessions(dir, file))
		})

		assert.Contains(t, output, "Sessions backed up successfully")
		fi, err := os.Stat(file)
		require.NoError(t, err)
		assert.Greater(t, fi.Size(), int64(0))
	})
}

func TestRestoreSessions(t *testing.T) {
	source := seedSessions(t, 3)
	file := filepath.Join(t.TempDir(), "sessions.bak")
	captureOutput(func() {
		require.NoError(t, BackupSessions(source, file))
	})

	t.Run("restore non-existent backup", func(t *testing.T) {
		err := RestoreSessions(filepath.Join(t.TempDir(), "s"), "nonexistent.bak")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backup file does not exist")
	})

	t.Run("restore empty backup", func(t *testing.T) {
		empty := filepath.Join(t.TempDir(), "empty.bak")
		require.NoError(t, os.WriteFile(empty, nil, 0644))
		err := RestoreSessions(filepath.Join(t.TempDir(), "s"), empty)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backup file is empty")
	})

	t.Run("restore to clean state", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "restored")
		output := captureOutput(func() {
			require.NoError(t, RestoreSessions(dir, file))
		})
		assert.Contains(t, output, "Sessions restored successfully")
		assert.Equal(t, 3, countSessions(t, dir))
	})

	t.Run("restore over existing store - confirmed", func(t *testing.T) {
		dir := seedSessions(t, 1)
		var output string
		mockStdin("y\n", func() {
			output = captureOutput(func() {
				require.NoError(t, RestoreSessions(dir, file))
			})
		})
		assert.Contains(t, output, "Sessions restored successfully")
		assert.Equal(t, 3, countSessions(t, dir))
	})

	t.Run("restore over existing store - cancelled", func(t *testing.T) {
		dir := seedSessions(t, 1)
		var output string
		mockStdin("n\n", func() {
			output = captureOutput(func() {
				require.NoError(t, RestoreSessions(dir, file))
			})
		})
		assert.Contains(t, output, "Operation cancelled")
		assert.Equal(t, 1, countSessions(t, dir))
	})
}

func TestCleanSessions(t *testing.T) {
	t.Run("clean non-existent store", func(t *testing.T) {
		output := captureOutput(func() {
			require.NoError(t, CleanSessions(filepath.Join(t.TempDir(), "missing")))
		})
		assert.Contains(t, output, "Session store is already clean")
	})

	t.Run("clean existing store - confirmed", func(t *testing.T) {
		dir := seedSessions(t, 2)
		var output string
		mockStdin("y\n", func() {
			output = captureOutput(func() {
				require.NoError(t, CleanSessions(dir))
			})
		})
		assert.Contains(t, output, "Sessions cleaned successfully")
		assert.Equal(t, 0, countSessions(t, dir))
	})

	t.Run("clean existing store - cancelled", func(t *testing.T) {
		dir := seedSessions(t, 2)
		var output string
		mockStdin("n\n", func() {
			output = captureOutput(func() {
				require.NoError(t, CleanSessions(dir))
			})
		})
		assert.Contains(t, output, "Operation cancelled")
		assert.Equal(t, 2, countSessions(t, dir))
	})
}
