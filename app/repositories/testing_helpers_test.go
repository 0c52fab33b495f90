package repositories

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"inkwell/app/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "blog.db"), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	store := NewStore(db)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUser(t *testing.T, store *Store, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         "User " + email,
		Role:         models.RoleSubscriber,
	}
	require.NoError(t, store.Users.Create(context.Background(), user))
	return user
}

func seedPost(t *testing.T, store *Store, authorID int, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:    title,
		Subtitle: "Subtitle of " + title,
		Body:     fmt.Sprintf("<p>%s body</p>", title),
		Image:    "post-bg.jpg",
		AuthorID: authorID,
	}
	require.NoError(t, store.Posts.Create(context.Background(), post))
	return post
}
