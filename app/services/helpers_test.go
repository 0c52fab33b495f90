package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"inkwell/app/models"
	"inkwell/app/repositories/mock"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	store    *mock.Store
	auth     *AuthService
	posts    *PostService
	comments *CommentService
	saves    *SaveService
	users    *UserService
	admin    *AdminService
	images   *ImageStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := mock.NewStore()
	images := NewImageStore(t.TempDir(), "/static/uploads")

	return &testEnv{
		store: store,
		auth: NewAuthService(store.Users, store.Sessions, AuthConfig{
			AdminEmails:         []string{"Boss@Example.com"},
			DefaultProfileImage: "/static/img/user-icon.jpg",
			BcryptCost:          bcrypt.MinCost,
		}, logger),
		posts: NewPostService(store.Posts, store.Comments, store.Saves, images, PostConfig{
			PageSize:     5,
			PopularLimit: 5,
			DefaultImage: "/static/img/post-bg.jpg",
		}, logger),
		comments: NewCommentService(store.Comments, store.Posts, logger),
		saves:    NewSaveService(store.Saves, store.Posts),
		users:    NewUserService(store.Users, images, "/static/img/user-icon.jpg", logger),
		admin:    NewAdminService(store.Posts, store.Comments, store.Users),
		images:   images,
	}
}

func (e *testEnv) register(t *testing.T, name, email string) *models.User {
	t.Helper()
	user, _, err := e.auth.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    email,
		Password: "secret-password",
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) createPost(t *testing.T, author *models.User, title string) *models.Post {
	t.Helper()
	post, err := e.posts.Create(context.Background(), author, PostInput{
		Title:    title,
		Subtitle: title + " subtitle",
		Body:     "<p>" + title + " body</p>",
	})
	require.NoError(t, err)
	return post
}
