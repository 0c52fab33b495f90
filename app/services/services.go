package services

import (
	"log/slog"

	"inkwell/app/repositories"
)

// Repositories are the data sources the services are built on.
type Repositories struct {
	Posts    repositories.PostRepository
	Comments repositories.CommentRepository
	Users    repositories.UserRepository
	Saves    repositories.SaveRepository
	Sessions repositories.SessionRepository
}

// Settings are the configuration values the services need.
type Settings struct {
	Auth      AuthConfig
	Posts     PostConfig
	UploadDir string
	UploadURL string
}

// Services bundles every service wired against one set of repositories.
type Services struct {
	Auth     *AuthService
	Posts    *PostService
	Comments *CommentService
	Saves    *SaveService
	Users    *UserService
	Admin    *AdminService
}

func New(repos Repositories, settings Settings, logger *slog.Logger) *Services {
	images := NewImageStore(settings.UploadDir, settings.UploadURL)
	return &Services{
		Auth:     NewAuthService(repos.Users, repos.Sessions, settings.Auth, logger),
		Posts:    NewPostService(repos.Posts, repos.Comments, repos.Saves, images, settings.Posts, logger),
		Comments: NewCommentService(repos.Comments, repos.Posts, logger),
		Saves:    NewSaveService(repos.Saves, repos.Posts),
		Users:    NewUserService(repos.Users, images, settings.Auth.DefaultProfileImage, logger),
		Admin:    NewAdminService(repos.Posts, repos.Comments, repos.Users),
	}
}
