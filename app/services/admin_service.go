package services

import (
	"context"
	"fmt"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// Dashboard is the admin overview of every record.
type Dashboard struct {
	Posts    []*models.Post    `json:"posts"`
	Comments []*models.Comment `json:"comments"`
	Users    []*models.User    `json:"users"`
}

// AdminService provides read-only listings for the dashboard
type AdminService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	users    repositories.UserRepository
}

func NewAdminService(posts repositories.PostRepository, comments repositories.CommentRepository, users repositories.UserRepository) *AdminService {
	return &AdminService{posts: posts, comments: comments, users: users}
}

func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		d   Dashboard
		err error
	)
	if d.Posts, err = s.Posts(ctx); err != nil {
		return nil, err
	}
	if d.Comments, err = s.Comments(ctx); err != nil {
		return nil, err
	}
	if d.Users, err = s.Users(ctx); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *AdminService) Posts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.posts.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (s *AdminService) Comments(ctx context.Context) ([]*models.Comment, error) {
	comments, err := s.comments.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (s *AdminService) Users(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
