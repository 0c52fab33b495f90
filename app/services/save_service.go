package services

import (
	"context"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// SaveService manages per-user bookmarks. Save and Unsave are idempotent.
type SaveService struct {
	saves repositories.SaveRepository
	posts repositories.PostRepository
}

func NewSaveService(saves repositories.SaveRepository, posts repositories.PostRepository) *SaveService {
	return &SaveService{saves: saves, posts: posts}
}

// Save bookmarks the post for the user. It reports whether a new save was
// recorded; saving twice is a no-op.
func (s *SaveService) Save(ctx context.Context, userID, postID int) (bool, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return false, err
	}
	return s.saves.Create(ctx, userID, postID)
}

// Unsave removes the bookmark if present.
func (s *SaveService) Unsave(ctx context.Context, userID, postID int) (bool, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return false, err
	}
	return s.saves.Delete(ctx, userID, postID)
}

func (s *SaveService) IsSaved(ctx context.Context, userID, postID int) (bool, error) {
	return s.saves.Exists(ctx, userID, postID)
}

func (s *SaveService) CountForPost(ctx context.Context, postID int) (int64, error) {
	return s.saves.CountByPost(ctx, postID)
}

// SavedPosts lists the user's bookmarks, most recent first.
func (s *SaveService) SavedPosts(ctx context.Context, userID int) ([]*models.Post, error) {
	return s.saves.ListPostsByUser(ctx, userID)
}
