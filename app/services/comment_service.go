package services

import (
	"context"
	"fmt"
	"log/slog"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// CommentInput is the comment form.
type CommentInput struct {
	Text string `form:"comment_text" json:"comment_text" validate:"required,max=1000"`
}

// CommentService handles business logic for comments
type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	logger   *slog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository, logger *slog.Logger) *CommentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommentService{
		comments: comments,
		posts:    posts,
		logger:   logger,
	}
}

// Create adds a comment by author to the post.
func (s *CommentService) Create(ctx context.Context, author *models.User, postID int, in CommentInput) (*models.Comment, error) {
	if err := models.ValidateStruct(in); err != nil {
		return nil, err
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     in.Text,
		AuthorID: author.ID,
		PostID:   postID,
	}
	if err := comment.BeforeCreate(nil); err != nil {
		return nil, err
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	comment.Author = author
	return comment, nil
}

// Get retrieves a comment, requiring it to belong to postID.
func (s *CommentService) Get(ctx context.Context, postID, commentID int) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, repositories.ErrNotFound
	}
	return comment, nil
}

// GetOwned is Get restricted to comments written by user.
func (s *CommentService) GetOwned(ctx context.Context, user *models.User, postID, commentID int) (*models.Comment, error) {
	comment, err := s.Get(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if user == nil || !comment.IsAuthor(user.ID) {
		return nil, ErrNotOwner
	}
	return comment, nil
}

// ListByPost returns the comments of a post, oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}

// Edit replaces the text of a comment. Only its author may edit it.
func (s *CommentService) Edit(ctx context.Context, user *models.User, postID, commentID int, in CommentInput) (*models.Comment, error) {
	comment, err := s.GetOwned(ctx, user, postID, commentID)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateStruct(in); err != nil {
		return nil, err
	}

	comment.Text = in.Text
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

// Delete removes a comment. Only its author may delete it; admins get no
// exception.
func (s *CommentService) Delete(ctx context.Context, user *models.User, postID, commentID int) error {
	if _, err := s.GetOwned(ctx, user, postID, commentID); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return err
	}
	s.logger.Info("Comment deleted", slog.Int("comment_id", commentID), slog.Int("post_id", postID))
	return nil
}
