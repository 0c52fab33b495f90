package repositories

import (
	"context"

	"inkwell/app/models"

	"gorm.io/gorm"
)

// GormCommentRepository implements CommentRepository using gorm
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return translateError(r.db.WithContext(ctx).Omit("Author").Create(comment).Error)
}

// GetByID retrieves a comment by ID with its author
func (r *GormCommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &comment, nil
}

// ListByPost retrieves all comments for a post, oldest first
func (r *GormCommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&comments).Error
	return comments, translateError(err)
}

// All returns every comment in insertion order
func (r *GormCommentRepository) All(ctx context.Context) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).Preload("Author").Order("id ASC").Find(&comments).Error
	return comments, translateError(err)
}

// Update replaces the text of an existing comment
func (r *GormCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	res := r.db.WithContext(ctx).
		Model(&models.Comment{ID: comment.ID}).
		Update("text", comment.Text)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a comment by ID
func (r *GormCommentRepository) Delete(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
