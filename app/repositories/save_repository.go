package repositories

import (
	"context"

	"inkwell/app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSaveRepository implements SaveRepository using gorm
type GormSaveRepository struct {
	db *gorm.DB
}

// NewGormSaveRepository creates a new GormSaveRepository
func NewGormSaveRepository(db *gorm.DB) *GormSaveRepository {
	return &GormSaveRepository{db: db}
}

// Create inserts the save unless one already exists for the pair.
func (r *GormSaveRepository) Create(ctx context.Context, userID, postID int) (bool, error) {
	save := &models.Save{UserID: userID, PostID: postID}
	res := r.db.WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(save)
	if res.Error != nil {
		return false, translateError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the save for the pair. Deleting a missing save is not an error.
func (r *GormSaveRepository) Delete(ctx context.Context, userID, postID int) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Save{})
	if res.Error != nil {
		return false, translateError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormSaveRepository) Exists(ctx context.Context, userID, postID int) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Save{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&n).Error
	return n > 0, translateError(err)
}

func (r *GormSaveRepository) CountByPost(ctx context.Context, postID int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Save{}).
		Where("post_id = ?", postID).
		Count(&n).Error
	return n, translateError(err)
}

// ListPostsByUser returns the posts a user saved, most recently saved first.
func (r *GormSaveRepository) ListPostsByUser(ctx context.Context, userID int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Joins("JOIN post_saves ON post_saves.post_id = posts.id").
		Where("post_saves.user_id = ?", userID).
		Order("post_saves.id DESC").
		Find(&posts).Error
	return posts, translateError(err)
}
