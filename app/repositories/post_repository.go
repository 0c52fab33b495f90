package repositories

import (
	"context"

	"inkwell/app/models"

	"gorm.io/gorm"
)

// GormPostRepository implements PostRepository using gorm
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// Create creates a new post
func (r *GormPostRepository) Create(ctx context.Context, post *models.Post) error {
	return translateError(r.db.WithContext(ctx).Omit("Author", "Comments", "Saves").Create(post).Error)
}

// GetByID retrieves a post by ID with its author
func (r *GormPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

// List retrieves a page of posts, newest first
func (r *GormPostRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, translateError(err)
}

// Count returns the number of posts
func (r *GormPostRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&n).Error
	return n, translateError(err)
}

// Search retrieves a page of posts whose title contains keyword, newest first
func (r *GormPostRepository) Search(ctx context.Context, keyword string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where(`title LIKE ? ESCAPE '\'`, likePattern(keyword)).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, translateError(err)
}

// CountSearch returns the number of posts whose title contains keyword
func (r *GormPostRepository) CountSearch(ctx context.Context, keyword string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where(`title LIKE ? ESCAPE '\'`, likePattern(keyword)).
		Count(&n).Error
	return n, translateError(err)
}

// Popular returns the most viewed posts. Ties keep insertion order.
func (r *GormPostRepository) Popular(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Order("views DESC").
		Order("id ASC").
		Limit(limit).
		Find(&posts).Error
	return posts, translateError(err)
}

// All returns every post in insertion order
func (r *GormPostRepository) All(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).Preload("Author").Order("id ASC").Find(&posts).Error
	return posts, translateError(err)
}

// Update overwrites the editable fields of an existing post. The view
// counter, author and publish date are never touched.
func (r *GormPostRepository) Update(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{ID: post.ID}).
		Select("title", "subtitle", "body", "image").
		Updates(post)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter by one
func (r *GormPostRepository) IncrementViews(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a post together with its comments and saves in one
// transaction.
func (r *GormPostRepository) Delete(ctx context.Context, id int) (CascadeResult, error) {
	var result CascadeResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, id).Error; err != nil {
			return err
		}

		res := tx.Where("post_id = ?", id).Delete(&models.Comment{})
		if res.Error != nil {
			return res.Error
		}
		result.Comments = res.RowsAffected

		res = tx.Where("post_id = ?", id).Delete(&models.Save{})
		if res.Error != nil {
			return res.Error
		}
		result.Saves = res.RowsAffected

		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return CascadeResult{}, translateError(err)
	}
	return result, nil
}
