package repositories

import (
	"context"

	"inkwell/app/models"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, keyword string, limit, offset int) ([]*models.Post, error)
	CountSearch(ctx context.Context, keyword string) (int64, error)
	Popular(ctx context.Context, limit int) ([]*models.Post, error)
	All(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	IncrementViews(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) (CascadeResult, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int) ([]*models.Comment, error)
	All(ctx context.Context) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetRole(ctx context.Context, email, role string) error
}

// SaveRepository defines the interface for post bookmarks
type SaveRepository interface {
	// Create inserts the (user, post) save and reports whether a row was added.
	Create(ctx context.Context, userID, postID int) (bool, error)
	// Delete removes the (user, post) save and reports whether a row was removed.
	Delete(ctx context.Context, userID, postID int) (bool, error)
	Exists(ctx context.Context, userID, postID int) (bool, error)
	CountByPost(ctx context.Context, postID int) (int64, error)
	ListPostsByUser(ctx context.Context, userID int) ([]*models.Post, error)
}

// SessionRepository defines the interface for login sessions
type SessionRepository interface {
	Create(userID int) (*Session, error)
	Get(id string) (*Session, error)
	Delete(id string) error
}

// CascadeResult reports the dependent rows removed alongside a post.
type CascadeResult struct {
	Comments int64
	Saves    int64
}
