package models

import "time"

// Roles a user can hold.
const (
	RoleSubscriber = "subscriber"
	RoleAdmin      = "admin"
)

// Post represents a published blog article.
type Post struct {
	ID          int        `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:250;uniqueIndex;not null" json:"title" validate:"required,max=250"`
	Subtitle    string     `gorm:"size:250;not null" json:"subtitle" validate:"required,max=250"`
	Body        string     `gorm:"type:text;not null" json:"body" validate:"required"`
	Image       string     `gorm:"size:250" json:"image" validate:"max=250"`
	AuthorID    int        `gorm:"index" json:"author_id" validate:"gte=0"`
	Author      *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty" validate:"-"`
	Views       int        `gorm:"not null;default:0" json:"views" validate:"gte=0"`
	PublishedAt time.Time  `gorm:"not null" json:"published_at" validate:"required"`
	Comments    []*Comment `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty" validate:"-"`
	Saves       []*Save    `gorm:"constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

// User represents a registered account.
type User struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email" validate:"required,email,max=100"`
	PasswordHash string    `gorm:"size:100;not null" json:"-" validate:"required"`
	Name         string    `gorm:"size:1000;not null" json:"name" validate:"required,max=1000"`
	Role         string    `gorm:"size:100;not null;default:subscriber" json:"role" validate:"oneof=subscriber admin"`
	ProfileImage string    `gorm:"size:100" json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

// Comment represents a comment left by a user on a post.
type Comment struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text" validate:"required,max=1000"`
	AuthorID  int       `gorm:"index;not null" json:"author_id" validate:"required,gt=0"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty" validate:"-"`
	PostID    int       `gorm:"index;not null" json:"post_id" validate:"required,gt=0"`
	CreatedAt time.Time `json:"created_at"`
}

// Save is a per-user bookmark on a post. At most one exists per (user, post).
type Save struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_save_user_post" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	PostID    int       `gorm:"not null;uniqueIndex:idx_save_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName names the bookmark table after the post it points at.
func (Save) TableName() string {
	return "post_saves"
}
