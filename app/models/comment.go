package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	if c.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}
	return ValidateStruct(c)
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	return nil
}

// IsAuthor reports whether userID wrote the comment.
func (c *Comment) IsAuthor(userID int) bool {
	return userID != 0 && c.AuthorID == userID
}

// AuthorName returns the author's display name, if loaded.
func (c *Comment) AuthorName() string {
	if c.Author == nil {
		return ""
	}
	return c.Author.Name
}
