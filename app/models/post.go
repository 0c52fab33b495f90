package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// DateLayout is how publish dates are shown to readers.
const DateLayout = "January 2, 2006"

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if p.PublishedAt.IsZero() {
		return errors.New("published_at cannot be zero")
	}
	return ValidateStruct(p)
}

// BeforeCreate stamps the publish date and resets the view counter.
func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.PublishedAt.IsZero() {
		p.PublishedAt = time.Now()
	}
	p.Views = 0
	return nil
}

// Date returns the publish date in reader format.
func (p *Post) Date() string {
	return p.PublishedAt.Format(DateLayout)
}

// AuthorName returns the author's display name, if loaded.
func (p *Post) AuthorName() string {
	if p.Author == nil {
		return ""
	}
	return p.Author.Name
}
