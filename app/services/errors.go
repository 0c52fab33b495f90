package services

import (
	"errors"

	"inkwell/app/models"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotOwner           = errors.New("not the owner of this resource")
	ErrUnsupportedImage   = models.NewValidationError("image", "Image must be a jpg, jpeg, png or webp file")

	// ErrTitleTaken is a validation error so forms can show it inline.
	ErrTitleTaken = models.NewValidationError("title", "A post with this title already exists")
)
