package services

import (
	"context"
	"fmt"
	"log/slog"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// ProfileInput is the profile edit form. Image is optional.
type ProfileInput struct {
	Name  string  `form:"name" json:"name" validate:"required,max=1000"`
	Image *Upload `form:"-" json:"-" validate:"-"`
}

// UserService handles profile edits and role changes
type UserService struct {
	users        repositories.UserRepository
	images       *ImageStore
	defaultImage string
	logger       *slog.Logger
}

func NewUserService(users repositories.UserRepository, images *ImageStore, defaultImage string, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		users:        users,
		images:       images,
		defaultImage: defaultImage,
		logger:       logger,
	}
}

// UpdateProfile changes the display name and, when uploaded, the profile image.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, in ProfileInput) (*models.User, error) {
	if err := models.ValidateStruct(in); err != nil {
		return nil, err
	}

	updated := *user
	updated.Name = in.Name
	if in.Image != nil {
		url, err := s.images.Save(in.Image)
		if err != nil {
			return nil, err
		}
		updated.ProfileImage = url
	}
	if err := s.users.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &updated, nil
}

// ResetProfileImage puts the default image back.
func (s *UserService) ResetProfileImage(ctx context.Context, user *models.User) (*models.User, error) {
	updated := *user
	updated.ProfileImage = s.defaultImage
	if err := s.users.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to reset profile image: %w", err)
	}
	return &updated, nil
}

// SetRole grants or revokes a role by email.
func (s *UserService) SetRole(ctx context.Context, email, role string) error {
	if role != models.RoleAdmin && role != models.RoleSubscriber {
		return models.NewValidationError("role", "Role must be one of: subscriber admin")
	}
	if err := s.users.SetRole(ctx, models.NormalizeEmail(email), role); err != nil {
		return err
	}
	s.logger.Info("Role changed", slog.String("email", models.NormalizeEmail(email)), slog.String("role", role))
	return nil
}
