package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"inkwell/app/models"
	"inkwell/app/repositories"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the longest password bcrypt will hash.
const maxPasswordBytes = 72

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name     string `form:"name" json:"name" validate:"required,max=1000"`
	Email    string `form:"email" json:"email" validate:"required,email,max=100"`
	Password string `form:"password" json:"password" validate:"required,max=72"`
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

// AuthConfig holds the account settings injected into AuthService.
type AuthConfig struct {
	AdminEmails         []string
	DefaultProfileImage string
	// BcryptCost defaults to bcrypt.DefaultCost when zero.
	BcryptCost int
}

// AuthService handles registration, login and session resolution
type AuthService struct {
	users       repositories.UserRepository
	sessions    repositories.SessionRepository
	adminEmails map[string]bool
	profileImg  string
	cost        int
	logger      *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users repositories.UserRepository, sessions repositories.SessionRepository, cfg AuthConfig, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	admins := make(map[string]bool, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		admins[models.NormalizeEmail(email)] = true
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:       users,
		sessions:    sessions,
		adminEmails: admins,
		profileImg:  cfg.DefaultProfileImage,
		cost:        cost,
		logger:      logger,
	}
}

// Register creates a subscriber account (or an admin one for configured
// emails) and opens a session for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *repositories.Session, error) {
	in.Email = models.NormalizeEmail(in.Email)
	if err := models.ValidateStruct(in); err != nil {
		return nil, nil, err
	}
	// bcrypt limits the byte length, which multi-byte characters reach
	// before the character count does.
	if len(in.Password) > maxPasswordBytes {
		return nil, nil, models.NewValidationError("password", fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes))
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hash),
		Role:         models.RoleSubscriber,
		ProfileImage: s.profileImg,
	}
	if s.adminEmails[in.Email] {
		user.Role = models.RoleAdmin
	}
	if err := user.Validate(); err != nil {
		return nil, nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Info("User registered", slog.Int("user_id", user.ID), slog.String("role", user.Role))

	session, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	return user, session, nil
}

// Login checks the credentials and opens a session. Unknown emails and wrong
// passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, *repositories.Session, error) {
	user, err := s.users.GetByEmail(ctx, models.NormalizeEmail(in.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		s.logger.Warn("Login failed", slog.String("reason", "unknown email"))
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		s.logger.Warn("Login failed", slog.String("reason", "wrong password"), slog.Int("user_id", user.ID))
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	return user, session, nil
}

// Logout ends the session. Unknown ids are ignored.
func (s *AuthService) Logout(sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(sessionID)
}

// Authenticate resolves a session id to its user. It returns
// repositories.ErrNotFound for missing or expired sessions.
func (s *AuthService) Authenticate(ctx context.Context, sessionID string) (*models.User, error) {
	if sessionID == "" {
		return nil, repositories.ErrNotFound
	}
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, session.UserID)
}
