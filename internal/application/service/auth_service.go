package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/domain/repository"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/sangkips/pos-console/pkg/utils"
)

// SessionStore holds the authenticated operator of the console
type SessionStore interface {
	Get() (*entity.Session, bool)
	Set(session *entity.Session) error
	Clear() error
}

// AuthService handles authentication-related operations
type AuthService struct {
	authRepo repository.AuthRepository
	sessions SessionStore
	logger   *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(authRepo repository.AuthRepository, sessions SessionStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authRepo: authRepo,
		sessions: sessions,
		logger:   logger.With("component", "auth"),
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// ProfileOutput is the logged-in operator with what the console lets them do
type ProfileOutput struct {
	User         entity.User       `json:"user"`
	Home         string            `json:"home"`
	Capabilities []enum.Capability `json:"capabilities"`
	Sections     []enum.Section    `json:"sections"`
}

func newProfileOutput(u entity.User) *ProfileOutput {
	return &ProfileOutput{
		User:         u,
		Home:         u.Role.Home(),
		Capabilities: u.Capabilities().List(),
		Sections:     enum.SectionsFor(u.Role),
	}
}

// Login authenticates against the backend and stores the session
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*ProfileOutput, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, apperror.NewValidationError("Email and password are required")
	}

	session, err := s.authRepo.Login(ctx, email, input.Password)
	if err != nil {
		s.logger.Info("login failed", "email", email, "error", err)
		return nil, err
	}
	if session.ExpiresAt.IsZero() {
		session.ExpiresAt = utils.TokenExpiry(session.Token)
	}
	if err := s.sessions.Set(session); err != nil {
		return nil, err
	}

	s.logger.Info("operator logged in", "user_id", session.User.ID, "role", session.User.Role)
	return newProfileOutput(session.User), nil
}

// Logout ends the session at the backend. The local session is only cleared when the
// backend confirms.
func (s *AuthService) Logout(ctx context.Context) error {
	session, ok := s.sessions.Get()
	if !ok {
		return apperror.ErrNoSession
	}
	if err := s.authRepo.Logout(ctx); err != nil {
		s.logger.Warn("logout failed", "user_id", session.User.ID, "error", err)
		return err
	}
	s.logger.Info("operator logged out", "user_id", session.User.ID)
	return s.sessions.Clear()
}

// Profile returns the current operator
func (s *AuthService) Profile() (*ProfileOutput, error) {
	session, ok := s.sessions.Get()
	if !ok {
		return nil, apperror.ErrNoSession
	}
	return newProfileOutput(session.User), nil
}

// CurrentUser returns the operator of the session
func (s *AuthService) CurrentUser() (*entity.User, error) {
	session, ok := s.sessions.Get()
	if !ok {
		return nil, apperror.ErrNoSession
	}
	u := session.User
	return &u, nil
}

// VerifyEmail is the first step of password recovery
func (s *AuthService) VerifyEmail(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperror.NewFieldError("email", "Please enter your email")
	}
	verified, err := s.authRepo.VerifyEmail(ctx, email)
	if err != nil {
		return err
	}
	if !verified {
		return apperror.NewAppError(apperror.KindNotFound, http.StatusNotFound,
			"Email not found, please check it and try again")
	}
	return nil
}

// ResetPassword sets a new password for a verified email and returns the backend
// confirmation
func (s *AuthService) ResetPassword(ctx context.Context, reset entity.PasswordReset) (string, error) {
	reset.Email = strings.TrimSpace(reset.Email)
	if reset.Email == "" || reset.NewPassword == "" || reset.ConfirmPassword == "" {
		return "", apperror.NewValidationError("All fields are required")
	}
	if reset.NewPassword != reset.ConfirmPassword {
		return "", apperror.NewFieldError("confirmPassword", "Passwords do not match")
	}
	if len([]rune(reset.NewPassword)) < entity.MinPasswordLength {
		return "", apperror.NewFieldError("newPassword", "Password must be at least 6 characters")
	}

	msg, err := s.authRepo.ResetPassword(ctx, reset)
	if err != nil {
		return "", err
	}
	if msg == "" {
		msg = "Password updated"
	}
	return msg, nil
}
