package repository

import (
	"context"

	"github.com/sangkips/pos-console/internal/domain/entity"
)

// AuthRepository defines the authentication operations of the backend
type AuthRepository interface {
	Login(ctx context.Context, email, password string) (*entity.Session, error)
	Logout(ctx context.Context) error
	// VerifyEmail reports whether the email belongs to an account
	VerifyEmail(ctx context.Context, email string) (bool, error)
	// ResetPassword returns the backend confirmation message
	ResetPassword(ctx context.Context, reset entity.PasswordReset) (string, error)
}

// SessionRepository persists the session between restarts
type SessionRepository interface {
	// Load returns nil and no error when nothing is stored
	Load() (*entity.Session, error)
	Save(session *entity.Session) error
	Clear() error
}
