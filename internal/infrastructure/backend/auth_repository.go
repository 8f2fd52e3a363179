package backend

import (
	"context"
	"net/http"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/repository"
	"github.com/sangkips/pos-console/pkg/apperror"
)

type authRepository struct {
	client *Client
}

// NewAuthRepository creates a new authentication repository
func NewAuthRepository(client *Client) repository.AuthRepository {
	return &authRepository{client: client}
}

func (r *authRepository) Login(ctx context.Context, email, password string) (*entity.Session, error) {
	var resp loginResponse
	err := r.client.do(ctx, request{
		method:   http.MethodPost,
		path:     "/login",
		body:     loginRequest{Email: email, Password: password},
		public:   true,
		fallback: "Login failed",
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, apperror.NewServerError(http.StatusOK, "", "Login failed")
	}
	return &entity.Session{Token: resp.Token, User: resp.User.toEntity()}, nil
}

func (r *authRepository) Logout(ctx context.Context) error {
	return r.client.do(ctx, request{
		method:   http.MethodGet,
		path:     "/logout",
		fallback: "Could not log out",
	}, nil)
}

func (r *authRepository) VerifyEmail(ctx context.Context, email string) (bool, error) {
	var resp forgotPasswordResponse
	err := r.client.do(ctx, request{
		method:   http.MethodPost,
		path:     "/forgot-password",
		body:     forgotPasswordRequest{Email: email},
		public:   true,
		fallback: "Could not verify the email, please try again later",
	}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Verified, nil
}

func (r *authRepository) ResetPassword(ctx context.Context, reset entity.PasswordReset) (string, error) {
	var resp forgotPasswordResponse
	err := r.client.do(ctx, request{
		method:   http.MethodPost,
		path:     "/forgot-password",
		body:     reset,
		public:   true,
		fallback: "Could not reset the password, please try again later",
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}
