package backend

import (
	"context"
	"net/http"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/repository"
)

type userRepository struct {
	client *Client
}

// NewUserRepository creates a new user repository
func NewUserRepository(client *Client) repository.UserRepository {
	return &userRepository{client: client}
}

func (r *userRepository) List(ctx context.Context) ([]entity.User, error) {
	var env usersEnvelope
	err := r.client.do(ctx, request{
		method:   http.MethodGet,
		path:     "/get-users",
		fallback: "Could not load the users",
	}, &env)
	if err != nil {
		return nil, err
	}
	users := make([]entity.User, 0, len(env.Users))
	for _, u := range env.Users {
		users = append(users, u.toEntity())
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, form *entity.UserForm) error {
	return r.client.do(ctx, request{
		method:   http.MethodPost,
		path:     "/create-user",
		body:     userFromForm(form),
		fallback: "Could not create the user",
	}, nil)
}

func (r *userRepository) Update(ctx context.Context, id string, form *entity.UserForm) error {
	return r.client.do(ctx, request{
		method:   http.MethodPut,
		path:     pathf("/update-user/%s", id),
		body:     userFromForm(form),
		resource: "User",
		fallback: "Could not update the user",
	}, nil)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.client.do(ctx, request{
		method:   http.MethodDelete,
		path:     pathf("/delete-user/%s", id),
		resource: "User",
		fallback: "Could not delete the user",
	}, nil)
}
