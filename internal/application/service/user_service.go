package service

import (
	"context"
	"sort"
	"strings"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/domain/repository"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/sangkips/pos-console/pkg/pagination"
)

// UserService handles user management operations
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsersInput represents the input for listing users
type ListUsersInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	Role       enum.Role
}

func canManageUsers(actor *entity.User) error {
	if actor == nil || !actor.Can(enum.CapManageUsers) {
		return apperror.ErrForbidden
	}
	return nil
}

// ListUsers returns a paginated list of users
func (s *UserService) ListUsers(ctx context.Context, actor *entity.User, input *ListUsersInput) (*pagination.PaginatedResult[entity.User], error) {
	if actor == nil || !actor.Can(enum.CapViewUsers) {
		return nil, apperror.ErrForbidden
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if input == nil {
		input = &ListUsersInput{}
	}

	search := strings.ToLower(strings.TrimSpace(input.Search))
	out := make([]entity.User, 0, len(users))
	for _, u := range users {
		if input.Role != "" && u.Role != input.Role {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.FullName()), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		out = append(out, u)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].FullName()) < strings.ToLower(out[j].FullName())
	})
	return pagination.Paginate(out, input.Pagination), nil
}

func normalizeUserForm(form *entity.UserForm) {
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)
	form.Email = strings.TrimSpace(form.Email)
}

// CreateUser creates an operator account
func (s *UserService) CreateUser(ctx context.Context, actor *entity.User, form *entity.UserForm) error {
	if err := canManageUsers(actor); err != nil {
		return err
	}
	normalizeUserForm(form)
	if err := form.Validate(true); err != nil {
		return err
	}
	return s.userRepo.Create(ctx, form)
}

// UpdateUser updates an operator account. An empty password leaves it unchanged.
func (s *UserService) UpdateUser(ctx context.Context, actor *entity.User, id string, form *entity.UserForm) error {
	if err := canManageUsers(actor); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return apperror.NewFieldError("id", "User id is required")
	}
	normalizeUserForm(form)
	if err := form.Validate(false); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, id, form)
}

// DeleteUser removes an operator account. Operators cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actor *entity.User, id string) error {
	if err := canManageUsers(actor); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return apperror.NewFieldError("id", "User id is required")
	}
	if id == actor.ID {
		return apperror.NewConflictError("You cannot delete your own account")
	}
	return s.userRepo.Delete(ctx, id)
}

// AssignableRoles lists the roles offered by the user form
func (s *UserService) AssignableRoles() []enum.Role {
	return append([]enum.Role(nil), enum.AssignableRoles...)
}
