package entity

import (
	"strings"

	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/pkg/apperror"
)

// User represents an operator account as managed by the backend
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      enum.Role `json:"role"`
}

// FullName returns "first last"
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Capabilities resolves the user's role
func (u *User) Capabilities() enum.CapabilitySet {
	return enum.CapabilitiesFor(u.Role)
}

// Can checks if the user's role grants c
func (u *User) Can(c enum.Capability) bool {
	return u.Role.Can(c)
}

// UserForm is the create/edit form of the users screen
type UserForm struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	Role      enum.Role `json:"role"`
}

// Validate checks the form. The password is only required when creating.
func (f *UserForm) Validate(creating bool) error {
	if strings.TrimSpace(f.FirstName) == "" || strings.TrimSpace(f.LastName) == "" ||
		strings.TrimSpace(f.Email) == "" || f.Role == "" || (creating && f.Password == "") {
		return apperror.NewValidationError("All fields are required")
	}
	if !f.Role.IsAssignable() {
		return apperror.NewFieldError("role", "Role must be admin or empleado")
	}
	return nil
}
