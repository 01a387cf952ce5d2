package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User validation errors
var (
	ErrEmptyUserID         = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrEmptyEmail          = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrEmptyName           = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Role is the fixed set of permissions a user holds.
type Role string

const (
	// RoleTechnician creates, updates and performs their own tasks.
	RoleTechnician Role = "TECHNICIAN"

	// RoleManager reviews every task and may delete any of them.
	RoleManager Role = "MANAGER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleTechnician || r == RoleManager
}

// ParseRole converts a string to a Role, case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// User is an identity that can log in to the maintenance API.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           Role      `json:"role"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewUser creates a new User with an already hashed password.
// It generates a new UUID and sets the creation/update timestamps.
func NewUser(email, name string, role Role, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Email:          strings.TrimSpace(email),
		Name:           name,
		Role:           role,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}

	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}

	if !u.Role.Valid() {
		return NewValidationError("role", fmt.Sprintf("unknown role %q", u.Role), ErrInvalidRole)
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}

// IsManager reports whether the user holds the MANAGER role.
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// Actor is the authenticated identity performing an operation.
// It is resolved from the user store on every request and never taken
// from token claims alone.
type Actor struct {
	ID    uuid.UUID
	Email string
	Name  string
	Role  Role
}

// ActorFromUser builds the Actor for a stored user.
func ActorFromUser(u *User) Actor {
	return Actor{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}
