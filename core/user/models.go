package user

import (
	"github.com/pkg/errors"

	"github.com/tharun-r1705/data-frontend-new/core"
)

// Roles
const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

var (
	AllRoles = []Role{RoleStudent, RoleTeacher}

	roleHomes = map[Role]string{
		RoleStudent: "/student",
		RoleTeacher: "/teacher",
	}
)

type Role string

func (r Role) Valid() bool {
	_, ok := roleHomes[r]
	return ok
}

// Home returns the route an authenticated user of this role lands on.
// An unknown role is a configuration error, not a silent no-op.
func (r Role) Home() (string, error) {
	home, ok := roleHomes[r]
	if !ok {
		return "", errors.Errorf("unknown role %q", string(r))
	}
	return home, nil
}

// User is the record cached alongside the session token. The server owns it;
// the client only ever mirrors what login/signup/profile updates return.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name,omitempty"`
}

func (u User) IsStudent() bool { return u.Role == RoleStudent }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }

// Update defines what information may be changed on the cached User record.
// Nil fields are left untouched.
type Update struct {
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Name  *string `json:"name,omitempty"`
}

func (up *Update) Validate() error {
	if up.Email != nil {
		email := core.CleanEmail(*up.Email)
		up.Email = &email
	}
	if up.Name != nil {
		name := core.CleanString(*up.Name)
		up.Name = &name
	}
	return core.TranslateValidationErrors(core.Validate.Struct(up))
}

// Merge applies the non-nil fields of `up` onto a copy of `u`.
func (u User) Merge(up Update) User {
	if up.Email != nil {
		u.Email = *up.Email
	}
	if up.Name != nil {
		u.Name = *up.Name
	}
	return u
}

// Credentials is the login input.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate() error {
	c.Email = core.CleanEmail(c.Email)
	return core.TranslateValidationErrors(core.Validate.Struct(c))
}

// NewAccount contains information needed to sign a new user up.
type NewAccount struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required,userrole"`
}

func (na *NewAccount) Validate() error {
	na.Email = core.CleanEmail(na.Email)
	return core.TranslateValidationErrors(core.Validate.Struct(na))
}

// PasswordChange is the change-password input for an authenticated user.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,nefield=CurrentPassword"`
}

func (pc PasswordChange) Validate() error { return core.TranslateValidationErrors(core.Validate.Struct(pc)) }

// AuthGrant is what the server hands back on a successful login or signup:
// the user record and the opaque session token, always together.
type AuthGrant struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
