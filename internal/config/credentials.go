package config

import (
	"errors"
	"fmt"
)

// ErrUnknownRole is returned for a role without demo credentials.
var ErrUnknownRole = errors.New("unknown role")

// Role names a demo account of the application.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleHacker Role = "hacker"
)

// Credentials are the literal demo login pair of a role. The application
// prints them on its own login page; they are not secrets.
type Credentials struct {
	Username string
	Password string
}

var credentials = map[Role]Credentials{
	RoleAdmin:  {Username: "admin", Password: "chiru"},
	RoleHacker: {Username: "hacker", Password: "pragmanchiru"},
}

// CredentialsFor returns the login pair of role.
func CredentialsFor(role Role) (Credentials, error) {
	c, ok := credentials[role]
	if !ok {
		return Credentials{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return c, nil
}

// Roles lists the roles with demo credentials.
func Roles() []Role {
	return []Role{RoleAdmin, RoleHacker}
}
