package session

import (
	"fmt"
	"strings"
)

// Role is the platform role of an identity
type Role string

const (
	RoleUser       Role = "user"
	RoleStoreOwner Role = "store_owner"
	RoleAdmin      Role = "admin"
)

// Roles lists every known role
var Roles = []Role{RoleUser, RoleStoreOwner, RoleAdmin}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleStoreOwner, RoleAdmin:
		return true
	}
	return false
}

// Label is the upper-case display form, e.g. "STORE OWNER"
func (r Role) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(r), "_", " "))
}

// ParseRole parses a wire role name
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Identity is the authenticated principal
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// validate checks the fields a persisted or freshly issued identity must carry
func (i Identity) validate() error {
	if i.ID == "" {
		return fmt.Errorf("identity has no id")
	}
	if !i.Role.Valid() {
		return fmt.Errorf("identity has unknown role %q", i.Role)
	}
	return nil
}

// IdentityUpdate carries the profile fields that may change within a session.
// Empty fields are left untouched. Role is deliberately absent.
type IdentityUpdate struct {
	Name  string
	Email string
}
