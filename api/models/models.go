package models

import "github.com/flatsheet/flatsheet/store"

// User is the immutable identity snapshot carried by a session, rebuilt from
// the session cookie on every request.
type User struct {
	Username string
	Role     store.Role
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == store.RoleAdmin
}
