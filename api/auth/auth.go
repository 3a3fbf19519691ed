// Package auth turns the session cookie into a per-request identity and
// guards routes by role.
//
// Rejected requests are surfaced differently per route (redirect to the login
// page, a literal plain-text message, or a bare status code), so the guard
// takes the rejection as an explicit policy instead of hardcoding one.
package auth

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/flatsheet/flatsheet/api/models"
	"github.com/flatsheet/flatsheet/store"
)

const (
	sessionKeyUsername = "user_username"
	sessionKeyRole     = "user_role"
)

// SaveSession stores the identity in the session cookie.
func SaveSession(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Set(sessionKeyUsername, user.Username)
	session.Set(sessionKeyRole, string(user.Role))
	return session.Save()
}

// ClearSession wipes the session cookie.
func ClearSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	return session.Save()
}

// SessionUser rebuilds the identity from the session, or nil when no valid
// identity is present.
func SessionUser(c *gin.Context) *models.User {
	session := sessions.Default(c)
	username, ok := session.Get(sessionKeyUsername).(string)
	if !ok || username == "" {
		return nil
	}
	role, ok := session.Get(sessionKeyRole).(string)
	if !ok {
		return nil
	}
	return &models.User{Username: username, Role: store.Role(role)}
}

// Rejection is how a guard answers a request it turns away.
type Rejection func(c *gin.Context)

// RejectRedirect sends the client to the login page.
func RejectRedirect() Rejection {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/login")
	}
}

// RejectMessage answers with a literal plain-text explanation.
func RejectMessage(msg string) Rejection {
	return func(c *gin.Context) {
		c.String(http.StatusOK, msg)
	}
}

// RejectStatus answers with a bare status code and empty body.
func RejectStatus(code int) Rejection {
	return func(c *gin.Context) {
		c.Status(code)
	}
}

// RequireAuth admits any logged-in user and redirects anonymous requests to
// the login page. The identity is stored in the context under "user".
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := SessionUser(c)
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set("user", user)
	}
}

// RequireRole admits only users holding role, applying reject to everyone
// else, anonymous requests included.
func RequireRole(role store.Role, reject Rejection) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := SessionUser(c)
		if user == nil || user.Role != role {
			if user != nil {
				log.Debug("role check failed", "username", user.Username, "role", user.Role, "required", role)
			}
			reject(c)
			c.Abort()
			return
		}
		c.Set("user", user)
	}
}
