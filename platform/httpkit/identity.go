// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identity represents the caller's session as established by the auth provider.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access user information without depending on Gin.
type Identity interface {
	// UserID returns the auth provider's user ID (the token subject).
	UserID() string
	// SessionID returns the auth provider's session ID.
	SessionID() string
	// Role returns the role carried in the session's public metadata.
	Role() string
	// HasRole checks if the session carries a specific role.
	HasRole(role string) bool
	// IsAuthenticated returns true if a valid session token was presented.
	IsAuthenticated() bool
}

// identity is the concrete implementation of Identity.
type identity struct {
	userID        string
	sessionID     string
	role          string
	authenticated bool
}

func (i *identity) UserID() string {
	return i.userID
}

func (i *identity) SessionID() string {
	return i.sessionID
}

func (i *identity) Role() string {
	return i.role
}

func (i *identity) HasRole(role string) bool {
	return i.authenticated && i.role != "" && i.role == role
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

var anonymous = &identity{}

// NewIdentity builds an authenticated identity. Used by the auth middleware and tests.
func NewIdentity(userID, sessionID, role string) Identity {
	return &identity{
		userID:        userID,
		sessionID:     sessionID,
		role:          role,
		authenticated: userID != "",
	}
}

// SetIdentity attaches an identity to the Gin context.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(ContextIdentityKey, id)
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if none was attached.
func GetIdentity(c *gin.Context) Identity {
	value, ok := c.Get(ContextIdentityKey)
	if !ok {
		return anonymous
	}
	id, ok := value.(Identity)
	if !ok || id == nil {
		return anonymous
	}
	return id
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the user is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return nil
	}
	return id
}
