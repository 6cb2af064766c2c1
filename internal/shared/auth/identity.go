package auth

import "context"

// Roles a user can hold.
const (
	RoleHR        = "hr"
	RoleCandidate = "candidate"
)

// Identity is the authenticated principal behind a request.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   string
	Token  string
}

// Authenticator resolves a bearer token into an Identity.
// Implementations return ErrInvalidToken when the token is unknown, expired or revoked.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Identity, error)
}
