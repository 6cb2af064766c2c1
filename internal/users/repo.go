package users

import "context"

// Repo persists users.
type Repo interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}

// SessionRepo persists sessions keyed by token hash.
type SessionRepo interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, tokenHash string) (Session, error)
	// Delete removes a session and reports whether one existed.
	Delete(ctx context.Context, tokenHash string) (bool, error)
}
