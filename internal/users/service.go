package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"talentflow-api/internal/shared/auth"
	"talentflow-api/internal/shared/telemetry"
	"talentflow-api/internal/shared/util"
)

// Service manages users and their sessions.
type Service struct {
	Repo       Repo
	Sessions   SessionRepo
	Signer     *auth.Signer
	BcryptCost int

	now func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, sessions SessionRepo, signer *auth.Signer, bcryptCost int) *Service {
	return &Service{Repo: repo, Sessions: sessions, Signer: signer, BcryptCost: bcryptCost}
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a password user. Duplicate emails return ErrEmailTaken.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	hash, err := auth.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(in.Email),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         in.Role,
		Phone:        strings.TrimSpace(in.Phone),
		ResumeURL:    strings.TrimSpace(in.ResumeURL),
		Provider:     ProviderPassword,
		CreatedAt:    s.clock().UTC(),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	telemetry.Info("users.registered", map[string]any{"userId": user.ID, "role": user.Role})
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, in LoginInput) (User, string, error) {
	user, err := s.Repo.GetByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}
	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return User{}, "", ErrInvalidCredentials
	}
	token, err := s.IssueSession(ctx, user)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// IssueSession stores a new session for user and returns its signed token.
func (s *Service) IssueSession(ctx context.Context, user User) (string, error) {
	now := s.clock().UTC()
	expires := now.Add(s.Signer.TTL())
	sessionID := uuid.NewString()
	token, err := s.Signer.Sign(auth.Claims{
		Email: user.Email,
		Name:  user.FullName,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	if err != nil {
		return "", err
	}
	err = s.Sessions.Create(ctx, Session{
		ID:        sessionID,
		UserID:    user.ID,
		TokenHash: util.HashKey(token),
		ExpiresAt: expires,
		CreatedAt: now,
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Logout revokes the session behind token. It reports false when none existed.
func (s *Service) Logout(ctx context.Context, token string) (bool, error) {
	if strings.TrimSpace(token) == "" {
		return false, nil
	}
	return s.Sessions.Delete(ctx, util.HashKey(token))
}

// Me returns the user behind a live token.
func (s *Service) Me(ctx context.Context, token string) (User, error) {
	id, err := s.Authenticate(ctx, token)
	if err != nil {
		return User{}, err
	}
	user, err := s.Repo.GetByID(ctx, id.UserID)
	if errors.Is(err, ErrNotFound) {
		return User{}, auth.ErrInvalidToken
	}
	return user, err
}

// Authenticate resolves a token into an identity. The JWT must verify and
// its session must still exist and be unexpired.
func (s *Service) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	session, err := s.Sessions.Get(ctx, util.HashKey(token))
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return auth.Identity{}, auth.ErrInvalidToken
		}
		return auth.Identity{}, err
	}
	if session.ID != claims.ID || session.UserID != claims.Subject || !s.clock().Before(session.ExpiresAt) {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	return auth.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   claims.Role,
		Token:  token,
	}, nil
}

// UpsertOAuthUser returns the user for email, creating a candidate when none exists.
func (s *Service) UpsertOAuthUser(ctx context.Context, email, name, provider string) (User, error) {
	email = NormalizeEmail(email)
	user, err := s.Repo.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	user = User{
		ID:        uuid.NewString(),
		Email:     email,
		FullName:  strings.TrimSpace(name),
		Role:      auth.RoleCandidate,
		Provider:  provider,
		CreatedAt: s.clock().UTC(),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return s.Repo.GetByEmail(ctx, email)
		}
		return User{}, err
	}
	telemetry.Info("users.oauth_created", map[string]any{"userId": user.ID, "provider": provider})
	return user, nil
}

// OAuthSignIn upserts the OAuth user and issues a session token for it.
func (s *Service) OAuthSignIn(ctx context.Context, email, name, provider string) (string, error) {
	user, err := s.UpsertOAuthUser(ctx, email, name, provider)
	if err != nil {
		return "", err
	}
	return s.IssueSession(ctx, user)
}
