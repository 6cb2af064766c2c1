package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"talentflow-api/internal/shared/server/respond"
	"talentflow-api/internal/shared/telemetry"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	providerGoogle    = "google"
	defaultStateTTL   = 5 * time.Minute
)

var errNoVerifiedEmail = errors.New("Google account has no verified email")

// Accounts resolves an OAuth profile into a local user and issues a session token.
type Accounts interface {
	OAuthSignIn(ctx context.Context, email, name, provider string) (string, error)
}

// GoogleConfig holds the OAuth client registration and the UI landing page.
type GoogleConfig struct {
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	UIRedirectURL string
}

func (c GoogleConfig) complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != "" && c.UIRedirectURL != ""
}

// GoogleService runs the authorization code flow with PKCE and hands the
// resulting session token to the UI as a query parameter.
type GoogleService struct {
	cfg         GoogleConfig
	oauth       *oauth2.Config
	states      StateStore
	accounts    Accounts
	stateTTL    time.Duration
	userInfoURL string
}

// NewGoogleService builds a GoogleService. A nil states falls back to an
// in-process store, which only works when one instance serves both requests.
func NewGoogleService(cfg GoogleConfig, accounts Accounts, states StateStore) *GoogleService {
	if states == nil {
		states = NewMemoryStateStore()
	}
	return &GoogleService{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		states:      states,
		accounts:    accounts,
		stateTTL:    defaultStateTTL,
		userInfoURL: googleUserInfoURL,
	}
}

// RegisterRoutes attaches the Google sign-in routes.
func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) start(c *gin.Context) {
	if !s.cfg.complete() || s.accounts == nil {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google auth not configured", nil)
		return
	}

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	if err := s.states.Save(c.Request.Context(), state, verifier, s.stateTTL); err != nil {
		telemetry.Error("auth.google.state_save_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start sign-in", nil)
		return
	}
	c.Redirect(http.StatusFound, s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier)))
}

func (s *GoogleService) callback(c *gin.Context) {
	if msg := c.Query("error"); msg != "" {
		respond.Error(c, http.StatusBadRequest, "auth_denied", "Google sign-in was cancelled", gin.H{"reason": msg})
		return
	}
	state, code := c.Query("state"), c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}

	ctx := c.Request.Context()
	verifier, ok, err := s.states.Take(ctx, state)
	if err != nil {
		telemetry.Error("auth.google.state_lookup_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to verify state", nil)
		return
	}
	if !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	profile, err := s.profile(ctx, code, verifier)
	if err != nil {
		telemetry.Warn("auth.google.profile_failed", map[string]any{"error": err.Error()})
		if errors.Is(err, errNoVerifiedEmail) {
			respond.Error(c, http.StatusBadGateway, "auth_failed", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", nil)
		return
	}

	token, err := s.accounts.OAuthSignIn(ctx, profile.Email, profile.Name, providerGoogle)
	if err != nil {
		telemetry.Error("auth.google.sign_in_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	landing, err := withToken(s.cfg.UIRedirectURL, token)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", nil)
		return
	}
	telemetry.Info("auth.google.signed_in", map[string]any{"email_domain": emailDomain(profile.Email)})
	c.Redirect(http.StatusFound, landing)
}

type googleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// profile exchanges the code and loads the account's verified email.
func (s *GoogleService) profile(ctx context.Context, code, verifier string) (googleProfile, error) {
	tok, err := s.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return googleProfile{}, fmt.Errorf("exchange code: %w", err)
	}

	resp, err := s.oauth.Client(ctx, tok).Get(s.userInfoURL)
	if err != nil {
		return googleProfile{}, fmt.Errorf("userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return googleProfile{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var p googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return googleProfile{}, fmt.Errorf("decode userinfo: %w", err)
	}
	if strings.TrimSpace(p.Email) == "" || !p.VerifiedEmail {
		return googleProfile{}, errNoVerifiedEmail
	}
	return p, nil
}

func withToken(rawURL, token string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func emailDomain(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return email[i+1:]
	}
	return ""
}
