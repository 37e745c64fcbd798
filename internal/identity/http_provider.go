package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bobalog/bobalog/internal/events"
)

// HTTPProvider signs in against the hosted identity service.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
	logger  *events.Logger
}

// NewHTTPProvider creates a provider for the given base URL.
func NewHTTPProvider(baseURL string, timeout time.Duration, logger *events.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.WithField("component", "identity_provider"),
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	UserID    string `json:"user_id"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// SignIn exchanges credentials for a session.
func (p *HTTPProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("marshal sign-in request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/signin", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign-in request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sign-in failed: status %d", resp.StatusCode)
	}

	var parsed signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse sign-in response: %w", err)
	}

	if parsed.UserID == "" || parsed.Token == "" {
		return nil, fmt.Errorf("sign-in response missing user id or token")
	}

	expiresAt, _ := time.Parse(time.RFC3339, parsed.ExpiresAt)
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(24 * time.Hour)
	}

	p.logger.WithField("user_id", parsed.UserID).Info("Signed in")

	return &Session{
		UserID:    parsed.UserID,
		Email:     email,
		Token:     parsed.Token,
		ExpiresAt: expiresAt,
	}, nil
}

// SignOut notifies the identity service. Failures are not fatal; the local
// session is cleared regardless by the caller.
func (p *HTTPProvider) SignOut(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/signout", nil)
	if err != nil {
		return fmt.Errorf("build sign-out request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("sign-out request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("sign-out failed: status %d", resp.StatusCode)
	}

	return nil
}
