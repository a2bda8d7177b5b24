package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"lamx12/nutri-plan/internal/config"
)

var ErrTokenRequest = errors.New("inference token request failed")

// Tokens are renewed this long before they expire.
const tokenExpirySkew = 10 * time.Second

// tokenSource supplies the bearer credential for each request.
type tokenSource interface {
	Token(ctx context.Context) (string, error)
	// Invalidate drops a cached credential the endpoint has rejected. It
	// reports whether a fresh one can be fetched.
	Invalidate() bool
}

// staticToken is a credential supplied as-is by configuration.
type staticToken string

func (t staticToken) Token(context.Context) (string, error) { return string(t), nil }

func (staticToken) Invalidate() bool { return false }

type tokenRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// clientCredentials exchanges a client id and secret for short-lived tokens
// at the inference proxy, caching each token until shortly before it expires.
type clientCredentials struct {
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	now          func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// newTokenSource picks client credentials when both halves are configured and
// the static token otherwise.
func newTokenSource(cfg config.InferenceConfig, httpClient *http.Client) (tokenSource, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return staticToken(cfg.Token), nil
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		derived, err := deriveTokenURL(cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		tokenURL = derived
	}
	return &clientCredentials{
		tokenURL:     tokenURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   httpClient,
		now:          time.Now,
	}, nil
}

// deriveTokenURL maps the proxy's .../api/v1/inference to .../api/v1/auth/token.
func deriveTokenURL(endpoint string) (string, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: endpoint %q: %v", ErrTokenRequest, endpoint, err)
	}
	return base.ResolveReference(&url.URL{Path: "auth/token"}).String(), nil
}

func (c *clientCredentials) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.now().Before(c.expiresAt.Add(-tokenExpirySkew)) {
		return c.token, nil
	}
	token, expiresAt, err := c.fetch(ctx)
	if err != nil {
		return "", err
	}
	c.token, c.expiresAt = token, expiresAt
	return token, nil
}

func (c *clientCredentials) Invalidate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
	return true
}

func (c *clientCredentials) fetch(ctx context.Context) (string, time.Time, error) {
	body, err := json.Marshal(tokenRequest{ClientID: c.clientID, ClientSecret: c.clientSecret})
	if err != nil {
		return "", time.Time{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewReader(body))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrTokenRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrTokenRequest, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: reading body: %v", ErrTokenRequest, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("%w: status %d", ErrTokenRequest, resp.StatusCode)
	}
	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil || tr.Token == "" {
		return "", time.Time{}, fmt.Errorf("%w: malformed token response", ErrTokenRequest)
	}
	return tr.Token, tr.ExpiresAt, nil
}
