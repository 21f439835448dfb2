package providers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"verigate/internal/verification/credentials"
	"verigate/internal/verification/resilience"
)

// AuthStyle writes a credential token onto outbound headers.
type AuthStyle func(h http.Header, token string)

// BearerAuth sends "Authorization: Bearer <token>".
func BearerAuth(h http.Header, token string) {
	h.Set("Authorization", "Bearer "+token)
}

// SessionTokenAuth sends "X-Session-Token: <token>".
func SessionTokenAuth(h http.Header, token string) {
	h.Set("X-Session-Token", token)
}

// ClientConfig configures a Client.
type ClientConfig struct {
	ProviderID  string
	BaseURL     string
	Credentials *credentials.Store
	Executor    *resilience.Executor
	Auth        AuthStyle
	Logger      *slog.Logger
}

// Client performs authenticated calls against one provider's API.
type Client struct {
	providerID string
	baseURL    string
	creds      *credentials.Store
	exec       *resilience.Executor
	auth       AuthStyle
	logger     *slog.Logger
}

// NewClient builds a Client. Auth defaults to BearerAuth.
func NewClient(cfg ClientConfig) *Client {
	auth := cfg.Auth
	if auth == nil {
		auth = BearerAuth
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		providerID: cfg.ProviderID,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		creds:      cfg.Credentials,
		exec:       cfg.Executor,
		auth:       auth,
		logger:     logger,
	}
}

// ProviderID returns the id the client authenticates as.
func (c *Client) ProviderID() string {
	return c.providerID
}

// URL joins path and query onto the base URL.
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Get performs an authenticated GET.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*resilience.Response, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Do performs an authenticated call. A 401 invalidates the credential and
// the call is repeated once with a fresh one. Concurrent callers rejected
// with the same token invalidate it once, so they share one exchange.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*resilience.Response, error) {
	resp, token, err := c.do(ctx, c.exec, method, path, query, body)
	if resilience.StatusCode(err) != http.StatusUnauthorized {
		return resp, err
	}

	if c.creds.InvalidateToken(ctx, c.providerID, token) {
		c.logger.WarnContext(ctx, "provider rejected credential, refreshing",
			"provider_id", c.providerID,
			"path", path,
		)
	}
	resp, _, err = c.do(ctx, c.exec, method, path, query, body)
	return resp, err
}

func (c *Client) do(ctx context.Context, exec *resilience.Executor, method, path string, query url.Values, body any) (*resilience.Response, string, error) {
	cred, err := c.creds.GetValidCredential(ctx, c.providerID)
	if err != nil {
		return nil, "", err
	}
	h := http.Header{}
	c.auth(h, cred.Token)
	req, err := resilience.JSONRequest(method, c.URL(path, query), body, h)
	if err != nil {
		return nil, cred.Token, err
	}
	resp, err := exec.Execute(ctx, req)
	return resp, cred.Token, err
}

// Exchange performs an unauthenticated JSON POST, used by credential exchanges.
func (c *Client) Exchange(ctx context.Context, path string, body any) (*resilience.Response, error) {
	req, err := resilience.JSONRequest(http.MethodPost, c.URL(path, nil), body, nil)
	if err != nil {
		return nil, err
	}
	return c.exec.Execute(ctx, req)
}

// Ping makes one authenticated GET with no retries and reports whether
// the provider answered with a 2xx. The response body is ignored.
func (c *Client) Ping(ctx context.Context, path string, query url.Values) error {
	p := c.exec.Policy()
	p.Attempts = 1
	_, _, err := c.do(ctx, c.exec.WithPolicy(p), http.MethodGet, path, query, nil)
	return err
}
