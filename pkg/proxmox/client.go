package proxmox

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"pvemcp/pkg/logging"
)

// ClientConfig holds connection and authentication settings for a PVE host.
type ClientConfig struct {
	Host       string
	Port       int
	User       string // user@realm
	TokenName  string
	TokenValue string
	Password   string
	VerifySSL  bool
	Timeout    time.Duration
}

// Client is a Proxmox VE API client. It is safe for concurrent use; batch
// dispatch and cluster-wide listings call it from multiple goroutines.
type Client struct {
	baseURL    string
	httpClient *http.Client
	config     ClientConfig

	// authMu guards the mutable ticket state under password auth. Token
	// auth is immutable after construction and read without the lock.
	authMu sync.Mutex
	auth   auth
}

// auth holds the active authentication state.
type auth struct {
	user       string
	realm      string
	tokenName  string
	tokenValue string
	ticket     string
	csrfToken  string
	expiresAt  time.Time
}

// APIError is returned for non-2xx replies from the PVE API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return fmt.Sprintf("permission denied (status %d): %s", e.Status, e.Message)
	}
	if e.Status == http.StatusNotFound {
		return fmt.Sprintf("not found (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.Status, e.Message)
}

// NewClient creates a PVE API client. Token auth is preferred when both a
// token and a password are configured. The connection is not tested here;
// call Version to verify reachability.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("proxmox host cannot be empty")
	}
	if cfg.Port == 0 {
		cfg.Port = 8006
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	user, realm, err := splitUserRealm(cfg.User)
	if err != nil {
		return nil, err
	}

	if cfg.TokenName == "" && cfg.Password == "" {
		return nil, fmt.Errorf("either an API token or a password is required")
	}

	host := cfg.Host
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	host = strings.TrimSuffix(host, "/")
	if u, err := url.Parse(host); err == nil && u.Port() == "" {
		host = fmt.Sprintf("%s:%d", host, cfg.Port)
	}

	transport := &http.Transport{}
	if !cfg.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		logging.Warn("Proxmox", "TLS certificate verification disabled for %s", cfg.Host)
	}

	return &Client{
		baseURL: host + "/api2/json",
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		config: cfg,
		auth: auth{
			user:       user,
			realm:      realm,
			tokenName:  cfg.TokenName,
			tokenValue: cfg.TokenValue,
		},
	}, nil
}

func splitUserRealm(user string) (string, string, error) {
	parts := strings.Split(user, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid user %q, expected user@realm", user)
	}
	return parts[0], parts[1], nil
}

// authenticate performs password-based authentication against /access/ticket.
// Callers must hold authMu.
func (c *Client) authenticate(ctx context.Context) error {
	data := url.Values{}
	data.Set("username", c.auth.user+"@"+c.auth.realm)
	data.Set("password", c.config.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/access/ticket", strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("authentication request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var result struct {
		Data struct {
			Ticket              string `json:"ticket"`
			CSRFPreventionToken string `json:"CSRFPreventionToken"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decoding ticket reply: %w", err)
	}

	c.auth.ticket = result.Data.Ticket
	c.auth.csrfToken = result.Data.CSRFPreventionToken
	// PVE tickets are valid for two hours; renew early.
	c.auth.expiresAt = time.Now().Add(90 * time.Minute)
	return nil
}

// sessionTicket returns a valid ticket and CSRF token, re-authenticating
// when the cached ticket is missing or expired. Concurrent callers share
// one re-authentication.
func (c *Client) sessionTicket(ctx context.Context) (string, string, error) {
	c.authMu.Lock()
	defer c.authMu.Unlock()
	if c.auth.ticket == "" || time.Now().After(c.auth.expiresAt) {
		if err := c.authenticate(ctx); err != nil {
			return "", "", err
		}
	}
	return c.auth.ticket, c.auth.csrfToken, nil
}

// request performs one API call and returns the raw payload with the
// {"data": ...} envelope already stripped.
func (c *Client) request(ctx context.Context, method, path string, data url.Values) (json.RawMessage, error) {
	usingToken := c.auth.tokenName != "" && c.auth.tokenValue != ""
	var ticket, csrfToken string
	if !usingToken {
		var err error
		ticket, csrfToken, err = c.sessionTicket(ctx)
		if err != nil {
			return nil, fmt.Errorf("authentication failed: %w", err)
		}
	}

	var body io.Reader
	if data != nil {
		body = strings.NewReader(data.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	if usingToken {
		req.Header.Set("Authorization", fmt.Sprintf("PVEAPIToken=%s@%s!%s=%s",
			c.auth.user, c.auth.realm, c.auth.tokenName, c.auth.tokenValue))
	} else {
		req.Header.Set("Cookie", "PVEAuthCookie="+ticket)
		if method != http.MethodGet {
			req.Header.Set("CSRFPreventionToken", csrfToken)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading reply: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = resp.Status
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	return unwrapEnvelope(raw), nil
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, data url.Values) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPost, path, data)
}

func (c *Client) delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.request(ctx, http.MethodDelete, path, nil)
}

// getInto performs a GET and decodes the unwrapped payload into out.
func (c *Client) getInto(ctx context.Context, path string, out interface{}) error {
	raw, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s reply: %w", path, err)
	}
	return nil
}

// postTask performs a POST whose reply is a task UPID (or empty).
func (c *Client) postTask(ctx context.Context, path string, data url.Values) (string, error) {
	raw, err := c.post(ctx, path, data)
	if err != nil {
		return "", err
	}
	return decodeTaskID(raw), nil
}

// deleteTask performs a DELETE whose reply is a task UPID (or empty).
func (c *Client) deleteTask(ctx context.Context, path string) (string, error) {
	raw, err := c.delete(ctx, path)
	if err != nil {
		return "", err
	}
	return decodeTaskID(raw), nil
}

func decodeTaskID(raw json.RawMessage) string {
	var upid string
	if err := json.Unmarshal(raw, &upid); err == nil {
		return upid
	}
	return strings.TrimSpace(string(raw))
}

// Version returns the PVE version string and doubles as a connectivity check.
func (c *Client) Version(ctx context.Context) (string, error) {
	var v struct {
		Version string `json:"version"`
		Release string `json:"release"`
	}
	if err := c.getInto(ctx, "/version", &v); err != nil {
		return "", err
	}
	if v.Release != "" {
		return v.Version + "-" + v.Release, nil
	}
	return v.Version, nil
}
