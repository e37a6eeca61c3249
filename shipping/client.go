package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Amber-bisht/watch-me/utils"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the aggregator API root
	DefaultBaseURL = "https://apiv2.shiprocket.in/v1/external"
	// TokenTTL is how long a login token is valid
	TokenTTL = 240 * time.Hour
	// TokenRefreshMargin is the remaining validity below which the token is renewed
	TokenRefreshMargin = 24 * time.Hour

	defaultTimeout = 30 * time.Second
)

// Config configures a Client
type Config struct {
	BaseURL    string
	Email      string
	Password   string
	RateLimit  float64 // requests per second, 0 disables limiting
	Timeout    time.Duration
	TokenStore TokenStore
	HTTPClient *http.Client
}

// Client talks to the Shiprocket API. The login token is cached per client and
// refreshed under a mutex, so concurrent callers share a single login.
type Client struct {
	baseURL  string
	email    string
	password string
	http     *http.Client
	limiter  *rate.Limiter
	store    TokenStore
	now      func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewClient creates a Client
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		baseURL:  baseURL,
		email:    strings.TrimSpace(cfg.Email),
		password: strings.TrimSpace(cfg.Password),
		http:     httpClient,
		limiter:  limiter,
		store:    cfg.TokenStore,
		now:      time.Now,
	}
}

// authToken returns a token valid for at least TokenRefreshMargin, logging in when needed.
// The mutex is held across the login so concurrent callers wait for the one in flight.
func (c *Client) authToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tokenFresh(c.token, c.expiresAt) {
		return c.token, nil
	}

	if c.store != nil {
		token, expiresAt, err := c.store.Load(ctx)
		if err != nil {
			utils.LogWarn("Shiprocket token store read failed: %v", err)
		} else if c.tokenFresh(token, expiresAt) {
			c.token, c.expiresAt = token, expiresAt
			return token, nil
		}
	}

	token, err := c.login(ctx)
	if err != nil {
		c.token, c.expiresAt = "", time.Time{}
		return "", err
	}
	c.token, c.expiresAt = token, c.now().Add(TokenTTL)

	if c.store != nil {
		if err := c.store.Save(ctx, c.token, c.expiresAt); err != nil {
			utils.LogWarn("Shiprocket token store write failed: %v", err)
		}
	}
	return c.token, nil
}

func (c *Client) tokenFresh(token string, expiresAt time.Time) bool {
	return token != "" && expiresAt.Sub(c.now()) > TokenRefreshMargin
}

// invalidateToken drops the cached token if it is still the one that was rejected
func (c *Client) invalidateToken(ctx context.Context, rejected string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != rejected {
		return
	}
	c.token, c.expiresAt = "", time.Time{}
	if c.store != nil {
		if err := c.store.Delete(ctx); err != nil {
			utils.LogWarn("Shiprocket token store delete failed: %v", err)
		}
	}
}

func (c *Client) login(ctx context.Context) (string, error) {
	var missing []string
	if c.email == "" {
		missing = append(missing, "SHIPROCKET_EMAIL")
	}
	if c.password == "" {
		missing = append(missing, "SHIPROCKET_PASSWORD")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: set %s", ErrMissingCredentials, strings.Join(missing, " and "))
	}

	utils.LogDebug("Authenticating with Shiprocket as %s", c.email)

	var resp loginResponse
	err := c.send(ctx, http.MethodPost, "/auth/login", "", loginRequest{Email: c.email, Password: c.password}, &resp)
	utils.RecordVendorRequest("shiprocket", "login", err)
	if err != nil {
		return "", fmt.Errorf("shiprocket authentication failed: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("shiprocket authentication response missing token")
	}

	utils.LogInfo("Shiprocket authentication successful")
	return resp.Token, nil
}

// call performs an authenticated request. A 401 drops the cached token and the call is retried once.
func (c *Client) call(ctx context.Context, operation, method, path string, body, out interface{}) error {
	err := c.callOnce(ctx, method, path, body, out)
	if IsUnauthorized(err) {
		utils.LogWarn("Shiprocket rejected token during %s, re-authenticating", operation)
		err = c.callOnce(ctx, method, path, body, out)
	}
	utils.RecordVendorRequest("shiprocket", operation, err)
	if err != nil {
		utils.LogError("Shiprocket %s failed: %v", operation, err)
	}
	return err
}

func (c *Client) callOnce(ctx context.Context, method, path string, body, out interface{}) error {
	token, err := c.authToken(ctx)
	if err != nil {
		return err
	}
	err = c.send(ctx, method, path, token, body, out)
	if IsUnauthorized(err) {
		c.invalidateToken(ctx, token)
	}
	return err
}

func (c *Client) send(ctx context.Context, method, path, token string, body, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode shiprocket response: %w", err)
	}
	return nil
}
