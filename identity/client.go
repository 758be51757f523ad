package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	userInfoPath   = "/api/userinfo/"
	maxBodyBytes   = 1 << 20
	DefaultTimeout = 3 * time.Second
)

var (
	// ErrDependencyUnavailable means the identity service could not give an
	// answer: it was unreachable, timed out, or failed with a 5xx.
	ErrDependencyUnavailable = errors.New("identity service unavailable")
	// ErrUnauthenticated means the identity service rejected the credentials.
	ErrUnauthenticated = errors.New("not authenticated")
)

// UserInfo is the subset of /api/userinfo/ the directory relies on.
type UserInfo struct {
	UUID          uuid.UUID `json:"uuid"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	IsStaff       bool      `json:"is_staff"`
	IsSuperuser   bool      `json:"is_superuser"`
	EmailVerified bool      `json:"email_verified"`
}

// AuthorizationProvider decides whether a caller may perform privileged
// writes.
type AuthorizationProvider interface {
	IsPrivileged(ctx context.Context, authHeader string) (bool, error)
}

// IdentityResolver resolves the caller behind an Authorization header.
type IdentityResolver interface {
	CurrentUser(ctx context.Context, authHeader string) (*UserInfo, error)
}

// Client asks the authentication service about the caller. Every decision
// fails closed.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Relay fetches the caller's user info and returns the upstream status and
// body untouched. A transport failure is reported as ErrDependencyUnavailable.
func (c *Client) Relay(ctx context.Context, authHeader string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+userInfoPath, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build identity request: %w", err)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		zap.L().Warn("identity service request failed", zap.Error(err))
		return 0, nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read body: %v", ErrDependencyUnavailable, err)
	}
	return resp.StatusCode, body, nil
}

// CurrentUser returns the caller's identity. Non-2xx client errors map to
// ErrUnauthenticated; everything else that is not a 200 maps to
// ErrDependencyUnavailable.
func (c *Client) CurrentUser(ctx context.Context, authHeader string) (*UserInfo, error) {
	if authHeader == "" {
		return nil, ErrUnauthenticated
	}

	status, body, err := c.Relay(ctx, authHeader)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusOK:
	case status >= http.StatusInternalServerError:
		zap.L().Warn("identity service error", zap.Int("status", status))
		return nil, fmt.Errorf("%w: status %d", ErrDependencyUnavailable, status)
	default:
		return nil, fmt.Errorf("%w: status %d", ErrUnauthenticated, status)
	}

	var info UserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%w: malformed user info: %v", ErrDependencyUnavailable, err)
	}
	return &info, nil
}

// IsPrivileged reports whether the caller is staff. A rejected credential is
// simply not privileged; an unavailable identity service is not privileged
// and also returns ErrDependencyUnavailable.
func (c *Client) IsPrivileged(ctx context.Context, authHeader string) (bool, error) {
	info, err := c.CurrentUser(ctx, authHeader)
	if errors.Is(err, ErrUnauthenticated) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsStaff, nil
}
