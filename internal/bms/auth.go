package bms

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Virtus92/Rising-BSM-Dev/pkg/errors"
)

// serviceInfoTTL bounds how long the cached service-account identity is
// trusted before re-verifying against the BMS API.
const serviceInfoTTL = 5 * time.Minute

// AccountInfo describes an authenticated BMS account.
type AccountInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// AuthClient verifies credentials against the BMS API. It also caches the
// service account's own identity so startup checks and repeated whoami
// calls don't hammer the auth endpoint.
type AuthClient struct {
	client *Client
	apiKey string

	mu          sync.Mutex
	cachedInfo  *AccountInfo
	cacheExpiry time.Time
}

// NewAuthClient creates an auth client sharing the given BMS client.
func NewAuthClient(client *Client, apiKey string) *AuthClient {
	return &AuthClient{client: client, apiKey: apiKey}
}

// VerifyToken checks a bearer token against the BMS API and returns the
// account it belongs to.
func (a *AuthClient) VerifyToken(ctx context.Context, token string) (*AccountInfo, error) {
	// The /auth/me endpoint authenticates with the presented token, not
	// the service key, so bypass the shared client's credential.
	probe := NewClient(a.client.baseURL, token)

	var info AccountInfo
	if err := probe.do(ctx, "GET", "/auth/me", nil, nil, &info); err != nil {
		if errors.Is(err, errors.ErrUnauthorized) {
			return nil, &errors.AuthenticationError{Message: "invalid or expired token", Err: err}
		}
		return nil, &errors.AuthenticationError{Message: "failed to verify authentication", Err: err}
	}
	return &info, nil
}

// ServiceAccountInfo returns the identity of the configured service
// account, cached for serviceInfoTTL.
func (a *AuthClient) ServiceAccountInfo(ctx context.Context) (*AccountInfo, error) {
	a.mu.Lock()
	if a.cachedInfo != nil && time.Now().Before(a.cacheExpiry) {
		info := a.cachedInfo
		a.mu.Unlock()
		return info, nil
	}
	a.mu.Unlock()

	info, err := a.VerifyToken(ctx, a.apiKey)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.cachedInfo = info
	a.cacheExpiry = time.Now().Add(serviceInfoTTL)
	a.mu.Unlock()

	return info, nil
}

// CheckPermission asks the BMS API whether the service account may
// perform an action on a resource. Failures are treated as denial.
func (a *AuthClient) CheckPermission(ctx context.Context, resource, action string) bool {
	var out struct {
		Allowed bool `json:"allowed"`
	}
	body := map[string]any{"resource": resource, "action": action}
	if err := a.client.do(ctx, "POST", "/permissions/check", nil, body, &out); err != nil {
		return false
	}
	return out.Allowed
}

// VerifyHeader validates an Authorization header value. The configured
// service key is accepted directly; anything else is verified upstream.
func (a *AuthClient) VerifyHeader(ctx context.Context, header string) bool {
	if header == "" {
		return false
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return false
	}

	if token == a.apiKey {
		return true
	}

	_, err := a.VerifyToken(ctx, token)
	return err == nil
}
