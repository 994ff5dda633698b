package bms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Virtus92/Rising-BSM-Dev/pkg/errors"
)

func newAuthStub(t *testing.T, validTokens map[string]AccountInfo) (*AuthClient, *atomic.Int64) {
	t.Helper()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/me":
			calls.Add(1)
			token := r.Header.Get("Authorization")
			info, ok := validTokens[token]
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(info)
		case "/permissions/check":
			var body struct {
				Resource string `json:"resource"`
				Action   string `json:"action"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			allowed := body.Resource == "customers" && body.Action == "read"
			_ = json.NewEncoder(w).Encode(map[string]bool{"allowed": allowed})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "service-key")
	return NewAuthClient(client, "service-key"), &calls
}

func TestAuthClient_VerifyToken(t *testing.T) {
	auth, _ := newAuthStub(t, map[string]AccountInfo{
		"Bearer user-token": {ID: "u1", Email: "user@example.com"},
	})

	info, err := auth.VerifyToken(context.Background(), "user-token")
	require.NoError(t, err)
	assert.Equal(t, "u1", info.ID)

	_, err = auth.VerifyToken(context.Background(), "bad-token")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestAuthClient_ServiceAccountInfoCached(t *testing.T) {
	auth, calls := newAuthStub(t, map[string]AccountInfo{
		"Bearer service-key": {ID: "svc", Email: "svc@example.com"},
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		info, err := auth.ServiceAccountInfo(ctx)
		require.NoError(t, err)
		assert.Equal(t, "svc", info.ID)
	}

	assert.Equal(t, int64(1), calls.Load(), "second and third lookups should hit the cache")
}

func TestAuthClient_CheckPermission(t *testing.T) {
	auth, _ := newAuthStub(t, nil)

	ctx := context.Background()
	assert.True(t, auth.CheckPermission(ctx, "customers", "read"))
	assert.False(t, auth.CheckPermission(ctx, "customers", "delete"))
}

func TestAuthClient_VerifyHeader(t *testing.T) {
	auth, _ := newAuthStub(t, map[string]AccountInfo{
		"Bearer user-token": {ID: "u1"},
	})

	ctx := context.Background()

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{"empty header", "", false},
		{"missing bearer prefix", "user-token", false},
		{"bare bearer", "Bearer ", false},
		{"service key fast path", "Bearer service-key", true},
		{"valid upstream token", "Bearer user-token", true},
		{"invalid token", "Bearer nope", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.VerifyHeader(ctx, tt.header))
		})
	}
}
