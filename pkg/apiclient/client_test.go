package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perimetra/console/pkg/apiclient"
)

func newClient(t *testing.T, handler http.Handler) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return apiclient.New(apiclient.Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
}

func TestClient_ExchangeCode(t *testing.T) {
	t.Parallel()

	t.Run("success decodes token and user", func(t *testing.T) {
		t.Parallel()

		var gotPath string
		var gotBody map[string]string

		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "t1",
				"user":         map[string]any{"id": 1, "username": "alice"},
			})
		}))

		result, err := client.ExchangeCode(context.Background(), "github", "abc123")
		require.NoError(t, err)
		assert.Equal(t, "/auth/github/callback", gotPath)
		assert.Equal(t, map[string]string{"code": "abc123"}, gotBody)
		assert.Equal(t, "t1", result.AccessToken)
		assert.Equal(t, "alice", result.User.Username)
	})

	t.Run("non-2xx becomes APIError with detail", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"detail": "code is being processed"})
		}))

		_, err := client.ExchangeCode(context.Background(), "gitlab", "abc123")
		require.Error(t, err)

		apiErr, ok := apiclient.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, apiErr.Status)
		assert.Equal(t, "code is being processed", apiErr.Detail)
	})

	t.Run("non-JSON error body yields empty detail", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Bad Gateway", http.StatusBadGateway)
		}))

		_, err := client.ExchangeCode(context.Background(), "github", "abc123")
		apiErr, ok := apiclient.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadGateway, apiErr.Status)
		assert.Empty(t, apiErr.Detail)
	})

	t.Run("unreachable server yields ErrNetwork", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close() // nothing listens anymore

		client := apiclient.New(apiclient.Config{BaseURL: srv.URL, Timeout: time.Second})
		_, err := client.ExchangeCode(context.Background(), "github", "abc123")
		assert.ErrorIs(t, err, apiclient.ErrNetwork)
	})
}

func TestClient_CurrentUser(t *testing.T) {
	t.Parallel()

	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me", r.URL.Path)
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"id": 7, "username": "bob"})
	}))

	user, err := client.CurrentUser(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "bob", user.Username)
}

func TestClient_AcceptInvite(t *testing.T) {
	t.Parallel()

	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/workspaces/invites/accept", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "acme", body["workspace"])
		json.NewEncoder(w).Encode(map[string]string{"id": "ws-1", "name": "Acme", "slug": "acme"})
	}))

	ws, err := client.AcceptInvite(context.Background(), "t1", "acme")
	require.NoError(t, err)
	assert.Equal(t, "ws-1", ws.ID)
	assert.Equal(t, "acme", ws.Slug)
}
