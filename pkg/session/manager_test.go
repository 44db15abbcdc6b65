package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perimetra/console/pkg/apiclient"
	"github.com/perimetra/console/pkg/cookie"
	"github.com/perimetra/console/pkg/session"
)

const cookieSecret = "0123456789abcdef0123456789abcdef"

func newManager(t *testing.T) *session.Manager {
	t.Helper()

	cookieMgr, err := cookie.New([]string{cookieSecret})
	require.NoError(t, err)

	store := session.NewMemoryStore(0)
	t.Cleanup(store.Close)

	return session.NewManager(
		session.WithStore(store),
		session.WithTransport(session.NewCookieTransport(cookieMgr, "sid", false)),
	)
}

func testUser() *apiclient.UserProfile {
	return &apiclient.UserProfile{ID: 1, Username: "alice"}
}

func requestWith(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestManager_Materialize(t *testing.T) {
	t.Parallel()

	t.Run("round trip through cookie and store", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		w := httptest.NewRecorder()

		created, err := m.Materialize(context.Background(), w, "t1", testUser())
		require.NoError(t, err)
		assert.True(t, created.IsAuthenticated())

		got, err := m.Current(context.Background(), requestWith(w))
		require.NoError(t, err)
		assert.Equal(t, "t1", got.AccessToken)
		assert.Equal(t, "alice", got.User.Username)
		assert.True(t, got.IsAuthenticated())
	})

	t.Run("rejects missing access token", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		w := httptest.NewRecorder()

		_, err := m.Materialize(context.Background(), w, "", testUser())
		assert.ErrorIs(t, err, session.ErrIncompleteOutcome)
		assert.Empty(t, w.Result().Cookies(), "no cookie may be written for a partial outcome")
	})

	t.Run("rejects missing user", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		w := httptest.NewRecorder()

		_, err := m.Materialize(context.Background(), w, "t1", nil)
		assert.ErrorIs(t, err, session.ErrIncompleteOutcome)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("caps lifetime at the access token expiry", func(t *testing.T) {
		t.Parallel()

		// HS256-signed token expiring in one hour; the signature is never
		// verified, only the exp claim is read.
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := tok.SignedString([]byte("irrelevant"))
		require.NoError(t, err)

		m := newManager(t)
		w := httptest.NewRecorder()

		created, err := m.Materialize(context.Background(), w, signed, testUser())
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), created.ExpiresAt, time.Minute)
	})

	t.Run("opaque token falls back to configured lifetime", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		w := httptest.NewRecorder()

		created, err := m.Materialize(context.Background(), w, "not-a-jwt", testUser())
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(session.DefaultConfig().MaxLifetime), created.ExpiresAt, time.Minute)
	})
}

func TestManager_Current(t *testing.T) {
	t.Parallel()

	t.Run("no cookie", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		_, err := m.Current(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("tampered cookie", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		w := httptest.NewRecorder()
		_, err := m.Materialize(context.Background(), w, "t1", testUser())
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		c := w.Result().Cookies()[0]
		c.Value = "forged" + c.Value
		r.AddCookie(c)

		_, err = m.Current(context.Background(), r)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestManager_Logout(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	w := httptest.NewRecorder()
	_, err := m.Materialize(context.Background(), w, "t1", testUser())
	require.NoError(t, err)

	r := requestWith(w)

	w2 := httptest.NewRecorder()
	require.NoError(t, m.Logout(context.Background(), w2, r))

	// Cookie expired in the response.
	cookies := w2.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, -1, cookies[0].MaxAge)

	// Stored session is gone even if the old cookie is replayed.
	_, err = m.Current(context.Background(), r)
	assert.Error(t, err)
}

func TestManager_LogoutWithoutSession(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/logout", nil)
	assert.NoError(t, m.Logout(context.Background(), w, r))
}
