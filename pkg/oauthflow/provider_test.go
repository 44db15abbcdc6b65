package oauthflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestParseProvider(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"github", "gitlab", "bitbucket"} {
		p, err := ParseProvider(valid)
		require.NoError(t, err)
		assert.Equal(t, Provider(valid), p)
	}

	_, err := ParseProvider("google")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, err = ParseProvider("")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	t.Run("resolves configured providers", func(t *testing.T) {
		t.Parallel()

		registry, err := NewRegistry(
			NewGitHubProvider(GitHubConfig{ClientID: "id", ClientSecret: "secret", RedirectURL: "https://console.test/auth/github/callback"}),
			NewGitLabProvider(GitLabConfig{ClientID: "id", ClientSecret: "secret", RedirectURL: "https://console.test/auth/gitlab/callback"}),
		)
		require.NoError(t, err)

		cfg, err := registry.Lookup(ProviderGitHub)
		require.NoError(t, err)
		assert.Equal(t, ProviderGitHub, cfg.Provider)
		assert.Equal(t, FlowRedirect, cfg.FlowMode)
		assert.Equal(t, StateNonce, cfg.StateMode)

		assert.Len(t, registry.Providers(), 2)
	})

	t.Run("unknown provider lookup fails", func(t *testing.T) {
		t.Parallel()

		registry, err := NewRegistry()
		require.NoError(t, err)

		_, err = registry.Lookup(ProviderBitbucket)
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("rejects invalid provider name", func(t *testing.T) {
		t.Parallel()

		_, err := NewRegistry(ProviderConfig{Provider: "google", OAuth: &oauth2.Config{}})
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("rejects missing oauth config", func(t *testing.T) {
		t.Parallel()

		_, err := NewRegistry(ProviderConfig{Provider: ProviderGitHub})
		assert.Error(t, err)
	})

	t.Run("rejects legacy mode without state string", func(t *testing.T) {
		t.Parallel()

		_, err := NewRegistry(ProviderConfig{
			Provider:  ProviderGitLab,
			OAuth:     &oauth2.Config{},
			StateMode: StateLegacy,
		})
		assert.Error(t, err)
	})
}

func TestLegacyCapableProviders(t *testing.T) {
	t.Parallel()

	t.Run("defaults to redirect with nonce", func(t *testing.T) {
		t.Parallel()

		cfg := NewBitbucketProvider(BitbucketConfig{ClientID: "id", ClientSecret: "secret", RedirectURL: "https://console.test/cb"})
		assert.Equal(t, FlowRedirect, cfg.FlowMode)
		assert.Equal(t, StateNonce, cfg.StateMode)
	})

	t.Run("popup and legacy state opt in", func(t *testing.T) {
		t.Parallel()

		cfg := NewGitLabProvider(GitLabConfig{
			ClientID:     "id",
			ClientSecret: "secret",
			RedirectURL:  "https://console.test/cb",
			PopupFlow:    true,
			LegacyState:  "fixed-state",
		})
		assert.Equal(t, FlowPopup, cfg.FlowMode)
		assert.Equal(t, StateLegacy, cfg.StateMode)
		assert.Equal(t, "fixed-state", cfg.LegacyState)
	})
}
