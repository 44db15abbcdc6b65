package oauthflow

import (
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/bitbucket"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/gitlab"
)

// Provider identifies a supported OAuth provider.
type Provider string

const (
	ProviderGitHub    Provider = "github"
	ProviderGitLab    Provider = "gitlab"
	ProviderBitbucket Provider = "bitbucket"
)

// ParseProvider validates a provider identifier from a URL or message.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderGitHub, ProviderGitLab, ProviderBitbucket:
		return Provider(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
}

// FlowMode selects how the provider round-trip runs.
type FlowMode string

const (
	// FlowRedirect navigates the whole tab to the provider and back.
	FlowRedirect FlowMode = "redirect"
	// FlowPopup opens the consent screen in a secondary window that reports
	// back to the opener and closes. Kept for the legacy GitLab/Bitbucket
	// integrations.
	FlowPopup FlowMode = "popup"
)

// StateMode selects how the anti-forgery state parameter is validated.
type StateMode string

const (
	// StateNonce issues a per-request random value staged before the
	// redirect and consumed exactly once by the callback.
	StateNonce StateMode = "nonce"
	// StateLegacy compares against a fixed provider-scoped string. Weaker
	// than a nonce; retained for flows that cannot carry per-request state.
	StateLegacy StateMode = "legacy"
)

// ProviderConfig is the strategy record for one provider. The whole flow is
// table-driven over these values.
type ProviderConfig struct {
	Provider    Provider
	OAuth       *oauth2.Config
	FlowMode    FlowMode
	StateMode   StateMode
	LegacyState string // required when StateMode == StateLegacy
}

// GitHubConfig holds GitHub OAuth configuration.
type GitHubConfig struct {
	ClientID     string   `env:"GITHUB_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"GITHUB_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"GITHUB_OAUTH_REDIRECT_URL,required"`
	Scopes       []string `env:"GITHUB_OAUTH_SCOPES" envSeparator:"," envDefault:"read:user,user:email"`
}

// GitLabConfig holds GitLab OAuth configuration.
type GitLabConfig struct {
	ClientID     string   `env:"GITLAB_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"GITLAB_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"GITLAB_OAUTH_REDIRECT_URL,required"`
	Scopes       []string `env:"GITLAB_OAUTH_SCOPES" envSeparator:"," envDefault:"read_user"`
	PopupFlow    bool     `env:"GITLAB_OAUTH_POPUP_FLOW" envDefault:"false"`
	LegacyState  string   `env:"GITLAB_OAUTH_LEGACY_STATE"`
}

// BitbucketConfig holds Bitbucket OAuth configuration.
type BitbucketConfig struct {
	ClientID     string   `env:"BITBUCKET_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"BITBUCKET_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"BITBUCKET_OAUTH_REDIRECT_URL,required"`
	Scopes       []string `env:"BITBUCKET_OAUTH_SCOPES" envSeparator:"," envDefault:"account"`
	PopupFlow    bool     `env:"BITBUCKET_OAUTH_POPUP_FLOW" envDefault:"false"`
	LegacyState  string   `env:"BITBUCKET_OAUTH_LEGACY_STATE"`
}

// Registry resolves provider configurations by identifier.
type Registry struct {
	providers map[Provider]ProviderConfig
}

// NewRegistry builds a registry from explicit provider configs.
func NewRegistry(configs ...ProviderConfig) (*Registry, error) {
	providers := make(map[Provider]ProviderConfig, len(configs))
	for _, cfg := range configs {
		if _, err := ParseProvider(string(cfg.Provider)); err != nil {
			return nil, err
		}
		if cfg.OAuth == nil {
			return nil, fmt.Errorf("oauthflow: provider %s has no oauth2 config", cfg.Provider)
		}
		if cfg.StateMode == StateLegacy && cfg.LegacyState == "" {
			return nil, fmt.Errorf("oauthflow: provider %s uses legacy state but has no state string", cfg.Provider)
		}
		providers[cfg.Provider] = cfg
	}
	return &Registry{providers: providers}, nil
}

// Lookup returns the configuration for a provider.
func (r *Registry) Lookup(p Provider) (ProviderConfig, error) {
	cfg, ok := r.providers[p]
	if !ok {
		return ProviderConfig{}, fmt.Errorf("%w: %q", ErrUnknownProvider, p)
	}
	return cfg, nil
}

// Providers lists the configured providers.
func (r *Registry) Providers() []Provider {
	out := make([]Provider, 0, len(r.providers))
	for p := range r.providers {
		out = append(out, p)
	}
	return out
}

// NewGitHubProvider builds the GitHub table entry. GitHub always runs the
// redirect flow with per-request state.
func NewGitHubProvider(cfg GitHubConfig) ProviderConfig {
	return ProviderConfig{
		Provider: ProviderGitHub,
		OAuth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     github.Endpoint,
		},
		FlowMode:  FlowRedirect,
		StateMode: StateNonce,
	}
}

// NewGitLabProvider builds the GitLab table entry. The legacy popup flow with
// its fixed state string stays available behind configuration.
func NewGitLabProvider(cfg GitLabConfig) ProviderConfig {
	return legacyCapableProvider(ProviderGitLab, &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       cfg.Scopes,
		Endpoint:     gitlab.Endpoint,
	}, cfg.PopupFlow, cfg.LegacyState)
}

// NewBitbucketProvider builds the Bitbucket table entry, popup-capable like
// GitLab.
func NewBitbucketProvider(cfg BitbucketConfig) ProviderConfig {
	return legacyCapableProvider(ProviderBitbucket, &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       cfg.Scopes,
		Endpoint:     bitbucket.Endpoint,
	}, cfg.PopupFlow, cfg.LegacyState)
}

func legacyCapableProvider(p Provider, oauth *oauth2.Config, popup bool, legacyState string) ProviderConfig {
	cfg := ProviderConfig{
		Provider:  p,
		OAuth:     oauth,
		FlowMode:  FlowRedirect,
		StateMode: StateNonce,
	}
	if popup {
		cfg.FlowMode = FlowPopup
	}
	if legacyState != "" {
		cfg.StateMode = StateLegacy
		cfg.LegacyState = legacyState
	}
	return cfg
}
