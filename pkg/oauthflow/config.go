package oauthflow

import "time"

// Config holds flow-wide settings.
type Config struct {
	// ExchangeCooldown is how long a code stays guarded after its exchange
	// completes. Within the window a duplicate submission is rejected
	// locally instead of racing the backend.
	ExchangeCooldown time.Duration `env:"OAUTH_EXCHANGE_COOLDOWN" envDefault:"30s"`

	// RedirectDelay is how long the success page lingers before navigating
	// home, so the user sees the confirmation.
	RedirectDelay time.Duration `env:"OAUTH_REDIRECT_DELAY" envDefault:"1500ms"`

	// StagingTTL bounds staged state nonces and pending payloads. Should
	// comfortably cover the provider's consent screen.
	StagingTTL time.Duration `env:"OAUTH_STAGING_TTL" envDefault:"10m"`

	// HomeURL is where successful sign-ins land.
	HomeURL string `env:"OAUTH_HOME_URL" envDefault:"/"`

	// SignInURL is where "Try again" routes after a failed attempt.
	SignInURL string `env:"OAUTH_SIGNIN_URL" envDefault:"/signin"`

	// FlowCookieName carries the flow identifier across the redirect.
	FlowCookieName string `env:"OAUTH_FLOW_COOKIE_NAME" envDefault:"perimetra_flow"`
}

// DefaultConfig returns default flow configuration.
func DefaultConfig() Config {
	return Config{
		ExchangeCooldown: 30 * time.Second,
		RedirectDelay:    1500 * time.Millisecond,
		StagingTTL:       10 * time.Minute,
		HomeURL:          "/",
		SignInURL:        "/signin",
		FlowCookieName:   "perimetra_flow",
	}
}
