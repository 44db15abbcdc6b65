package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/perimetra/console/modules/authui"
	"github.com/perimetra/console/pkg/apiclient"
	"github.com/perimetra/console/pkg/config"
	"github.com/perimetra/console/pkg/cookie"
	"github.com/perimetra/console/pkg/httpserver"
	"github.com/perimetra/console/pkg/logger"
	"github.com/perimetra/console/pkg/oauthflow"
	perimetraredis "github.com/perimetra/console/pkg/redis"
	"github.com/perimetra/console/pkg/session"
	"github.com/perimetra/console/pkg/staging"
	"github.com/perimetra/console/pkg/workspace"
)

// appConfig selects optional integrations. Each enabled provider loads its
// own config block, so disabled providers need no credentials in the
// environment.
type appConfig struct {
	RedisEnabled     bool `env:"REDIS_ENABLED" envDefault:"false"`
	GitLabEnabled    bool `env:"GITLAB_OAUTH_ENABLED" envDefault:"false"`
	BitbucketEnabled bool `env:"BITBUCKET_OAUTH_ENABLED" envDefault:"false"`
}

func main() {
	ctx := context.Background()

	var logCfg logger.Config
	config.MustLoad(&logCfg)
	log := logger.NewFromConfig(logCfg, logger.WithContextExtractors(
		workspace.LoggerExtractor(),
	))

	var app appConfig
	config.MustLoad(&app)

	var cookieCfg cookie.Config
	config.MustLoad(&cookieCfg)
	cookies, err := cookie.NewFromConfig(cookieCfg)
	if err != nil {
		log.Error("failed to create cookie manager", logger.Error(err))
		os.Exit(1)
	}

	var sessionCfg session.Config
	config.MustLoad(&sessionCfg)

	var stagingCfg staging.Config
	config.MustLoad(&stagingCfg)

	var healthChecks []func(context.Context) error
	sessionStore := session.Store(session.NewMemoryStore(sessionCfg.CleanupInterval))
	stagingStore := staging.Store(staging.NewMemoryStore(stagingCfg.CleanupInterval))
	if app.RedisEnabled {
		var redisCfg perimetraredis.Config
		config.MustLoad(&redisCfg)
		redisClient, err := perimetraredis.Connect(ctx, redisCfg)
		if err != nil {
			log.Error("failed to connect to redis", logger.Error(err))
			os.Exit(1)
		}
		defer func() { _ = redisClient.Close() }()
		sessionStore = session.NewRedisStore(redisClient)
		stagingStore = staging.NewRedisStore(redisClient)
		healthChecks = append(healthChecks, perimetraredis.Healthcheck(redisClient))
	}

	sessions := session.NewManager(
		session.WithStore(sessionStore),
		session.WithTransport(session.NewCookieTransport(cookies, sessionCfg.CookieName, sessionCfg.SecureCookies)),
		session.WithConfig(sessionCfg),
		session.WithLogger(log),
	)

	var apiCfg apiclient.Config
	config.MustLoad(&apiCfg)
	api := apiclient.New(apiCfg, apiclient.WithLogger(log))

	providers := []oauthflow.ProviderConfig{}
	var githubCfg oauthflow.GitHubConfig
	config.MustLoad(&githubCfg)
	providers = append(providers, oauthflow.NewGitHubProvider(githubCfg))
	if app.GitLabEnabled {
		var gitlabCfg oauthflow.GitLabConfig
		config.MustLoad(&gitlabCfg)
		providers = append(providers, oauthflow.NewGitLabProvider(gitlabCfg))
	}
	if app.BitbucketEnabled {
		var bitbucketCfg oauthflow.BitbucketConfig
		config.MustLoad(&bitbucketCfg)
		providers = append(providers, oauthflow.NewBitbucketProvider(bitbucketCfg))
	}
	registry, err := oauthflow.NewRegistry(providers...)
	if err != nil {
		log.Error("failed to build provider registry", logger.Error(err))
		os.Exit(1)
	}

	var flowCfg oauthflow.Config
	config.MustLoad(&flowCfg)

	inviter := workspace.NewInviter(api, log)
	flow := oauthflow.NewService(registry, api, sessions, stagingStore,
		oauthflow.WithConfig(flowCfg),
		oauthflow.WithLogger(log),
		oauthflow.WithAfterMaterialize(inviter.AcceptPending),
	)

	auth := authui.NewService(flow, sessions, cookies,
		authui.WithLogger(log),
		authui.WithProfileAPI(api),
	)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(sessions.Middleware())
	r.Use(workspace.Middleware(
		workspace.NewCompositeResolver(
			workspace.NewPathResolver("w"),
			workspace.NewHeaderResolver("X-Workspace"),
		),
		workspace.NewAPIProvider(api),
	))

	r.Get("/health", healthHandler(log, healthChecks...))

	r.Mount("/", auth.Router())

	r.Group(func(protected chi.Router) {
		protected.Use(session.RequireAuth)
		protected.Get("/w/{slug}", consoleHome)
		protected.Get("/w/{slug}/*", consoleHome)
	})

	var httpCfg httpserver.Config
	config.MustLoad(&httpCfg)
	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, r); err != nil {
		log.Error("http server failed", logger.Error(err))
		os.Exit(1)
	}
}

// healthHandler reports readiness. Every registered check must pass; a
// deployment without optional backends has no checks and is always ready.
func healthHandler(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "healthcheck failed", logger.Error(err))
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// consoleHome is a placeholder for the console shell. The sign-in flow is
// the scope of this service; the shell itself is served separately.
func consoleHome(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	ws := workspace.MustFromContext(r.Context())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Perimetra console: " + sess.User.Username + " @ " + ws.Name + "\n"))
}
