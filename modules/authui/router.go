package authui

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/perimetra/console/pkg/apiclient"
	"github.com/perimetra/console/pkg/cookie"
	"github.com/perimetra/console/pkg/logger"
	"github.com/perimetra/console/pkg/oauthflow"
	"github.com/perimetra/console/pkg/session"
)

// ProfileAPI re-validates a session's access token against the backend.
// *apiclient.Client satisfies it.
type ProfileAPI interface {
	CurrentUser(ctx context.Context, accessToken string) (*apiclient.UserProfile, error)
}

// Service wires the sign-in flow to HTTP.
type Service struct {
	flow     *oauthflow.Service
	sessions *session.Manager
	cookies  *cookie.Manager
	profiles ProfileAPI
	log      *slog.Logger
}

// Option configures the service.
type Option func(*Service)

// WithLogger sets the handler logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithProfileAPI enables backend re-validation on the profile endpoint.
// Without it the endpoint serves the session's stored user.
func WithProfileAPI(api ProfileAPI) Option {
	return func(s *Service) { s.profiles = api }
}

// NewService creates the sign-in HTTP service.
func NewService(flow *oauthflow.Service, sessions *session.Manager, cookies *cookie.Manager, opts ...Option) *Service {
	s := &Service{
		flow:     flow,
		sessions: sessions,
		cookies:  cookies,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router mounts the sign-in routes.
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/signin", s.signinPage)
	r.Get("/me", s.me)
	r.Post("/logout", s.logout)

	r.Route("/auth", func(auth chi.Router) {
		auth.Get("/{provider}/login", s.login)
		auth.Get("/{provider}/callback", s.callback)
		auth.Post("/{provider}/complete", s.complete)
		auth.Post("/restart", s.restart)
	})

	return r
}

func (s *Service) signinPage(w http.ResponseWriter, r *http.Request) {
	if sess, err := s.sessions.Current(r.Context(), r); err == nil && sess.IsAuthenticated() {
		http.Redirect(w, r, s.flow.Config().HomeURL, http.StatusSeeOther)
		return
	}

	data := signinPageData{
		Providers: s.signinProviders(r.URL.Query().Get("workspace")),
		Error:     r.URL.Query().Get("message"),
	}
	if err := renderHTML(w, http.StatusOK, signinTmpl, data); err != nil {
		s.log.ErrorContext(r.Context(), "failed to render sign-in page", logger.Component("authui"), logger.Error(err))
	}
}

// signinProviders builds the sign-in entries in a stable order. The pending
// workspace rides along on the login URL so Begin can stage it.
func (s *Service) signinProviders(workspace string) []signinProvider {
	names := s.flow.Registry().Providers()
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	out := make([]signinProvider, 0, len(names))
	for _, name := range names {
		cfg, err := s.flow.Registry().Lookup(name)
		if err != nil {
			continue
		}
		loginURL := "/auth/" + string(name) + "/login"
		if workspace != "" {
			loginURL += "?workspace=" + url.QueryEscape(workspace)
		}
		out = append(out, signinProvider{
			Provider: name,
			LoginURL: loginURL,
			Popup:    cfg.FlowMode == oauthflow.FlowPopup,
		})
	}
	return out
}

func (s *Service) login(w http.ResponseWriter, r *http.Request) {
	provider, err := oauthflow.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	req, err := s.flow.Begin(r.Context(), provider, r.URL.Query().Get("workspace"))
	if err != nil {
		s.log.ErrorContext(r.Context(), "failed to initiate sign-in",
			logger.Component("authui"), logger.Provider(string(provider)), logger.Error(err))
		http.Error(w, "Could not start sign-in", http.StatusInternalServerError)
		return
	}

	cfg := s.flow.Config()
	if err := s.cookies.SetSigned(w, cfg.FlowCookieName, req.FlowID,
		cookie.WithMaxAge(int(cfg.StagingTTL.Seconds())),
		cookie.WithSameSite(http.SameSiteLaxMode),
	); err != nil {
		s.log.ErrorContext(r.Context(), "failed to set flow cookie",
			logger.Component("authui"), logger.Error(err))
		http.Error(w, "Could not start sign-in", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, req.URL, http.StatusFound)
}

func (s *Service) callback(w http.ResponseWriter, r *http.Request) {
	provider, err := oauthflow.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	// Popup flow: the popup never exchanges. It hands the callback
	// parameters to its opener and closes; the opener calls complete.
	if cfg, err := s.flow.Registry().Lookup(provider); err == nil && cfg.FlowMode == oauthflow.FlowPopup {
		s.renderPopupEmitter(w, r, provider)
		return
	}

	outcome := s.flow.Reconcile(r.Context(), w, provider, r.URL.Query(), s.flowID(r))
	// The flow cookie survives failures so "Try again" can still clear the
	// staged values for this flow.
	if outcome.OK() {
		s.cookies.Delete(w, s.flow.Config().FlowCookieName)
	}
	s.renderOutcome(w, r, outcome)
}

// completeRequest is the opener's submission of popup callback parameters.
type completeRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

type completeResponse struct {
	OK          bool   `json:"ok"`
	RedirectURL string `json:"redirect_url,omitempty"`
	ErrorClass  string `json:"error_class,omitempty"`
	Message     string `json:"message,omitempty"`
}

func (s *Service) complete(w http.ResponseWriter, r *http.Request) {
	provider, err := oauthflow.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, completeResponse{
			OK:         false,
			ErrorClass: string(oauthflow.ClassMalformedCallback),
			Message:    "invalid request body",
		})
		return
	}

	query := url.Values{}
	if req.Code != "" {
		query.Set("code", req.Code)
	}
	if req.State != "" {
		query.Set("state", req.State)
	}

	outcome := s.flow.Reconcile(r.Context(), w, provider, query, s.flowID(r))

	if !outcome.OK() {
		writeJSON(w, classStatus(outcome.Err.Class), completeResponse{
			OK:         false,
			ErrorClass: string(outcome.Err.Class),
			Message:    outcome.Err.Message(),
		})
		return
	}

	s.cookies.Delete(w, s.flow.Config().FlowCookieName)
	if err := outcome.MarkRedirected(); err != nil {
		s.log.ErrorContext(r.Context(), "illegal flow transition", logger.Component("authui"), logger.Error(err))
	}
	writeJSON(w, http.StatusOK, completeResponse{OK: true, RedirectURL: outcome.HomeURL})
}

func (s *Service) restart(w http.ResponseWriter, r *http.Request) {
	s.flow.ClearStaged(r.Context(), s.flowID(r))
	s.cookies.Delete(w, s.flow.Config().FlowCookieName)
	http.Redirect(w, r, s.flow.Config().SignInURL, http.StatusSeeOther)
}

// me serves the signed-in user's profile. With a backend configured the
// stored token is re-validated on every call; a token the backend no longer
// accepts tears the session down.
func (s *Service) me(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Current(r.Context(), r)
	if err != nil || !sess.IsAuthenticated() {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "not signed in"})
		return
	}

	if s.profiles == nil {
		writeJSON(w, http.StatusOK, sess.User)
		return
	}

	profile, err := s.profiles.CurrentUser(r.Context(), sess.AccessToken)
	if err != nil {
		if apiErr, ok := apiclient.AsAPIError(err); ok && apiErr.Status == http.StatusUnauthorized {
			if err := s.sessions.Logout(r.Context(), w, r); err != nil {
				s.log.ErrorContext(r.Context(), "failed to tear down stale session",
					logger.Component("authui"), logger.Error(err))
			}
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "session expired"})
			return
		}
		s.log.ErrorContext(r.Context(), "profile lookup failed",
			logger.Component("authui"), logger.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "profile unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (s *Service) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(r.Context(), w, r); err != nil {
		s.log.ErrorContext(r.Context(), "logout failed", logger.Component("authui"), logger.Error(err))
	}
	http.Redirect(w, r, s.flow.Config().SignInURL, http.StatusSeeOther)
}

func (s *Service) renderPopupEmitter(w http.ResponseWriter, r *http.Request, provider oauthflow.Provider) {
	msg := oauthflow.NewPopupMessage(provider, oauthflow.ParseCallback(r.URL.Query()))
	raw, err := msg.JSON()
	if err != nil {
		http.Error(w, "Could not complete sign-in", http.StatusInternalServerError)
		return
	}
	if err := renderHTML(w, http.StatusOK, popupTmpl, popupPageData{MessageJSON: raw}); err != nil {
		s.log.ErrorContext(r.Context(), "failed to render popup emitter", logger.Component("authui"), logger.Error(err))
	}
}

func (s *Service) renderOutcome(w http.ResponseWriter, r *http.Request, outcome *oauthflow.Outcome) {
	if outcome.OK() {
		data := successPageData{
			HomeURL: outcome.HomeURL,
			DelayMS: outcome.RedirectDelay.Milliseconds(),
		}
		if err := renderHTML(w, http.StatusOK, successTmpl, data); err != nil {
			s.log.ErrorContext(r.Context(), "failed to render success page", logger.Component("authui"), logger.Error(err))
			return
		}
		// The page just sent carries the delayed history-replacing
		// navigation home.
		if err := outcome.MarkRedirected(); err != nil {
			s.log.ErrorContext(r.Context(), "illegal flow transition", logger.Component("authui"), logger.Error(err))
		}
		return
	}

	data := errorPageData{
		Message:    outcome.Err.Message(),
		RestartURL: "/auth/restart",
	}
	if err := renderHTML(w, classStatus(outcome.Err.Class), errorTmpl, data); err != nil {
		s.log.ErrorContext(r.Context(), "failed to render error page", logger.Component("authui"), logger.Error(err))
	}
}

func (s *Service) flowID(r *http.Request) string {
	id, err := s.cookies.GetSigned(r, s.flow.Config().FlowCookieName)
	if err != nil {
		return ""
	}
	return id
}

func classStatus(class oauthflow.Class) int {
	switch class {
	case oauthflow.ClassProviderDenied:
		return http.StatusOK
	case oauthflow.ClassMalformedCallback, oauthflow.ClassStateMismatch:
		return http.StatusBadRequest
	case oauthflow.ClassConcurrentProcessing, oauthflow.ClassCodeAlreadyConsumed:
		return http.StatusConflict
	case oauthflow.ClassNetworkError, oauthflow.ClassExchangeFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
