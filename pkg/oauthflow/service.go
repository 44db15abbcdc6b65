package oauthflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/perimetra/console/pkg/apiclient"
	"github.com/perimetra/console/pkg/flow"
	"github.com/perimetra/console/pkg/logger"
	"github.com/perimetra/console/pkg/session"
	"github.com/perimetra/console/pkg/staging"
)

// Callback flow states. The error classes are states of their own so the
// machine records which terminal class an attempt hit before settling in
// ErrorDisplayed.
const (
	StateLoading        flow.State = "loading"
	StateSucceeded      flow.State = "succeeded"
	StateRedirected     flow.State = "redirected"
	StateErrorDisplayed flow.State = "error_displayed"
	StateRestartSignIn  flow.State = "restart_sign_in"
)

// newCallbackMachine declares the legal transitions of one callback attempt.
func newCallbackMachine() *flow.Machine {
	transitions := map[flow.State][]flow.State{
		StateLoading:        {StateSucceeded},
		StateSucceeded:      {StateRedirected},
		StateErrorDisplayed: {StateRestartSignIn},
	}
	for _, class := range []Class{
		ClassProviderDenied,
		ClassMalformedCallback,
		ClassStateMismatch,
		ClassConcurrentProcessing,
		ClassCodeAlreadyConsumed,
		ClassExchangeFailed,
		ClassNetworkError,
	} {
		classState := flow.State(class)
		transitions[StateLoading] = append(transitions[StateLoading], classState)
		transitions[classState] = []flow.State{StateErrorDisplayed}
	}
	return flow.NewMachine(StateLoading, transitions)
}

// Exchanger trades an authorization code for an access token and profile.
// *apiclient.Client satisfies it.
type Exchanger interface {
	ExchangeCode(ctx context.Context, provider, code string) (*apiclient.ExchangeResult, error)
}

// Materializer is the single write path into the session.
// *session.Manager satisfies it.
type Materializer interface {
	Materialize(ctx context.Context, w http.ResponseWriter, accessToken string, user *apiclient.UserProfile) (*session.Session, error)
}

// Service orchestrates callback reconciliation for all providers.
type Service struct {
	registry *Registry
	api      Exchanger
	sessions Materializer
	staging  staging.Store
	guard    *exchangeGuard
	config   Config
	logger   *slog.Logger

	// afterMaterialize runs once per successful sign-in, after the session
	// exists. The staged pending workspace, if any, is passed along.
	afterMaterialize func(ctx context.Context, s *session.Session, pendingWorkspace string)
}

// Option configures a Service during construction.
type Option func(*Service)

// WithLogger configures the logger for the flow service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConfig overrides the default flow configuration.
func WithConfig(cfg Config) Option {
	return func(s *Service) { s.config = cfg }
}

// WithAfterMaterialize registers the post-sign-in hook. Hook failures never
// fail the sign-in; implementations log their own errors.
func WithAfterMaterialize(fn func(ctx context.Context, s *session.Session, pendingWorkspace string)) Option {
	return func(s *Service) { s.afterMaterialize = fn }
}

// NewService constructs the callback reconciliation service.
func NewService(registry *Registry, api Exchanger, sessions Materializer, stagingStore staging.Store, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		api:      api,
		sessions: sessions,
		staging:  stagingStore,
		config:   DefaultConfig(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.guard = newExchangeGuard(s.config.ExchangeCooldown)
	return s
}

// Config exposes the active flow configuration to the HTTP layer.
func (s *Service) Config() Config { return s.config }

// Registry exposes provider lookups to the HTTP layer.
func (s *Service) Registry() *Registry { return s.registry }

// Outcome is the terminal result of one callback attempt.
type Outcome struct {
	Session *session.Session
	Err     *FlowError

	// RedirectDelay and HomeURL drive the success page.
	RedirectDelay time.Duration
	HomeURL       string

	machine *flow.Machine
}

// OK reports whether the attempt produced a session.
func (o *Outcome) OK() bool { return o.Err == nil }

// State returns the attempt's current flow state.
func (o *Outcome) State() flow.State { return o.machine.Current() }

// MarkRedirected records that the success navigation was issued.
func (o *Outcome) MarkRedirected() error { return o.machine.Transition(StateRedirected) }

// MarkRestart records that the user chose to restart sign-in.
func (o *Outcome) MarkRestart() error { return o.machine.Transition(StateRestartSignIn) }

// Reconcile runs the full-page callback flow: parse, validate state,
// exchange exactly once, materialize the session, then fire the
// post-sign-in hook. Every failure settles in ErrorDisplayed with its
// class recorded; nothing retries.
func (s *Service) Reconcile(ctx context.Context, w http.ResponseWriter, provider Provider, query url.Values, flowID string) *Outcome {
	outcome := &Outcome{
		RedirectDelay: s.config.RedirectDelay,
		HomeURL:       s.config.HomeURL,
		machine:       newCallbackMachine(),
	}

	cfg, err := s.registry.Lookup(provider)
	if err != nil {
		return s.fail(ctx, outcome, newFlowError(ClassMalformedCallback, "unknown provider", err))
	}

	result := ParseCallback(query)
	if ferr := result.Check(); ferr != nil {
		return s.fail(ctx, outcome, ferr)
	}

	if ferr := s.validateState(ctx, cfg, flowID, result.State); ferr != nil {
		return s.fail(ctx, outcome, ferr)
	}

	if !s.guard.tryAcquire(result.Code) {
		return s.fail(ctx, outcome, newFlowError(ClassConcurrentProcessing, "", nil))
	}
	// Deferred so a panicking exchanger cannot leave the code marked
	// in-flight forever.
	defer s.guard.release(result.Code)

	exchanged, err := s.api.ExchangeCode(ctx, string(provider), result.Code)
	if err != nil {
		return s.fail(ctx, outcome, classifyExchangeError(err))
	}

	sess, err := s.sessions.Materialize(ctx, w, exchanged.AccessToken, &exchanged.User)
	if err != nil {
		return s.fail(ctx, outcome, newFlowError(ClassExchangeFailed, "", err))
	}

	pending := s.consumePendingWorkspace(ctx, flowID)
	if s.afterMaterialize != nil {
		s.afterMaterialize(ctx, sess, pending)
	}

	_ = outcome.machine.Transition(StateSucceeded)
	outcome.Session = sess

	s.logger.InfoContext(ctx, "sign-in reconciled",
		logger.Component("oauthflow"),
		logger.Provider(string(provider)),
		logger.FlowID(flowID),
		logger.UserID(sess.User.ID),
	)
	return outcome
}

// ClearStaged removes any values staged for the flow. Called when the user
// restarts sign-in so stale state cannot leak into the next attempt.
func (s *Service) ClearStaged(ctx context.Context, flowID string) {
	if flowID == "" {
		return
	}
	_ = s.staging.Delete(ctx, stateKey(flowID))
	_ = s.staging.Delete(ctx, pendingWorkspaceKey(flowID))
}

func (s *Service) consumePendingWorkspace(ctx context.Context, flowID string) string {
	if flowID == "" {
		return ""
	}
	pending, err := s.staging.Consume(ctx, pendingWorkspaceKey(flowID))
	if err != nil {
		if !errors.Is(err, staging.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to consume pending workspace",
				logger.Component("oauthflow"),
				logger.FlowID(flowID),
				logger.Error(err),
			)
		}
		return ""
	}
	return pending
}

func (s *Service) fail(ctx context.Context, outcome *Outcome, ferr *FlowError) *Outcome {
	_ = outcome.machine.Transition(flow.State(ferr.Class))
	_ = outcome.machine.Transition(StateErrorDisplayed)
	outcome.Err = ferr

	s.logger.WarnContext(ctx, "sign-in attempt failed",
		logger.Component("oauthflow"),
		logger.ErrorClass(string(ferr.Class)),
		logger.Error(ferr),
	)
	return outcome
}
