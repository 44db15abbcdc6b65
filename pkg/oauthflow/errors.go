package oauthflow

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/perimetra/console/pkg/apiclient"
)

// ErrUnknownProvider indicates a provider identifier outside the registry.
var ErrUnknownProvider = errors.New("oauthflow: unknown provider")

// Class names a terminal outcome of a callback attempt. Every class maps to
// a user-visible message; none is retried automatically, because the
// authorization code behind the attempt is single-use.
type Class string

const (
	// ClassProviderDenied: the provider reported an error, typically the
	// user cancelling the consent screen.
	ClassProviderDenied Class = "provider_denied"
	// ClassMalformedCallback: neither code nor error arrived.
	ClassMalformedCallback Class = "malformed_callback"
	// ClassStateMismatch: the anti-forgery state did not validate.
	ClassStateMismatch Class = "state_mismatch"
	// ClassConcurrentProcessing: this code is already being exchanged.
	ClassConcurrentProcessing Class = "concurrent_processing"
	// ClassCodeAlreadyConsumed: the code was already exchanged once.
	ClassCodeAlreadyConsumed Class = "code_already_consumed"
	// ClassExchangeFailed: the backend rejected the exchange.
	ClassExchangeFailed Class = "exchange_failed"
	// ClassNetworkError: the exchange request produced no response.
	ClassNetworkError Class = "network_error"
)

var classMessages = map[Class]string{
	ClassProviderDenied:       "Sign-in was cancelled or rejected by the provider.",
	ClassMalformedCallback:    "The sign-in response was incomplete. Please try again.",
	ClassStateMismatch:        "The sign-in request could not be verified. Please restart sign-in.",
	ClassConcurrentProcessing: "This sign-in is already being processed. Please wait a moment and refresh.",
	ClassCodeAlreadyConsumed:  "This sign-in link was already used. Please restart sign-in.",
	ClassExchangeFailed:       "Sign-in failed. Please try again.",
	ClassNetworkError:         "Could not reach the authentication service. Please check your connection and try again.",
}

// FlowError is the classified, terminal outcome of a failed callback attempt.
type FlowError struct {
	Class  Class
	Detail string // backend or provider supplied detail, may be empty
	cause  error
}

func (e *FlowError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("oauthflow: %s: %s", e.Class, e.Detail)
	}
	return fmt.Sprintf("oauthflow: %s", e.Class)
}

func (e *FlowError) Unwrap() error { return e.cause }

// Message returns the user-facing text for the error: the backend detail
// when present, otherwise the fixed fallback for the class.
func (e *FlowError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return classMessages[e.Class]
}

func newFlowError(class Class, detail string, cause error) *FlowError {
	return &FlowError{Class: class, Detail: detail, cause: cause}
}

// AsFlowError unwraps err into a *FlowError if one is present.
func AsFlowError(err error) (*FlowError, bool) {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// classifyExchangeError maps an API client failure to a flow error class.
// 409 means the backend is still processing this code; 400 with an
// already-used indication means a duplicate tab or an expired attempt won the
// race; anything else is a plain exchange failure or a network error.
func classifyExchangeError(err error) *FlowError {
	if errors.Is(err, apiclient.ErrNetwork) {
		return newFlowError(ClassNetworkError, "", err)
	}

	apiErr, ok := apiclient.AsAPIError(err)
	if !ok {
		return newFlowError(ClassExchangeFailed, "", err)
	}

	switch {
	case apiErr.Status == http.StatusConflict:
		return newFlowError(ClassConcurrentProcessing, apiErr.Detail, err)
	case apiErr.Status == http.StatusBadRequest && codeAlreadyUsed(apiErr.Detail):
		return newFlowError(ClassCodeAlreadyConsumed, apiErr.Detail, err)
	default:
		return newFlowError(ClassExchangeFailed, apiErr.Detail, err)
	}
}

func codeAlreadyUsed(detail string) bool {
	d := strings.ToLower(detail)
	return strings.Contains(d, "already used") ||
		strings.Contains(d, "already been used") ||
		strings.Contains(d, "code expired") ||
		strings.Contains(d, "invalid_grant")
}
