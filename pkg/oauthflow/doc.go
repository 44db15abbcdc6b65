// Package oauthflow reconciles third-party OAuth sign-in results into
// authenticated console sessions.
//
// One parameterized flow serves all providers. A ProviderConfig describes
// everything provider-specific: the oauth2 endpoint, scopes, whether the
// flow runs as a full-page redirect or a legacy popup, and how the
// anti-forgery state is validated. GitHub, GitLab and Bitbucket share a
// single initiator, callback receiver, state validator and exchange path
// instead of three near-identical copies.
//
// The flow is modeled as an explicit state machine:
//
//	Loading -> Succeeded -> Redirected
//	Loading -> <error class> -> ErrorDisplayed -> RestartSignIn
//
// Every error class is terminal for the attempt. Authorization codes are
// single-use, so nothing here retries: the only user-facing recovery is
// restarting sign-in.
package oauthflow
