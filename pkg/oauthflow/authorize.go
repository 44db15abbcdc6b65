package oauthflow

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// AuthorizationRequest is the ephemeral record of one sign-in initiation.
// It exists only long enough to build the redirect; the parts that must
// survive the navigation (state nonce, pending payload) go to staging.
type AuthorizationRequest struct {
	Provider Provider
	FlowID   string
	State    string
	URL      string
}

// Begin initiates sign-in with a provider: it generates the flow identifier
// and anti-forgery state, stages what must survive the redirect, and returns
// the fully-qualified authorization URL. The caller owns delivering the
// flow identifier to the browser (signed cookie) and performing the
// navigation.
//
// pendingWorkspace, when non-empty, is a workspace invite the user carried
// into sign-in; it is staged for auto-acceptance after the session
// materializes.
func (s *Service) Begin(ctx context.Context, provider Provider, pendingWorkspace string) (*AuthorizationRequest, error) {
	cfg, err := s.registry.Lookup(provider)
	if err != nil {
		return nil, err
	}

	flowID := uuid.NewString()

	var state string
	switch cfg.StateMode {
	case StateLegacy:
		state = cfg.LegacyState
	default:
		state, err = generateNonce()
		if err != nil {
			return nil, fmt.Errorf("oauthflow: generate state: %w", err)
		}
		if err := s.staging.Put(ctx, stateKey(flowID), state, s.config.StagingTTL); err != nil {
			return nil, fmt.Errorf("oauthflow: stage state: %w", err)
		}
	}

	if pendingWorkspace != "" {
		if err := s.staging.Put(ctx, pendingWorkspaceKey(flowID), pendingWorkspace, s.config.StagingTTL); err != nil {
			return nil, fmt.Errorf("oauthflow: stage pending workspace: %w", err)
		}
	}

	return &AuthorizationRequest{
		Provider: provider,
		FlowID:   flowID,
		State:    state,
		URL:      cfg.OAuth.AuthCodeURL(state),
	}, nil
}

func generateNonce() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
