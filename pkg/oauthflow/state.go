package oauthflow

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/perimetra/console/pkg/staging"
)

// validateState verifies the callback's anti-forgery state before any
// network call is made. Nonce mode consumes the staged per-request value, so
// a replayed callback has nothing left to validate against. Legacy mode
// compares the fixed provider-scoped string; weaker, kept only for flows
// that cannot carry per-request state.
func (s *Service) validateState(ctx context.Context, cfg ProviderConfig, flowID, received string) *FlowError {
	switch cfg.StateMode {
	case StateLegacy:
		if subtle.ConstantTimeCompare([]byte(received), []byte(cfg.LegacyState)) != 1 {
			return newFlowError(ClassStateMismatch, "", nil)
		}
		return nil

	default: // StateNonce
		if flowID == "" || received == "" {
			return newFlowError(ClassStateMismatch, "", nil)
		}

		expected, err := s.staging.Consume(ctx, stateKey(flowID))
		if err != nil {
			if errors.Is(err, staging.ErrNotFound) {
				return newFlowError(ClassStateMismatch, "", err)
			}
			return newFlowError(ClassStateMismatch, "", err)
		}

		if subtle.ConstantTimeCompare([]byte(received), []byte(expected)) != 1 {
			return newFlowError(ClassStateMismatch, "", nil)
		}
		return nil
	}
}

func stateKey(flowID string) string {
	return "state:" + flowID
}

func pendingWorkspaceKey(flowID string) string {
	return "pending-workspace:" + flowID
}
