package workspace

import (
	"context"
	"fmt"

	"github.com/perimetra/console/pkg/apiclient"
)

// Provider resolves a workspace identifier to one of the user's
// memberships.
type Provider interface {
	// Membership returns the workspace matching identifier among the
	// memberships visible to accessToken. Returns ErrNotFound when no
	// membership matches.
	Membership(ctx context.Context, accessToken, identifier string) (*apiclient.Workspace, error)
}

// MembershipLister is the slice of the product API the provider needs.
// *apiclient.Client satisfies it.
type MembershipLister interface {
	Workspaces(ctx context.Context, accessToken string) ([]apiclient.Workspace, error)
}

// APIProvider resolves memberships against the product API. Identifiers
// match either the workspace ID or its slug.
type APIProvider struct {
	api MembershipLister
}

// NewAPIProvider creates a provider backed by the product API.
func NewAPIProvider(api MembershipLister) *APIProvider {
	return &APIProvider{api: api}
}

func (p *APIProvider) Membership(ctx context.Context, accessToken, identifier string) (*apiclient.Workspace, error) {
	memberships, err := p.api.Workspaces(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("workspace: list memberships: %w", err)
	}
	for i := range memberships {
		if memberships[i].ID == identifier || memberships[i].Slug == identifier {
			return &memberships[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, identifier)
}
