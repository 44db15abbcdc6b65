package workspace_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/perimetra/console/pkg/apiclient"
	"github.com/perimetra/console/pkg/workspace"
)

type mockInviteAccepter struct {
	mock.Mock
}

func (m *mockInviteAccepter) AcceptInvite(ctx context.Context, accessToken, ws string) (*apiclient.Workspace, error) {
	args := m.Called(ctx, accessToken, ws)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apiclient.Workspace), args.Error(1)
}

func TestInviter_AcceptPending(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("accepts staged invite", func(t *testing.T) {
		t.Parallel()

		api := &mockInviteAccepter{}
		api.On("AcceptInvite", mock.Anything, "access-token", "ws-7").
			Return(&apiclient.Workspace{ID: "ws-7", Name: "Seven"}, nil).Once()

		workspace.NewInviter(api, nil).AcceptPending(ctx, authenticatedSession(), "ws-7")
		api.AssertExpectations(t)
	})

	t.Run("no pending workspace is a no-op", func(t *testing.T) {
		t.Parallel()

		api := &mockInviteAccepter{}
		workspace.NewInviter(api, nil).AcceptPending(ctx, authenticatedSession(), "")
		api.AssertNotCalled(t, "AcceptInvite", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unauthenticated session is a no-op", func(t *testing.T) {
		t.Parallel()

		api := &mockInviteAccepter{}
		workspace.NewInviter(api, nil).AcceptPending(ctx, nil, "ws-7")
		api.AssertNotCalled(t, "AcceptInvite", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("acceptance failure does not panic or propagate", func(t *testing.T) {
		t.Parallel()

		api := &mockInviteAccepter{}
		api.On("AcceptInvite", mock.Anything, "access-token", "ws-7").
			Return(nil, errors.New("invite expired")).Once()

		workspace.NewInviter(api, nil).AcceptPending(ctx, authenticatedSession(), "ws-7")
		api.AssertExpectations(t)
	})
}
