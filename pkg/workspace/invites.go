package workspace

import (
	"context"
	"io"
	"log/slog"

	"github.com/perimetra/console/pkg/apiclient"
	"github.com/perimetra/console/pkg/logger"
	"github.com/perimetra/console/pkg/session"
)

// InviteAccepter is the slice of the product API the inviter needs.
// *apiclient.Client satisfies it.
type InviteAccepter interface {
	AcceptInvite(ctx context.Context, accessToken, workspace string) (*apiclient.Workspace, error)
}

// Inviter accepts a workspace invite the user carried into sign-in.
type Inviter struct {
	api InviteAccepter
	log *slog.Logger
}

// NewInviter creates the invite accepter. A nil logger discards output.
func NewInviter(api InviteAccepter, log *slog.Logger) *Inviter {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Inviter{api: api, log: log}
}

// AcceptPending joins the pending workspace right after sign-in. Acceptance
// failures never fail the sign-in; the user can accept the invite again from
// the console.
func (i *Inviter) AcceptPending(ctx context.Context, sess *session.Session, pending string) {
	if pending == "" || sess == nil || !sess.IsAuthenticated() {
		return
	}

	ws, err := i.api.AcceptInvite(ctx, sess.AccessToken, pending)
	if err != nil {
		i.log.WarnContext(ctx, "failed to accept pending workspace invite",
			logger.Component("workspace"),
			logger.UserID(sess.User.ID),
			logger.WorkspaceID(pending),
			logger.Error(err),
		)
		return
	}

	i.log.InfoContext(ctx, "pending workspace invite accepted",
		logger.Component("workspace"),
		logger.UserID(sess.User.ID),
		logger.WorkspaceID(ws.ID),
	)
}
