package out

import (
	"context"

	sessionin "lockin/internal/modules/session/port/in"
	shieldout "lockin/internal/modules/shield/port/out"
)

type SessionControl struct {
	sessions sessionin.Usecase
}

func NewSessionControl(sessions sessionin.Usecase) shieldout.SessionControl {
	return SessionControl{sessions: sessions}
}

func (c SessionControl) ActiveSessionID(ctx context.Context) (string, bool) {
	status := c.sessions.Status(ctx)
	return status.SessionID, status.Active
}

func (c SessionControl) EndEarly(ctx context.Context) (string, bool) {
	out := c.sessions.EndEarly(ctx)
	return out.SessionID, out.Ended
}
