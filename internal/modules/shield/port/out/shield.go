package out

import "context"

// SessionControl is the slice of the session module the shield needs.
type SessionControl interface {
	ActiveSessionID(ctx context.Context) (string, bool)
	// EndEarly ends the active session and reports its id.
	EndEarly(ctx context.Context) (string, bool)
}
