package out

import (
	"context"

	"lockin/internal/modules/session/domain"
)

// SessionSlot is the durable single-record store. Reads and writes never
// fail outward: adapters degrade to memory and log instead.
type SessionSlot interface {
	Key() string
	Read(ctx context.Context) *domain.Session
	Write(ctx context.Context, session *domain.Session)
}

// ChangeTransport carries "this slot may have changed" signals to other
// processes or engine handles sharing the same slot.
type ChangeTransport interface {
	// Announce tells other listeners that key changed. Listeners attached
	// through the same transport value are not called back.
	Announce(ctx context.Context, key string)
	// Listen calls onChange for every foreign change to key until stop is called.
	Listen(key string, onChange func()) (stop func(), err error)
}

// CompletionRecorder writes the terminal outcome of a session to the completion log.
type CompletionRecorder interface {
	RecordOutcome(ctx context.Context, outcome domain.Outcome) error
}

// Navigator moves the user to the reflection view once a session finishes.
type Navigator interface {
	ShowReflection(ctx context.Context, session domain.Session) error
}
