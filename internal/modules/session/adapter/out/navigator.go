package out

import (
	"context"
	"fmt"
	"io"

	"lockin/internal/modules/session/domain"
	sessionout "lockin/internal/modules/session/port/out"
)

// WriterNavigator points a line-oriented observer at the reflect command.
type WriterNavigator struct {
	w io.Writer
}

func NewWriterNavigator(w io.Writer) sessionout.Navigator {
	return WriterNavigator{w: w}
}

func (n WriterNavigator) ShowReflection(_ context.Context, session domain.Session) error {
	_, err := fmt.Fprintf(n.w, "session complete: reflect with `lockin reflect --session %s`\n", session.SessionID)
	return err
}

// NavigatorFunc adapts a plain function, used by the TUI to switch views.
type NavigatorFunc func(ctx context.Context, session domain.Session) error

func (f NavigatorFunc) ShowReflection(ctx context.Context, session domain.Session) error {
	return f(ctx, session)
}
