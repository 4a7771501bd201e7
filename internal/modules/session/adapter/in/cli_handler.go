package in

import (
	"context"

	"lockin/internal/modules/session/dto"
	sessionin "lockin/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, target string, lengthMinutes int, intakeID, flowKind string) (dto.SessionOutput, error) {
	return h.usecase.Start(ctx, dto.StartInput{Target: target, LengthMinutes: lengthMinutes, IntakeID: intakeID, FlowKind: flowKind})
}

func (h CLIHandler) Pause(ctx context.Context) dto.SessionOutput {
	return h.usecase.Pause(ctx)
}

func (h CLIHandler) Resume(ctx context.Context) dto.SessionOutput {
	return h.usecase.Resume(ctx)
}

func (h CLIHandler) Toggle(ctx context.Context) dto.SessionOutput {
	return h.usecase.Toggle(ctx)
}

// End logs the session as it stands, or only clears the slot when discard is set.
func (h CLIHandler) End(ctx context.Context, discard bool) dto.EndOutput {
	if discard {
		return h.usecase.Discard(ctx)
	}
	return h.usecase.EndEarly(ctx)
}

func (h CLIHandler) Status(ctx context.Context) dto.SessionOutput {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Tick(ctx context.Context) dto.SessionOutput {
	return h.usecase.Tick(ctx)
}

func (h CLIHandler) Watch(ctx context.Context, fn func(dto.SessionOutput)) func() {
	return h.usecase.Watch(ctx, fn)
}
