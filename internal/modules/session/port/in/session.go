package in

import (
	"context"

	"lockin/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error)
	Pause(ctx context.Context) dto.SessionOutput
	Resume(ctx context.Context) dto.SessionOutput
	Toggle(ctx context.Context) dto.SessionOutput
	EndEarly(ctx context.Context) dto.EndOutput
	Discard(ctx context.Context) dto.EndOutput
	Status(ctx context.Context) dto.SessionOutput
	Tick(ctx context.Context) dto.SessionOutput
	Watch(ctx context.Context, fn func(dto.SessionOutput)) (unsubscribe func())
}
