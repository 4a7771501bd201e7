package in

import (
	"context"
	"time"

	"lockin/internal/modules/journal/dto"
	journalin "lockin/internal/modules/journal/port/in"
)

type CLIHandler struct {
	usecase journalin.Usecase
}

func NewCLIHandler(usecase journalin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Reflect(ctx context.Context, input dto.ReflectInput) (dto.EntryOutput, error) {
	return h.usecase.AttachReflection(ctx, input)
}

func (h CLIHandler) List(ctx context.Context, limit int) ([]dto.EntryOutput, error) {
	return h.usecase.List(ctx, limit)
}

func (h CLIHandler) Show(ctx context.Context, sessionID string) (dto.EntryOutput, error) {
	return h.usecase.Get(ctx, sessionID)
}

func (h CLIHandler) Export(ctx context.Context, sessionID string) (dto.ExportOutput, error) {
	return h.usecase.ExportNote(ctx, sessionID)
}

func (h CLIHandler) Progress(ctx context.Context) (dto.ProgressOutput, error) {
	return h.usecase.Progress(ctx, time.Time{})
}
