package in

import (
	"context"
	"time"

	"lockin/internal/modules/journal/dto"
)

type Usecase interface {
	Record(ctx context.Context, input dto.RecordInput) (dto.EntryOutput, error)
	Get(ctx context.Context, sessionID string) (dto.EntryOutput, error)
	List(ctx context.Context, limit int) ([]dto.EntryOutput, error)
	AttachReflection(ctx context.Context, input dto.ReflectInput) (dto.EntryOutput, error)
	Progress(ctx context.Context, now time.Time) (dto.ProgressOutput, error)
	ExportNote(ctx context.Context, sessionID string) (dto.ExportOutput, error)
}
