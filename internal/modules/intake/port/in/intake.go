package in

import (
	"context"

	"lockin/internal/modules/intake/dto"
)

type Usecase interface {
	Save(ctx context.Context, input dto.SaveInput) (dto.IntakeOutput, error)
	Get(ctx context.Context, id string) (dto.IntakeOutput, error)
	List(ctx context.Context) ([]dto.IntakeOutput, error)
}
