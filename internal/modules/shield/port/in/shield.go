package in

import (
	"context"

	"lockin/internal/modules/shield/dto"
)

type Usecase interface {
	Check(ctx context.Context, rawURL string) (dto.CheckOutput, error)
	EmergencyExit(ctx context.Context) dto.ExitOutput
}
