package in

import (
	"context"

	"lockin/internal/modules/shield/dto"
	shieldin "lockin/internal/modules/shield/port/in"
)

type CLIHandler struct {
	usecase shieldin.Usecase
}

func NewCLIHandler(usecase shieldin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Check(ctx context.Context, rawURL string) (dto.CheckOutput, error) {
	return h.usecase.Check(ctx, rawURL)
}

func (h CLIHandler) EmergencyExit(ctx context.Context) dto.ExitOutput {
	return h.usecase.EmergencyExit(ctx)
}
