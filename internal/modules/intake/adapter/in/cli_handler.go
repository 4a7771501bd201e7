package in

import (
	"context"

	"lockin/internal/modules/intake/dto"
	intakein "lockin/internal/modules/intake/port/in"
)

type CLIHandler struct {
	usecase intakein.Usecase
}

func NewCLIHandler(usecase intakein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Save(ctx context.Context, flowKind string, answers []dto.AnswerInput) (dto.IntakeOutput, error) {
	return h.usecase.Save(ctx, dto.SaveInput{FlowKind: flowKind, Answers: answers})
}

func (h CLIHandler) Show(ctx context.Context, id string) (dto.IntakeOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) List(ctx context.Context) ([]dto.IntakeOutput, error) {
	return h.usecase.List(ctx)
}
