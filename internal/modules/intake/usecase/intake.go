package usecase

import (
	"context"

	"lockin/internal/modules/intake/domain"
	"lockin/internal/modules/intake/dto"
	intakein "lockin/internal/modules/intake/port/in"
	"lockin/internal/modules/intake/service"
)

type Interactor struct {
	svc *service.IntakeService
}

func NewInteractor(svc *service.IntakeService) intakein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Save(ctx context.Context, input dto.SaveInput) (dto.IntakeOutput, error) {
	kind, err := domain.ParseFlowKind(input.FlowKind)
	if err != nil {
		return dto.IntakeOutput{}, err
	}
	answers := make([]domain.Answer, 0, len(input.Answers))
	for _, a := range input.Answers {
		answers = append(answers, domain.Answer{Key: a.Key, Value: a.Value})
	}
	record, err := i.svc.Save(ctx, kind, answers)
	if err != nil {
		return dto.IntakeOutput{}, err
	}
	return toOutput(record), nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.IntakeOutput, error) {
	record, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.IntakeOutput{}, err
	}
	return toOutput(record), nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.IntakeOutput, error) {
	records, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IntakeOutput, 0, len(records))
	for _, r := range records {
		out = append(out, toOutput(r))
	}
	return out, nil
}

func toOutput(r domain.Record) dto.IntakeOutput {
	answers := make([]dto.AnswerInput, 0, len(r.Answers))
	for _, a := range r.Answers {
		answers = append(answers, dto.AnswerInput{Key: a.Key, Value: a.Value})
	}
	return dto.IntakeOutput{ID: r.ID, CreatedAt: r.CreatedAt, FlowKind: string(r.FlowKind), Intent: r.Intent(), Answers: answers}
}
