package service

import (
	"context"
	"fmt"
	"strings"

	"lockin/internal/modules/intake/domain"
	intakeout "lockin/internal/modules/intake/port/out"
	"lockin/internal/platform/clock"
	apperrors "lockin/internal/platform/errors"
	"lockin/internal/platform/id"
)

type IntakeService struct {
	clock clock.Clock
	ids   id.Generator
	store intakeout.IntakeStore
}

func NewIntakeService(clock clock.Clock, ids id.Generator, store intakeout.IntakeStore) *IntakeService {
	return &IntakeService{clock: clock, ids: ids, store: store}
}

func (s *IntakeService) Save(ctx context.Context, kind domain.FlowKind, answers []domain.Answer) (domain.Record, error) {
	cleaned := make([]domain.Answer, 0, len(answers))
	for _, a := range answers {
		cleaned = append(cleaned, domain.Answer{Key: strings.TrimSpace(a.Key), Value: strings.TrimSpace(a.Value)})
	}
	record := domain.Record{
		ID:        s.ids.New(),
		CreatedAt: s.clock.Now(),
		FlowKind:  kind,
		Answers:   cleaned,
	}
	if err := record.Validate(); err != nil {
		return domain.Record{}, err
	}
	if err := s.store.Prepend(ctx, record); err != nil {
		return domain.Record{}, err
	}
	return record, nil
}

func (s *IntakeService) Get(ctx context.Context, intakeID string) (domain.Record, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return domain.Record{}, err
	}
	intakeID = strings.TrimSpace(intakeID)
	for _, r := range all {
		if r.ID == intakeID {
			return r, nil
		}
	}
	return domain.Record{}, fmt.Errorf("intake %s: %w", intakeID, apperrors.ErrNotFound)
}

func (s *IntakeService) List(ctx context.Context) ([]domain.Record, error) {
	return s.store.All(ctx)
}
