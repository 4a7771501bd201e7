package out

import (
	"context"

	intakein "lockin/internal/modules/intake/port/in"
	journalout "lockin/internal/modules/journal/port/out"
)

type IntakeIntentSource struct {
	intakes intakein.Usecase
}

func NewIntakeIntentSource(intakes intakein.Usecase) journalout.IntentSource {
	return IntakeIntentSource{intakes: intakes}
}

func (s IntakeIntentSource) Intent(ctx context.Context, intakeID string) (string, error) {
	record, err := s.intakes.Get(ctx, intakeID)
	if err != nil {
		return "", err
	}
	return record.Intent, nil
}
