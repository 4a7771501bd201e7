package out

import (
	"context"

	"lockin/internal/modules/intake/domain"
)

// IntakeStore holds saved intakes, newest first.
type IntakeStore interface {
	Prepend(ctx context.Context, record domain.Record) error
	All(ctx context.Context) ([]domain.Record, error)
}
