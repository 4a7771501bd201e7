package usecase

import (
	"context"

	"lockin/internal/modules/shield/domain"
	"lockin/internal/modules/shield/dto"
	shieldin "lockin/internal/modules/shield/port/in"
	shieldout "lockin/internal/modules/shield/port/out"
)

type Interactor struct {
	sessions shieldout.SessionControl
}

func NewInteractor(sessions shieldout.SessionControl) shieldin.Usecase {
	return &Interactor{sessions: sessions}
}

// Check reports the verdict for a link. Blocked is only set while a session
// is active; the matched rule is reported either way.
func (i *Interactor) Check(ctx context.Context, rawURL string) (dto.CheckOutput, error) {
	verdict, err := domain.Check(rawURL)
	if err != nil {
		return dto.CheckOutput{}, err
	}
	_, active := i.sessions.ActiveSessionID(ctx)
	out := dto.CheckOutput{
		URL:     rawURL,
		Host:    verdict.Host,
		Rule:    verdict.Rule,
		Active:  active,
		Blocked: active && verdict.Blocked,
	}
	if out.Blocked {
		out.Message = domain.BlockedMessage
	}
	return out, nil
}

func (i *Interactor) EmergencyExit(ctx context.Context) dto.ExitOutput {
	id, ended := i.sessions.EndEarly(ctx)
	if !ended {
		return dto.ExitOutput{}
	}
	return dto.ExitOutput{Ended: true, SessionID: id, Message: domain.ExitMessage}
}
