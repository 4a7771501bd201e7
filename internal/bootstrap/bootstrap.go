package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	intakeinadapter "lockin/internal/modules/intake/adapter/in"
	intakeoutadapter "lockin/internal/modules/intake/adapter/out"
	intakeservice "lockin/internal/modules/intake/service"
	intakeusecase "lockin/internal/modules/intake/usecase"
	journalinadapter "lockin/internal/modules/journal/adapter/in"
	journaloutadapter "lockin/internal/modules/journal/adapter/out"
	journalservice "lockin/internal/modules/journal/service"
	journalusecase "lockin/internal/modules/journal/usecase"
	sessioninadapter "lockin/internal/modules/session/adapter/in"
	sessionoutadapter "lockin/internal/modules/session/adapter/out"
	sessionout "lockin/internal/modules/session/port/out"
	sessionservice "lockin/internal/modules/session/service"
	sessionusecase "lockin/internal/modules/session/usecase"
	shieldinadapter "lockin/internal/modules/shield/adapter/in"
	shieldoutadapter "lockin/internal/modules/shield/adapter/out"
	shieldusecase "lockin/internal/modules/shield/usecase"
	"lockin/internal/platform/clock"
	"lockin/internal/platform/config"
	"lockin/internal/platform/id"
	"lockin/internal/platform/logging"
	"lockin/internal/platform/safestore"
	uiapp "lockin/internal/ui/app"
)

type App struct {
	SessionCLI sessioninadapter.CLIHandler
	JournalCLI journalinadapter.CLIHandler
	IntakeCLI  intakeinadapter.CLIHandler
	ShieldCLI  shieldinadapter.CLIHandler

	bus  *sessionservice.Bus
	logs *journaloutadapter.SQLiteLogStore
}

// Options carries the per-observer pieces of the wiring.
type Options struct {
	// Navigator is told when a session finishes naturally. Nil means the
	// observer handles completion from the Tick result itself.
	Navigator sessionout.Navigator
	// Hub replaces the transport with an in-process hub endpoint. Used when
	// several Apps share one process.
	Hub *sessionoutadapter.BroadcastHub
}

func New(cfg config.Config, logger *slog.Logger, opts Options) (*App, error) {
	logger = logging.OrDiscard(logger)
	clk := clock.SystemClock{}

	store := safestore.New(cfg.DataDir, logger)
	slot := sessionoutadapter.NewSafeStoreSlot(store, cfg.Variant.SessionKey, logger)

	var transport sessionout.ChangeTransport
	switch {
	case opts.Hub != nil:
		transport = opts.Hub.Endpoint()
	case cfg.Transport == config.TransportMemory:
		transport = sessionoutadapter.NewBroadcastHub().Endpoint()
	default:
		transport = sessionoutadapter.NewFileTransport(store.Dir(), logger)
	}
	bus := sessionservice.NewBus(slot, transport, logger)

	logs, err := journaloutadapter.NewSQLiteLogStore(cfg.DBPath, cfg.Variant.LogKey)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("open completion log: %w", err)
	}

	intakeUC := intakeusecase.NewInteractor(intakeservice.NewIntakeService(
		clk,
		id.Short{},
		intakeoutadapter.NewSafeStoreIntakes(store, cfg.Variant.IntakeKey),
	))
	journalUC := journalusecase.NewInteractor(
		journalservice.NewJournalService(clk, logs, journaloutadapter.NewVaultNoteWriter(cfg.NotesDir)),
		journaloutadapter.NewIntakeIntentSource(intakeUC),
	)

	recorder := sessionoutadapter.NewJournalRecorder(journalUC)
	engine := sessionservice.NewEngine(clk, id.UUID{}, slot, bus)
	router := sessionservice.NewRouter(engine, recorder, opts.Navigator, logger)
	sessionUC := sessionusecase.NewInteractor(engine, router, recorder, cfg.DefaultLengthMinutes, logger)

	shieldUC := shieldusecase.NewInteractor(shieldoutadapter.NewSessionControl(sessionUC))

	return &App{
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		JournalCLI: journalinadapter.NewCLIHandler(journalUC),
		IntakeCLI:  intakeinadapter.NewCLIHandler(intakeUC),
		ShieldCLI:  shieldinadapter.NewCLIHandler(shieldUC),
		bus:        bus,
		logs:       logs,
	}, nil
}

// Close detaches the bus from its transport and closes the completion log.
func (a *App) Close() error {
	a.bus.Close()
	return a.logs.Close()
}

func RunTUI(app *App, interval time.Duration) error {
	model := uiapp.NewModel(app.SessionCLI, app.JournalCLI, app.ShieldCLI, interval)
	defer model.Close()
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
