package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"lockin/internal/bootstrap"
	intakedto "lockin/internal/modules/intake/dto"
	journaldto "lockin/internal/modules/journal/dto"
	sessionoutadapter "lockin/internal/modules/session/adapter/out"
	sessiondto "lockin/internal/modules/session/dto"
	"lockin/internal/platform/config"
	"lockin/internal/platform/logging"
	"lockin/internal/ui/components"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()

	root := &cobra.Command{
		Use:           "lockin",
		Short:         "Focus sessions with a completion log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.String("data-dir", "", "data directory (default ~/.lockin)")
	flags.String("variant", "", "storage flavour: lockin|reactor")
	flags.String("config", "", "config file (default <data-dir>/config.yaml)")
	flags.String("log-level", "", "log level: debug|info|warn|error")
	bindFlags(v, flags, map[string]string{
		"data-dir":  config.KeyDataDir,
		"variant":   config.KeyVariant,
		"config":    config.KeyConfigFile,
		"log-level": config.KeyLogLevel,
	})

	root.AddCommand(newStartCmd(v))
	root.AddCommand(newControlCmd(v, "pause", "Pause the running session"))
	root.AddCommand(newControlCmd(v, "resume", "Resume the paused session"))
	root.AddCommand(newControlCmd(v, "toggle", "Pause or resume the session"))
	root.AddCommand(newEndCmd(v))
	root.AddCommand(newStatusCmd(v))
	root.AddCommand(newWatchCmd(v))
	root.AddCommand(newTUICmd(v))
	root.AddCommand(newReflectCmd(v))
	root.AddCommand(newLogsCmd(v))
	root.AddCommand(newProgressCmd(v))
	root.AddCommand(newIntakeCmd(v))
	root.AddCommand(newShieldCmd(v))
	return root
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

func loadApp(cmd *cobra.Command, v *viper.Viper, opts bootstrap.Options) (*bootstrap.App, config.Config, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, config.Config{}, err
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, config.Config{}, err
	}
	app, err := bootstrap.New(cfg, logger, opts)
	if err != nil {
		return nil, config.Config{}, err
	}
	return app, cfg, nil
}

// withApp runs fn against a freshly wired App and closes it afterwards.
func withApp(v *viper.Viper, fn func(cmd *cobra.Command, app *bootstrap.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, _, err := loadApp(cmd, v, bootstrap.Options{})
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()
		return fn(cmd, app, args)
	}
}

// ─── session ─────────────────────────────────────────────────────────────────

func newStartCmd(v *viper.Viper) *cobra.Command {
	var minutes int
	var intakeID, flow string
	cmd := &cobra.Command{
		Use:   "start <target>",
		Short: "Start a focus session, replacing any current one",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(v, func(cmd *cobra.Command, app *bootstrap.App, args []string) error {
			out, err := app.SessionCLI.Start(cmd.Context(), strings.Join(args, " "), minutes, intakeID, flow)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started %s: %s for %dm\n", out.SessionID, out.Target, out.LengthMinutes)
			return nil
		}),
	}
	cmd.Flags().IntVar(&minutes, "minutes", 0, "session length in minutes (default from config)")
	cmd.Flags().StringVar(&intakeID, "intake", "", "intake id this session came from")
	cmd.Flags().StringVar(&flow, "flow", "", "flow kind: a|b|c|d|e")
	return cmd
}

func newControlCmd(v *viper.Viper, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: withApp(v, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			var out sessiondto.SessionOutput
			switch name {
			case "pause":
				out = app.SessionCLI.Pause(cmd.Context())
			case "resume":
				out = app.SessionCLI.Resume(cmd.Context())
			default:
				out = app.SessionCLI.Toggle(cmd.Context())
			}
			w := cmd.OutOrStdout()
			if !out.Changed {
				_, _ = fmt.Fprintf(w, "%s: nothing to do (%s)\n", name, components.Overlay(out))
				return nil
			}
			_, _ = fmt.Fprintln(w, components.Overlay(out))
			return nil
		}),
	}
}

func newEndCmd(v *viper.Viper) *cobra.Command {
	var discard bool
	cmd := &cobra.Command{
		Use:   "end",
		Short: "End the session early and log it",
		Args:  cobra.NoArgs,
		RunE: withApp(v, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			out := app.SessionCLI.End(cmd.Context(), discard)
			w := cmd.OutOrStdout()
			switch {
			case !out.Ended:
				_, _ = fmt.Fprintln(w, "no active session")
			case discard:
				_, _ = fmt.Fprintf(w, "discarded %s\n", out.SessionID)
			case out.Logged:
				_, _ = fmt.Fprintf(w, "ended %s (logged)\n", out.SessionID)
			default:
				_, _ = fmt.Fprintf(w, "ended %s (log write failed)\n", out.SessionID)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&discard, "discard", false, "clear the session without logging it")
	return cmd
}

func newStatusCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the current session overlay",
		Args:  cobra.NoArgs,
		RunE: withApp(v, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			out := app.SessionCLI.Status(cmd.Context())
			if !out.Active {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), components.Overlay(out))
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s]\n", components.Overlay(out), out.SessionID)
			return nil
		}),
	}
}

func newWatchCmd(v *viper.Viper) *cobra.Command {
	var exitIdle bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the session and run completion when time is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := &lockedWriter{w: cmd.OutOrStdout()}
			app, cfg, err := loadApp(cmd, v, bootstrap.Options{Navigator: sessionoutadapter.NewWriterNavigator(w)})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return watch(cmd.Context(), app, cfg.TickInterval, w, exitIdle)
		},
	}
	cmd.Flags().BoolVar(&exitIdle, "exit-idle", false, "exit once no session is present")
	return cmd
}

// watch prints the overlay on every slot change and ticks the completion
// router until the session finishes naturally or ctx ends.
func watch(ctx context.Context, app *bootstrap.App, interval time.Duration, w io.Writer, exitIdle bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes := make(chan sessiondto.SessionOutput, 1)
	unsubscribe := app.SessionCLI.Watch(ctx, func(out sessiondto.SessionOutput) {
		for {
			select {
			case changes <- out:
				return
			default:
			}
			select {
			case <-changes:
			default:
			}
		}
	})
	defer unsubscribe()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		last := ""
		for {
			select {
			case <-ctx.Done():
				return nil
			case out := <-changes:
				if line := components.Overlay(out); line != last {
					_, _ = fmt.Fprintln(w, line)
					last = line
				}
				if exitIdle && !out.Active {
					cancel()
					return nil
				}
			}
		}
	})
	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if out := app.SessionCLI.Tick(ctx); out.Finished {
				cancel()
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})
	return g.Wait()
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func newTUICmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the lockin terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cfg, err := loadApp(cmd, v, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(app, cfg.TickInterval)
		},
	}
}

// ─── journal ─────────────────────────────────────────────────────────────────

func newReflectCmd(v *viper.Viper) *cobra.Command {
	var input journaldto.ReflectInput
	var percent, xp int
	cmd := &cobra.Command{
		Use:   "reflect --summary <text>",
		Short: "Attach a reflection to a logged session (default: the latest)",
		Args:  cobra.NoArgs,
		RunE: withApp(v, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			if strings.TrimSpace(input.Summary) == "" {
				return fmt.Errorf("--summary is required")
			}
			sessionID, err := resolveSessionID(cmd.Context(), app, input.SessionID)
			if err != nil {
				return err
			}
			input.SessionID = sessionID
			if cmd.Flags().Changed("percent") {
				input.CompletionPercent = &percent
			}
			if cmd.Flags().Changed("xp") {
				input.XPAwarded = &xp
			}
			out, err := app.JournalCLI.Reflect(cmd.Context(), input)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "reflected %s\n", out.SessionID)
			if out.InsightNotes != "" {
				_, _ = fmt.Fprintln(w, out.InsightNotes)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&input.SessionID, "session", "", "session id (default: latest log entry)")
	cmd.Flags().StringVar(&input.Summary, "summary", "", "what got done")
	cmd.Flags().StringVar(&input.DistractionsNoted, "distractions", "", "distractions noticed")
	cmd.Flags().StringVar(&input.NextStep, "next", "", "next step")
	cmd.Flags().IntVar(&percent, "percent", 0, "completion percent 0..100")
	cmd.Flags().IntVar(&xp, "xp", 0, "xp awarded")
	return cmd
}

func newLogsCmd(v *viper.Viper) *cobra.Command {
	logs := &cobra.Command{Use: "logs", Short: "Completion log queries"}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List log entries, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(v, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			entries, err := app.JournalCLI.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(w, "no log entries")
				return nil
			}
			for _, e := range entries {
				reflected := ""
				if e.Reflected {
					reflected = "\treflected"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%dm%s\n", e.SessionID, e.Status, e.Target, e.ActiveMinutes, reflected)
			}
			return nil
		}),
	}
	list.Flags().IntVar(&limit, "limit", 20, "max entries (0 for all)")

	show := &cobra.Command{
		Use:   "show [session-id]",
		Short: "Show one log entry (default: the latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(v, func(cmd *cobra.Command, app *bootstrap.App, args []string) error {
			sessionID, err := resolveSessionID(cmd.Context(), app, firstArg(args))
			if err != nil {
				return err
			}
			e, err := app.JournalCLI.Show(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), e)
			return nil
		}),
	}

	export := &cobra.Command{
		Use:   "export [session-id]",
		Short: "Write a log entry as a markdown note (default: the latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(v, func(cmd *cobra.Command, app *bootstrap.App, args []string) error {
			sessionID, err := resolveSessionID(cmd.Context(), app, firstArg(args))
			if err != nil {
				return err
			}
			out, err := app.JournalCLI.Export(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %s note=%s\n", out.SessionID, out.NotePath)
			return nil
		}),
	}

	logs.AddCommand(list, show, export)
	return logs
}

func newProgressCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show xp, streak and role",
		Args:  cobra.NoArgs,
		RunE: withApp(v, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			p, err := app.JournalCLI.Progress(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "role: %s\nxp: %d\nminutes: %d\nsessions: %d\nstreak: %d days\n", p.Role.Label, p.TotalXP, p.TotalMinutes, p.Sessions, p.StreakDays)
			if p.NextRole != nil {
				_, _ = fmt.Fprintf(w, "next: %s in %d xp\n", p.NextRole.Label, p.XPToNext)
			}
			return nil
		}),
	}
}

func resolveSessionID(ctx context.Context, app *bootstrap.App, sessionID string) (string, error) {
	if id := strings.TrimSpace(sessionID); id != "" {
		return id, nil
	}
	latest, err := app.JournalCLI.List(ctx, 1)
	if err != nil {
		return "", err
	}
	if len(latest) == 0 {
		return "", fmt.Errorf("no log entries yet")
	}
	return latest[0].SessionID, nil
}

func printEntry(w io.Writer, e journaldto.EntryOutput) {
	_, _ = fmt.Fprintf(w, "session: %s\ntarget: %s\nstatus: %s\nstarted: %s\nended: %s\nlength: %dm\nactive: %dm\n",
		e.SessionID, e.Target, e.Status,
		e.StartedAt.Format(time.RFC3339), e.EndedAt.Format(time.RFC3339),
		e.LengthMinutes, e.ActiveMinutes)
	if e.FlowKind != "" {
		_, _ = fmt.Fprintf(w, "flow: %s\n", e.FlowKind)
	}
	if e.IntakeID != "" {
		_, _ = fmt.Fprintf(w, "intake: %s\n", e.IntakeID)
	}
	if !e.Reflected {
		return
	}
	_, _ = fmt.Fprintf(w, "summary: %s\n", e.Summary)
	if e.DistractionsNoted != "" {
		_, _ = fmt.Fprintf(w, "distractions: %s\n", e.DistractionsNoted)
	}
	if e.NextStep != "" {
		_, _ = fmt.Fprintf(w, "next: %s\n", e.NextStep)
	}
	if e.CompletionPercent != nil {
		_, _ = fmt.Fprintf(w, "completion: %d%%\n", *e.CompletionPercent)
	}
	if e.XPAwarded != nil {
		_, _ = fmt.Fprintf(w, "xp: %d\n", *e.XPAwarded)
	}
	if e.InsightNotes != "" {
		_, _ = fmt.Fprintf(w, "insight: %s\n", e.InsightNotes)
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// ─── intake ──────────────────────────────────────────────────────────────────

func newIntakeCmd(v *viper.Viper) *cobra.Command {
	intake := &cobra.Command{Use: "intake", Short: "Pre-session intake answers"}

	var flow string
	var answers []string
	save := &cobra.Command{
		Use:   "save --flow <kind> --answer key=value...",
		Short: "Save an intake",
		Args:  cobra.NoArgs,
		RunE: withApp(v, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			parsed := make([]intakedto.AnswerInput, 0, len(answers))
			for _, raw := range answers {
				key, value, ok := strings.Cut(raw, "=")
				if !ok {
					return fmt.Errorf("--answer must be key=value, got %q", raw)
				}
				parsed = append(parsed, intakedto.AnswerInput{Key: strings.TrimSpace(key), Value: value})
			}
			out, err := app.IntakeCLI.Save(cmd.Context(), flow, parsed)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "intake saved %s flow=%s intent=%q\n", out.ID, out.FlowKind, out.Intent)
			return nil
		}),
	}
	save.Flags().StringVar(&flow, "flow", "", "flow kind: a|b|c|d|e")
	save.Flags().StringArrayVar(&answers, "answer", nil, "answer as key=value (repeatable)")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one intake",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(v, func(cmd *cobra.Command, app *bootstrap.App, args []string) error {
			out, err := app.IntakeCLI.Show(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "id: %s\nflow: %s\ncreated: %s\n", out.ID, out.FlowKind, out.CreatedAt.Format(time.RFC3339))
			for _, a := range out.Answers {
				_, _ = fmt.Fprintf(w, "%s: %s\n", a.Key, a.Value)
			}
			return nil
		}),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List intakes, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(v, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			items, err := app.IntakeCLI.List(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(items) == 0 {
				_, _ = fmt.Fprintln(w, "no intakes")
				return nil
			}
			for _, it := range items {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", it.ID, it.FlowKind, it.Intent)
			}
			return nil
		}),
	}

	intake.AddCommand(save, show, list)
	return intake
}

// ─── shield ──────────────────────────────────────────────────────────────────

func newShieldCmd(v *viper.Viper) *cobra.Command {
	shield := &cobra.Command{Use: "shield", Short: "Distraction shield"}

	check := &cobra.Command{
		Use:   "check <url>",
		Short: "Check whether a link is blocked right now",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(v, func(cmd *cobra.Command, app *bootstrap.App, args []string) error {
			out, err := app.ShieldCLI.Check(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if out.Blocked {
				_, _ = fmt.Fprintf(w, "blocked %s (%s): %s\n", out.Host, out.Rule, out.Message)
				return nil
			}
			_, _ = fmt.Fprintf(w, "allowed %s\n", out.Host)
			return nil
		}),
	}

	exit := &cobra.Command{
		Use:   "exit",
		Short: "Emergency exit: end the session early and log it",
		Args:  cobra.NoArgs,
		RunE: withApp(v, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			out := app.ShieldCLI.EmergencyExit(cmd.Context())
			if !out.Ended {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no active session")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return nil
		}),
	}

	shield.AddCommand(check, exit)
	return shield
}
