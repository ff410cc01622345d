// Package cli is the command-line driving adapter. It parses a command and
// its flags, calls the application services and renders the result as text
// or JSON.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"fasting/internal/app"
	"fasting/internal/domain"

	"go.uber.org/zap"
)

// ErrUsage marks errors caused by a malformed command line.
var ErrUsage = errors.New("usage")

// Ticker runs periodic jobs for the watch command.
type Ticker interface {
	Every(interval time.Duration, job func()) app.JobID
	Cancel(id app.JobID)
}

// App routes commands to application services.
type App struct {
	fasting   *app.FastingService
	weight    *app.WeightService
	charts    *app.ChartsService
	reminders *app.ReminderService

	out    io.Writer
	errOut io.Writer
	log    *zap.Logger
	loc    *time.Location
	json   bool

	ticker  Ticker
	tick    time.Duration
	refresh time.Duration
}

// New creates an App wired to the given application services.
func New(fs *app.FastingService, ws *app.WeightService, cs *app.ChartsService, rs *app.ReminderService, out, errOut io.Writer, log *zap.Logger) *App {
	return &App{
		fasting:   fs,
		weight:    ws,
		charts:    cs,
		reminders: rs,
		out:       out,
		errOut:    errOut,
		log:       log,
		loc:       time.Local,
		tick:      time.Second,
		refresh:   30 * time.Second,
	}
}

// WithJSON switches output to JSON.
func (a *App) WithJSON(on bool) *App {
	a.json = on
	return a
}

// WithLocation sets the time zone used to print instants.
func (a *App) WithLocation(loc *time.Location) *App {
	a.loc = loc
	return a
}

// WithWatch enables the watch command.
func (a *App) WithWatch(t Ticker, tick, refresh time.Duration) *App {
	a.ticker, a.tick, a.refresh = t, tick, refresh
	return a
}

// Run executes the command in args, args[0] being the command name.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return usagef("missing command")
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "start":
		return a.start(ctx, rest)
	case "end":
		return a.end(ctx, rest)
	case "status":
		return a.status(ctx, rest)
	case "history":
		return a.history(ctx, rest)
	case "delete":
		return a.deleteFast(ctx, rest)
	case "stats":
		return a.stats(ctx, rest)
	case "chart":
		return a.chart(ctx, rest)
	case "plan":
		return a.plan(ctx, rest)
	case "weight":
		return a.weightCmd(ctx, rest)
	case "profile":
		return a.profile(ctx, rest)
	case "watch":
		return a.watch(ctx, rest)
	case "help", "-h", "-help", "--help":
		a.usage()
		return nil
	}
	a.usage()
	return usagef("unknown command %q", cmd)
}

// ExitCode maps an error returned by Run to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidWeight),
		errors.Is(err, domain.ErrInvalidUnit):
		return 2
	default:
		return 1
	}
}

const usageText = `usage: fasting [-config file] [-json] <command> [args]

fasting:
  start [-hours H | -days D | -plan]   start a fast (default: profile goal)
  end [-discard]                       end the current fast
  status                               show the current fast
  history [-limit N]                   list recorded fasts
  delete <id>                          delete a recorded fast
  stats                                summary statistics
  chart [-timeframe week|month|year] [-unit kg|lbs]
  plan [show | set <weekday> <hours>]  weekly fasting plan
  watch                                publish status and reminders until interrupted

weight:
  weight add [-unit kg|lbs] <value>
  weight list [-limit N]
  weight delete <id>
  weight undo
  weight predict

profile:
  profile [show]
  profile set [-name N] [-target W] [-unit kg|lbs] [-goal H]
`

func (a *App) usage() {
	fmt.Fprint(a.errOut, usageText)
}

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// flags creates a flag set whose parse errors are usage errors.
func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// visited reports which flags were given explicitly.
func visited(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}
