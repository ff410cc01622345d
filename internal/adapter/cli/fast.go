package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"fasting/internal/app"
	"fasting/internal/domain"
)

type startResult struct {
	Fast      *domain.FastingSession `json:"fast"`
	TargetEnd time.Time              `json:"targetEnd"`
	Capped    bool                   `json:"capped,omitempty"`
}

func (a *App) start(ctx context.Context, args []string) error {
	fs := a.flags("start")
	hoursFlag := fs.Float64("hours", 0, "target duration in hours")
	daysFlag := fs.Float64("days", 0, "target duration in days, at most 30")
	planFlag := fs.Bool("plan", false, "use today's target from the weekly plan")
	if err := parse(fs, args); err != nil {
		return err
	}
	set := visited(fs)
	if len(set) > 1 {
		return usagef("choose one of -hours, -days or -plan")
	}

	var (
		fast   *domain.FastingSession
		capped bool
		err    error
	)
	switch {
	case set["plan"] && *planFlag:
		fast, err = a.fasting.StartPlanned(ctx)
	case set["days"]:
		var h float64
		h, capped, err = app.HoursFromDays(*daysFlag)
		if err != nil {
			return err
		}
		fast, err = a.fasting.Start(ctx, h)
	case set["hours"]:
		fast, err = a.fasting.Start(ctx, *hoursFlag)
	default:
		p, perr := a.weight.Profile(ctx)
		if perr != nil {
			return perr
		}
		fast, err = a.fasting.Start(ctx, p.FastingGoal)
	}
	if err != nil {
		return err
	}

	res := startResult{Fast: fast, TargetEnd: domain.TargetEnd(fast.StartTime, fast.TargetHours), Capped: capped}
	return a.emit(res, func(w io.Writer) error {
		if capped {
			fmt.Fprintf(w, "Target capped at %d hours.\n", domain.MaxTargetHours)
		}
		fmt.Fprintf(w, "Fast started: %s target\n", hours(fast.TargetHours))
		t := newTable(w)
		fmt.Fprintf(t, "Started\t%s\n", a.clockTime(fast.StartTime))
		fmt.Fprintf(t, "Goal\t%s\n", a.clockTime(res.TargetEnd))
		return t.Flush()
	})
}

func (a *App) end(ctx context.Context, args []string) error {
	fs := a.flags("end")
	discard := fs.Bool("discard", false, "do not record the fast in history")
	if err := parse(fs, args); err != nil {
		return err
	}

	done, err := a.fasting.End(ctx, !*discard)
	if err != nil {
		return err
	}
	return a.emit(done, func(w io.Writer) error {
		d, _ := done.Duration()
		verb := "ended"
		if *discard {
			verb = "discarded"
		}
		outcome := "target not reached"
		if done.MetTarget() {
			outcome = "target met"
		}
		_, err := fmt.Fprintf(w, "Fast %s after %s (%s target, %s).\n", verb, domain.FormatHoursMinutes(d), hours(done.TargetHours), outcome)
		return err
	})
}

type statusResult struct {
	Active bool `json:"active"`
	*app.FastStatus
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

func (a *App) status(ctx context.Context, args []string) error {
	if err := parse(a.flags("status"), args); err != nil {
		return err
	}
	st, err := a.fasting.Status(ctx)
	if err != nil {
		return err
	}
	if st == nil {
		return a.emit(statusResult{}, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, "No active fast.")
			return err
		})
	}

	n := domain.StatusNotification(st.Session, st.Clock)
	res := statusResult{Active: true, FastStatus: st, Title: n.Title, Body: n.Body}
	return a.emit(res, func(w io.Writer) error {
		c := st.Clock
		fmt.Fprintln(w, n.Title)
		t := newTable(w)
		fmt.Fprintf(t, "Elapsed\t%s\n", domain.FormatDuration(c.Elapsed, domain.FormatOptions{ShowDays: true}))
		if c.IsOvertime() {
			fmt.Fprintf(t, "Overtime\t%s\n", domain.FormatClock(c))
		} else {
			fmt.Fprintf(t, "Remaining\t%s\n", domain.FormatClock(c))
		}
		fmt.Fprintf(t, "Progress\t%.0f%%\n", c.Progress*100)
		fmt.Fprintf(t, "Started\t%s\n", a.clockTime(st.Session.StartTime))
		fmt.Fprintf(t, "Goal\t%s (%s)\n", a.clockTime(st.TargetEnd), hours(st.Session.TargetHours))
		return t.Flush()
	})
}

func (a *App) history(ctx context.Context, args []string) error {
	fs := a.flags("history")
	limit := fs.Int("limit", 0, "show at most N fasts, 0 for all")
	if err := parse(fs, args); err != nil {
		return err
	}
	items, err := a.fasting.History(ctx)
	if err != nil {
		return err
	}
	if *limit > 0 && len(items) > *limit {
		items = items[:*limit]
	}
	if items == nil {
		items = []domain.FastingSession{}
	}

	return a.emit(items, func(w io.Writer) error {
		if len(items) == 0 {
			_, err := fmt.Fprintln(w, "No fasts recorded yet.")
			return err
		}
		t := newTable(w)
		fmt.Fprintln(t, "ID\tSTARTED\tDURATION\tTARGET\tSTATUS")
		for _, f := range items {
			d, _ := f.Duration()
			status := "incomplete"
			if f.MetTarget() {
				status = "completed"
			}
			fmt.Fprintf(t, "%s\t%s\t%s\t%s\t%s\n", f.ID, a.clockTime(f.StartTime), domain.FormatHoursMinutes(d), hours(f.TargetHours), status)
		}
		return t.Flush()
	})
}

func (a *App) deleteFast(ctx context.Context, args []string) error {
	fs := a.flags("delete")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("delete takes exactly one fast id")
	}
	id := fs.Arg(0)
	ok, err := a.fasting.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no fast with id %q", id)
	}
	return a.emit(map[string]any{"deleted": id}, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Deleted fast %s.\n", id)
		return err
	})
}

func (a *App) plan(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	var (
		p   domain.FastingPlan
		err error
	)
	switch sub {
	case "show":
		if len(args) != 0 {
			return usagef("plan show takes no arguments")
		}
		p, err = a.fasting.Plan(ctx)
	case "set":
		if len(args) != 2 {
			return usagef("plan set <weekday> <hours>")
		}
		day, perr := parseWeekday(args[0])
		if perr != nil {
			return perr
		}
		h, perr := strconv.ParseFloat(args[1], 64)
		if perr != nil {
			return usagef("invalid hours %q", args[1])
		}
		p, err = a.fasting.SetPlanDay(ctx, day, h)
	default:
		return usagef("unknown plan command %q", sub)
	}
	if err != nil {
		return err
	}

	return a.emit(p, func(w io.Writer) error {
		t := newTable(w)
		for _, d := range weekOrder {
			fmt.Fprintf(t, "%s\t%s\n", d, hours(p.HoursFor(d)))
		}
		return t.Flush()
	})
}

var weekOrder = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}

// parseWeekday accepts full English weekday names and three-letter prefixes.
func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(s)
	for _, d := range weekOrder {
		name := strings.ToLower(d.String())
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return 0, usagef("unknown weekday %q", s)
}
