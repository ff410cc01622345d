package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"fasting/internal/app"
	"fasting/internal/domain"
)

func (a *App) weightCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usagef("weight needs a command: add, list, delete, undo or predict")
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "add":
		return a.weightAdd(ctx, rest)
	case "list":
		return a.weightList(ctx, rest)
	case "delete":
		return a.weightDelete(ctx, rest)
	case "undo":
		return a.weightUndo(ctx, rest)
	case "predict":
		return a.weightPredict(ctx, rest)
	}
	return usagef("unknown weight command %q", sub)
}

func (a *App) weightAdd(ctx context.Context, args []string) error {
	fs := a.flags("weight add")
	unit := fs.String("unit", "", "kg or lbs (default: profile unit)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("weight add takes exactly one value")
	}
	v, err := strconv.ParseFloat(fs.Arg(0), 64)
	if err != nil {
		return usagef("invalid weight %q", fs.Arg(0))
	}

	var u domain.Unit
	if *unit != "" {
		if u, err = domain.ParseUnit(*unit); err != nil {
			return err
		}
	}
	e, err := a.weight.RecordWeight(ctx, v, u)
	if err != nil {
		return err
	}
	return a.emit(e, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Recorded %s on %s.\n", fmtWeight(e.Weight, e.Unit), a.clockTime(e.Date))
		return err
	})
}

func (a *App) weightList(ctx context.Context, args []string) error {
	fs := a.flags("weight list")
	limit := fs.Int("limit", 14, "show at most N entries, 0 for all")
	if err := parse(fs, args); err != nil {
		return err
	}
	items, err := a.weight.ListRecent(ctx, *limit)
	if err != nil {
		return err
	}
	if items == nil {
		items = []domain.WeightEntry{}
	}
	return a.emit(items, func(w io.Writer) error {
		if len(items) == 0 {
			_, err := fmt.Fprintln(w, "No weight entries yet.")
			return err
		}
		t := newTable(w)
		fmt.Fprintln(t, "ID\tDATE\tWEIGHT")
		for _, e := range items {
			fmt.Fprintf(t, "%s\t%s\t%s\n", e.ID, a.clockTime(e.Date), fmtWeight(e.Weight, e.Unit))
		}
		return t.Flush()
	})
}

func (a *App) weightDelete(ctx context.Context, args []string) error {
	fs := a.flags("weight delete")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("weight delete takes exactly one entry id")
	}
	id := fs.Arg(0)
	if err := a.weight.Delete(ctx, id); err != nil {
		if errors.Is(err, app.ErrEntryNotFound) {
			return fmt.Errorf("%w: %s", err, id)
		}
		return err
	}
	return a.emit(map[string]any{"deleted": id}, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Deleted weight entry %s.\n", id)
		return err
	})
}

func (a *App) weightUndo(ctx context.Context, args []string) error {
	if err := parse(a.flags("weight undo"), args); err != nil {
		return err
	}
	deleted, latest, err := a.weight.UndoLast(ctx)
	if err != nil {
		return err
	}
	res := map[string]any{"deleted": deleted, "entry": latest}
	return a.emit(res, func(w io.Writer) error {
		switch {
		case !deleted:
			fmt.Fprintln(w, "Nothing to undo.")
		case latest == nil:
			fmt.Fprintln(w, "Removed the last weight entry. No entries left.")
		default:
			fmt.Fprintf(w, "Removed the last weight entry. Latest is now %s.\n", fmtWeight(latest.Weight, latest.Unit))
		}
		return nil
	})
}

type predictionResult struct {
	app.Prediction
	Estimate string `json:"estimate,omitempty"`
}

func (a *App) weightPredict(ctx context.Context, args []string) error {
	if err := parse(a.flags("weight predict"), args); err != nil {
		return err
	}
	p, err := a.weight.Prediction(ctx)
	if err != nil {
		return err
	}
	res := predictionResult{Prediction: p, Estimate: describePrediction(p)}
	return a.emit(res, func(w io.Writer) error {
		if p.Entries == 0 {
			_, err := fmt.Fprintln(w, "No weight entries yet.")
			return err
		}
		t := newTable(w)
		fmt.Fprintf(t, "Current\t%s\n", fmtWeight(p.Current, p.Unit))
		fmt.Fprintf(t, "Target\t%s\n", fmtWeight(p.Target, p.Unit))
		if p.Difference > 0 {
			fmt.Fprintf(t, "Weight to lose\t%s\n", fmtWeight(p.Difference, p.Unit))
		} else {
			fmt.Fprintf(t, "Weight to lose\tTarget reached!\n")
		}
		if p.LastChange != nil {
			fmt.Fprintf(t, "Last change\t%+.1f %s\n", *p.LastChange, p.Unit)
		}
		if res.Estimate != "" {
			fmt.Fprintf(t, "Estimated time to target\t%s\n", res.Estimate)
		}
		return t.Flush()
	})
}

// describePrediction renders the days estimate in days, weeks or years.
func describePrediction(p app.Prediction) string {
	if !p.OK {
		if p.Entries >= 2 {
			return "Add more weight entries to see time prediction"
		}
		return ""
	}
	switch d := p.Days; {
	case d == 0:
		return "Target reached!"
	case d == 1:
		return "1 day"
	case d < 30:
		return fmt.Sprintf("%d days", d)
	case d < 365:
		return fmt.Sprintf("%d weeks", int(math.Round(float64(d)/7)))
	default:
		return fmt.Sprintf("%d years", int(math.Round(float64(d)/365)))
	}
}
