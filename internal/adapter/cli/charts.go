package cli

import (
	"context"
	"fmt"
	"io"

	"fasting/internal/domain"
)

func (a *App) stats(ctx context.Context, args []string) error {
	if err := parse(a.flags("stats"), args); err != nil {
		return err
	}
	s, err := a.charts.Summary(ctx)
	if err != nil {
		return err
	}
	return a.emit(s, func(w io.Writer) error {
		t := newTable(w)
		fmt.Fprintf(t, "Total fasts\t%d\n", s.TotalFasts)
		fmt.Fprintf(t, "Completed\t%d\n", s.CompletedCount)
		fmt.Fprintf(t, "Average\t%.1fh\n", s.AverageHours)
		return t.Flush()
	})
}

func (a *App) chart(ctx context.Context, args []string) error {
	fs := a.flags("chart")
	tfFlag := fs.String("timeframe", string(domain.Week), "week, month or year")
	unitFlag := fs.String("unit", "", "kg or lbs (default: profile unit)")
	if err := parse(fs, args); err != nil {
		return err
	}
	tf, err := domain.ParseTimeframe(*tfFlag)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	var unit domain.Unit
	if *unitFlag != "" {
		if unit, err = domain.ParseUnit(*unitFlag); err != nil {
			return err
		}
	} else {
		p, err := a.weight.Profile(ctx)
		if err != nil {
			return err
		}
		unit = p.WeightUnit
	}

	points, err := a.charts.GetDaily(ctx, tf.Days(), unit)
	if err != nil {
		return err
	}
	return a.emit(points, func(w io.Writer) error {
		t := newTable(w)
		fmt.Fprintln(t, "DAY\tFASTING\tWEIGHT")
		for _, p := range points {
			wv := "-"
			if p.Weight != nil {
				wv = fmtWeight(p.Weight.Value, p.Weight.Unit)
			}
			fmt.Fprintf(t, "%s\t%.1fh\t%s\n", p.Day, p.FastingHours, wv)
		}
		return t.Flush()
	})
}
