package cli

import (
	"context"
	"fmt"
	"io"

	"fasting/internal/domain"
)

func (a *App) profile(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	switch sub {
	case "show":
		if len(args) != 0 {
			return usagef("profile show takes no arguments")
		}
		p, err := a.weight.Profile(ctx)
		if err != nil {
			return err
		}
		return a.printProfile(p)
	case "set":
		return a.profileSet(ctx, args)
	}
	return usagef("unknown profile command %q", sub)
}

func (a *App) profileSet(ctx context.Context, args []string) error {
	fs := a.flags("profile set")
	name := fs.String("name", "", "display name")
	target := fs.Float64("target", 0, "target weight")
	unit := fs.String("unit", "", "kg or lbs")
	goal := fs.Float64("goal", 0, "default fasting goal in hours")
	if err := parse(fs, args); err != nil {
		return err
	}
	set := visited(fs)
	if len(set) == 0 {
		return usagef("profile set needs at least one of -name, -target, -unit, -goal")
	}

	p, err := a.weight.Profile(ctx)
	if err != nil {
		return err
	}
	if set["name"] {
		p.Name = *name
	}
	if set["target"] {
		p.TargetWeight = *target
	}
	if set["unit"] {
		u, err := domain.ParseUnit(*unit)
		if err != nil {
			return err
		}
		// Keep the target weight meaning the same when switching units.
		if !set["target"] && u != p.WeightUnit {
			p.TargetWeight = domain.ConvertWeight(p.TargetWeight, p.WeightUnit, u)
		}
		p.WeightUnit = u
	}
	if set["goal"] {
		p.FastingGoal = *goal
	}

	p, err = a.weight.UpdateProfile(ctx, p)
	if err != nil {
		return err
	}
	return a.printProfile(p)
}

func (a *App) printProfile(p domain.UserProfile) error {
	return a.emit(p, func(w io.Writer) error {
		t := newTable(w)
		fmt.Fprintf(t, "Name\t%s\n", p.Name)
		fmt.Fprintf(t, "Target weight\t%s\n", fmtWeight(p.TargetWeight, p.WeightUnit))
		fmt.Fprintf(t, "Fasting goal\t%s\n", hours(p.FastingGoal))
		return t.Flush()
	})
}
