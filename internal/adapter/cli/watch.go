package cli

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// watch publishes the status of the open fast every tick and keeps the
// reminders armed for it until ctx is cancelled. Storage is re-read every
// refresh so fasts started or ended by other invocations are picked up.
func (a *App) watch(ctx context.Context, args []string) error {
	if err := parse(a.flags("watch"), args); err != nil {
		return err
	}
	if a.ticker == nil {
		return errors.New("watch is not available without a scheduler")
	}

	if err := a.syncReminders(ctx); err != nil {
		return err
	}
	defer a.reminders.Disarm()

	tickID := a.ticker.Every(a.tick, func() { a.publishStatus(ctx) })
	defer a.ticker.Cancel(tickID)
	refreshID := a.ticker.Every(a.refresh, func() {
		if err := a.syncReminders(ctx); err != nil {
			a.log.Warn("refresh reminders", zap.Error(err))
		}
	})
	defer a.ticker.Cancel(refreshID)

	a.log.Info("watching", zap.Duration("tick", a.tick), zap.Duration("refresh", a.refresh))
	<-ctx.Done()
	return nil
}

func (a *App) syncReminders(ctx context.Context) error {
	cur, err := a.fasting.Current(ctx)
	if err != nil {
		return err
	}
	return a.reminders.Sync(cur)
}

func (a *App) publishStatus(ctx context.Context) {
	cur, err := a.fasting.Current(ctx)
	if err != nil {
		a.log.Warn("read current fast", zap.Error(err))
		return
	}
	if cur == nil {
		return
	}
	n, err := a.reminders.PublishStatus(ctx, *cur)
	if err != nil {
		a.log.Warn("publish status", zap.Error(err))
	}
	if a.json {
		_ = writeJSON(a.out, n)
		return
	}
	fmt.Fprintf(a.out, "%s  %s\n", n.Title, n.Body)
}
