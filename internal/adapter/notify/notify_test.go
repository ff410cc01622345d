package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"fasting/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/gomail.v2"
)

var goal = domain.Notification{
	Kind:   domain.ReminderGoal,
	FastID: "f1",
	Title:  "Fasting Goal Achieved!",
	Body:   "Congratulations! You've completed your 16h fast.",
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	require.NoError(t, n.Notify(context.Background(), goal))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, goal.Title, entry.Message)
	assert.Equal(t, "fast_completed", entry.ContextMap()["kind"])
	assert.Equal(t, "f1", entry.ContextMap()["fast_id"])
}

type notifierFunc func(ctx context.Context, n domain.Notification) error

func (f notifierFunc) Notify(ctx context.Context, n domain.Notification) error { return f(ctx, n) }

func TestMulti_TriesAllAndJoinsErrors(t *testing.T) {
	errA := errors.New("a down")
	var calls int
	m := Multi{
		notifierFunc(func(context.Context, domain.Notification) error { calls++; return errA }),
		notifierFunc(func(context.Context, domain.Notification) error { calls++; return nil }),
	}

	err := m.Notify(context.Background(), goal)
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, 2, calls)

	assert.NoError(t, Multi{}.Notify(context.Background(), goal))
}

func TestFilter(t *testing.T) {
	var got []domain.ReminderKind
	next := notifierFunc(func(_ context.Context, n domain.Notification) error {
		got = append(got, n.Kind)
		return nil
	})
	f := Filter{Next: next, Kinds: []domain.ReminderKind{domain.ReminderGoal, domain.ReminderHalfway}}

	for _, k := range []domain.ReminderKind{domain.ReminderGoal, domain.ReminderStatus, domain.ReminderHalfway} {
		require.NoError(t, f.Notify(context.Background(), domain.Notification{Kind: k}))
	}
	assert.Equal(t, []domain.ReminderKind{domain.ReminderGoal, domain.ReminderHalfway}, got)
}

func TestMailNotifier(t *testing.T) {
	cfg := MailConfig{From: "tracker@example.com", To: "me@example.com"}
	var (
		from string
		to   []string
		body bytes.Buffer
	)
	sender := gomail.SendFunc(func(f string, t []string, msg io.WriterTo) error {
		from, to = f, t
		_, err := msg.WriteTo(&body)
		return err
	})
	n := newMailNotifierWithSender(cfg, sender)

	require.NoError(t, n.Notify(context.Background(), goal))
	assert.Equal(t, "tracker@example.com", from)
	assert.Equal(t, []string{"me@example.com"}, to)
	assert.Contains(t, body.String(), "Subject: Fasting Goal Achieved!")
	assert.Contains(t, body.String(), "completed your 16h fast")
}

func TestMailNotifier_SendError(t *testing.T) {
	sender := gomail.SendFunc(func(string, []string, io.WriterTo) error { return errors.New("550 rejected") })
	n := newMailNotifierWithSender(MailConfig{From: "a@example.com", To: "b@example.com"}, sender)

	err := n.Notify(context.Background(), goal)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send email")
}

func TestMailNotifier_CancelledContext(t *testing.T) {
	sender := gomail.SendFunc(func(string, []string, io.WriterTo) error {
		t.Fatal("must not send with a cancelled context")
		return nil
	})
	n := newMailNotifierWithSender(MailConfig{}, sender)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Notify(ctx, goal), context.Canceled)
}

func TestLogNotifier_StatusAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	require.NoError(t, n.Notify(context.Background(), domain.Notification{Kind: domain.ReminderStatus, Title: "Fasting in Progress"}))
	assert.Equal(t, 0, logs.Len())
}
