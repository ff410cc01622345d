package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fasting/internal/adapter/cli"
	"fasting/internal/adapter/kv"
	"fasting/internal/adapter/memory"
	"fasting/internal/adapter/notify"
	"fasting/internal/adapter/postgres"
	"fasting/internal/adapter/scheduler"
	"fasting/internal/app"
	"fasting/internal/config"
	"fasting/internal/domain"
	"fasting/internal/logger"

	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("fasting", flag.ContinueOnError)
	configPath := flags.String("config", "", "config file (default $CONFIG_PATH or "+config.DefaultPath+")")
	jsonOut := flags.Bool("json", false, "print results as JSON")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fasting: config:", err)
		return 1
	}
	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fasting: logger:", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStorage, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		log.Error("open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
		return 1
	}
	defer closeStorage()
	log.Debug("storage ready", zap.String("driver", cfg.Storage.Driver))

	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	clock := domain.SystemClock{}
	fastingSvc := app.NewFastingService(repos.fasting, clock, log)
	weightSvc := app.NewWeightService(repos.weights, repos.profiles, clock, log)
	chartsSvc := app.NewChartsService(repos.fasting, repos.weights, clock)
	reminderSvc := app.NewReminderService(sched, buildNotifier(cfg.Notify, log), clock, log)

	a := cli.New(fastingSvc, weightSvc, chartsSvc, reminderSvc, os.Stdout, os.Stderr, log).
		WithJSON(*jsonOut).
		WithWatch(sched, cfg.Watch.Tick, cfg.Watch.Refresh)
	if err := a.Run(ctx, flags.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "fasting:", err)
		return cli.ExitCode(err)
	}
	return 0
}

type repositories struct {
	fasting  domain.FastingRepository
	weights  domain.WeightRepository
	profiles domain.ProfileRepository
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (repositories, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return repositories{}, nil, fmt.Errorf("db open: %w", err)
		}
		return repositories{db, db, db}, func() { _ = db.Close() }, nil

	case config.DriverRedis:
		client, err := kv.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return repositories{}, nil, fmt.Errorf("redis dial: %w", err)
		}
		repo := kv.NewRepository(kv.NewRedisStore(client), cfg.KeyPrefix)
		return repositories{repo, repo, repo}, func() { _ = client.Close() }, nil

	case config.DriverFile:
		repo := kv.NewRepository(kv.NewFileStore(cfg.FilePath), cfg.KeyPrefix)
		return repositories{repo, repo, repo}, func() {}, nil

	default:
		db := memory.New()
		return repositories{db, db, db}, func() {}, nil
	}
}

// buildNotifier logs every notification and mails the reminders, never the
// per-tick status.
func buildNotifier(cfg config.NotifyConfig, log *zap.Logger) domain.Notifier {
	var out notify.Multi
	if cfg.Log {
		out = append(out, notify.NewLogNotifier(log))
	}
	if cfg.SMTP.Enabled {
		mail := notify.NewMailNotifier(notify.MailConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.To,
			UseTLS:   cfg.SMTP.UseTLS,
		})
		out = append(out, notify.Filter{
			Next:  mail,
			Kinds: []domain.ReminderKind{domain.ReminderHalfway, domain.ReminderFatBurning, domain.ReminderGoal},
		})
	}
	return out
}
