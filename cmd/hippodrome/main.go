package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/hippodrome/internal/config"
	"github.com/udisondev/hippodrome/internal/db"
	"github.com/udisondev/hippodrome/internal/game/ledger"
	"github.com/udisondev/hippodrome/internal/game/tournament"
)

const ConfigPath = "config/hippodrome.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Конфиг грузим первым, чтобы знать уровень логирования
	cfgPath := ConfigPath
	if p := os.Getenv("HIPPODROME_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("hippodrome starting",
		"log_level", cfg.LogLevel,
		"horses", cfg.Tournament.TotalHorses,
		"rounds", cfg.Tournament.TotalRounds,
		"participants", cfg.Tournament.ParticipantsPerRace)

	var store ledger.Store
	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		store = db.NewRaceResultRepository(database.Pool())
	}

	t := tournament.New(cfg.Tournament, nil, store)
	if err := t.Ledger().Load(ctx); err != nil {
		return fmt.Errorf("loading race history: %w", err)
	}

	if err := t.GenerateRoster(); err != nil {
		return err
	}
	for _, h := range t.State().Horses() {
		slog.Debug("horse", "id", h.ID, "name", h.Name, "color", h.Color, "condition", h.Condition)
	}
	if err := t.GenerateSchedule(); err != nil {
		return err
	}

	finished := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(finished)
		return t.Start(gctx, nil)
	})

	g.Go(func() error {
		observe(gctx, t, cfg.Tournament.UpdateInterval, finished)
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("running tournament: %w", err)
	}

	printResults(t)
	return nil
}

// observe polls the live board the way a UI host would.
func observe(ctx context.Context, t *tournament.Tournament, interval time.Duration, finished <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastRound := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-finished:
			return
		case <-ticker.C:
			round, ok := t.CurrentRound()
			if !ok || !t.Racing() {
				continue
			}
			if round.Number != lastRound {
				lastRound = round.Number
				slog.Info("round started", "round", round.Number, "distance", round.Distance)
			}

			leader, best := int32(0), -1.0
			for id, pos := range t.Positions() {
				if pos > best {
					leader, best = id, pos
				}
			}
			slog.Debug("race progress", "round", round.Number, "leader", leader, "position", best)
		}
	}
}

func printResults(t *tournament.Tournament) {
	for _, r := range t.Results() {
		winner, ok := r.Winner()
		if !ok {
			continue
		}
		slog.Info("round result",
			"run", r.RunID,
			"round", r.RoundNumber,
			"distance", r.Distance,
			"winner", winner.Horse.Name,
			"finish_time", winner.FinishTime,
			"digest", r.Digest)
	}
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
