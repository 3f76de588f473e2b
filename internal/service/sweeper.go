package service

import (
	"context"
	"fmt"
	"time"

	"connect-four/internal/config"
	"connect-four/internal/constants"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Sweeper periodically expires challenges nobody accepted within the
// configured TTL. A zero TTL disables it.
type Sweeper struct {
	games     *GameService
	ttl       time.Duration
	interval  time.Duration
	scheduler gocron.Scheduler
	now       func() time.Time
	logger    zerolog.Logger
}

func NewSweeper(games *GameService, cfg *config.Config, logger zerolog.Logger) *Sweeper {
	return &Sweeper{
		games:    games,
		ttl:      cfg.ChallengeTTL,
		interval: cfg.SweepInterval,
		now:      time.Now,
		logger:   logger.With().Str("component", "sweeper").Logger(),
	}
}

func (s *Sweeper) Enabled() bool {
	return s.ttl > 0
}

func (s *Sweeper) Start() error {
	if !s.Enabled() {
		s.logger.Info().Msg("challenge expiry disabled")
		return nil
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
			defer cancel()
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error().Err(err).Msg("sweep failed")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("expire-pending-challenges"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	sched.Start()
	s.scheduler = sched
	s.logger.Info().
		Dur("ttl", s.ttl).
		Dur("interval", s.interval).
		Msg("sweeper started")
	return nil
}

func (s *Sweeper) Stop() error {
	if s.scheduler == nil {
		return nil
	}
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	s.scheduler = nil
	s.logger.Info().Msg("sweeper stopped")
	return nil
}

// Sweep runs one expiry pass.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	return s.games.ExpirePending(ctx, s.now().Add(-s.ttl))
}
