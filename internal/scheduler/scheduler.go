package scheduler

import (
	"context"
	"fmt"
	"time"

	"SignalDesk/internal/config"
	"SignalDesk/internal/notifier"
	"SignalDesk/internal/session"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sender delivers proactive messages. *notifier.TelegramNotifier implements it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the periodic quota check and dispatches bot commands to
// the session.
type Scheduler struct {
	Cron     *cron.Cron
	Session  *session.Controller
	Config   *config.Config
	Notifier Sender
	Now      func() time.Time
	Ctx      context.Context
	Log      zerolog.Logger
}

// NewScheduler creates a new Scheduler. sender may be nil.
func NewScheduler(ctx context.Context, sess *session.Controller, cfg *config.Config, sender Sender, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Session:  sess,
		Config:   cfg,
		Notifier: sender,
		Now:      time.Now,
		Ctx:      ctx,
		Log:      log,
	}
}

// RegisterAll registers the quota reset check.
func (s *Scheduler) RegisterAll(checkCron string) error {
	if _, err := s.Cron.AddFunc(checkCron, s.quotaTick); err != nil {
		return fmt.Errorf("register quota check: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) quotaTick() {
	now := s.Now()
	if !s.Session.Tick(now) {
		return
	}
	s.trySend(notifier.FormatCycleRenewed(s.Session.Usage(now)))
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.Error().Err(err).Msg("send notification")
	}
}
