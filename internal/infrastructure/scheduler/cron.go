package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Cron triggers the daily digest at a configured local time.
type Cron struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// New builds a scheduler in the given timezone.
func New(location *time.Location, logger *slog.Logger) *Cron {
	return &Cron{
		cron:   cron.New(cron.WithLocation(location)),
		logger: logger,
	}
}

// ScheduleDaily registers the job at hour:minute every day.
func (c *Cron) ScheduleDaily(hour, minute int, job func()) error {
	expr := fmt.Sprintf("%d %d * * *", minute, hour)
	if _, err := c.cron.AddFunc(expr, job); err != nil {
		return fmt.Errorf("schedule daily digest: %w", err)
	}
	if c.logger != nil {
		c.logger.Info("daily digest scheduled", "time", fmt.Sprintf("%02d:%02d", hour, minute))
	}
	return nil
}

// Start begins the cron loop.
func (c *Cron) Start() {
	c.cron.Start()
}

// Stop halts scheduling; running jobs finish on their own.
func (c *Cron) Stop() {
	c.cron.Stop()
}
