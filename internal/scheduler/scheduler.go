package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"crowdwatch-go/internal/config"
)

// AlertPruner drops aged alert history entries.
type AlertPruner interface {
	PruneOlderThan(hours int) int
}

// Scheduler runs periodic maintenance jobs. Currently one job: alert
// history pruning on the configured cron schedule.
type Scheduler struct {
	cron *cron.Cron
}

func New(cfg *config.Config, pruner AlertPruner) (*Scheduler, error) {
	c := cron.New()

	_, err := c.AddFunc(cfg.PruneSchedule, func() {
		removed := pruner.PruneOlderThan(cfg.AlertRetentionHours)
		log.Debug().
			Int("removed", removed).
			Int("retention_hours", cfg.AlertRetentionHours).
			Msg("Alert prune job finished")
	})
	if err != nil {
		return nil, err
	}

	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("Scheduler started")
}

// Shutdown stops scheduling and waits for a running job to finish or
// the context to expire.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
