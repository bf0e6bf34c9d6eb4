package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"crowdwatch-go/internal/config"
	"crowdwatch-go/internal/crowd"
	"crowdwatch-go/internal/scheduler"
	"crowdwatch-go/internal/services/alerting"
	"crowdwatch-go/internal/services/broadcast"
	"crowdwatch-go/internal/services/buspub"
	"crowdwatch-go/internal/services/messaging"
	"crowdwatch-go/internal/store"
)

// ServiceContainer holds all services
type ServiceContainer struct {
	Config    *config.Config
	Store     *store.Store
	Messaging *messaging.Service
	Broadcast *broadcast.Service
	Bus       *buspub.Service
	Alerting  *alerting.Service
	Estimator *crowd.Estimator
	Scheduler *scheduler.Scheduler
}

// NewServiceContainer wires the full dependency graph. The live-update
// transport is optional: when NATS is unreachable the backend still
// ingests and stores alerts, it just cannot fan them out.
func NewServiceContainer(cfg *config.Config) (*ServiceContainer, error) {
	st, err := store.New(cfg)
	if err != nil {
		return nil, err
	}

	var (
		messagingSvc *messaging.Service
		broadcastSvc *broadcast.Service
		broadcaster  alerting.Broadcaster
	)
	messagingSvc, err = messaging.NewService(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("Live-update transport unavailable, continuing without broadcast")
	} else {
		broadcastSvc = broadcast.NewService(cfg, messagingSvc)
		broadcaster = broadcastSvc
	}

	busSvc := buspub.NewService(cfg)
	alertingSvc := alerting.NewService(cfg, broadcaster, busSvc)

	model := crowd.NewModel(cfg)
	estimator := crowd.NewEstimator(model, st)

	sched, err := scheduler.New(cfg, alertingSvc)
	if err != nil {
		return nil, err
	}

	return &ServiceContainer{
		Config:    cfg,
		Store:     st,
		Messaging: messagingSvc,
		Broadcast: broadcastSvc,
		Bus:       busSvc,
		Alerting:  alertingSvc,
		Estimator: estimator,
		Scheduler: sched,
	}, nil
}

// Shutdown gracefully shuts down all services
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	if sc.Scheduler != nil {
		if err := sc.Scheduler.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("Scheduler shutdown timed out")
		}
	}

	if sc.Messaging != nil {
		if err := sc.Messaging.Shutdown(ctx); err != nil {
			return err
		}
	}

	return nil
}
