package worker

import (
	"context"
	"errors"
	"time"

	"github.com/storeflow/storeflow/internal/config"
	"github.com/storeflow/storeflow/internal/logger"
	"github.com/storeflow/storeflow/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	orderSweepInterval   = time.Minute
	orderSweepBatchLimit = 200
	sessionPruneInterval = time.Hour
)

// Service is the background queue worker.
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService creates the worker service.
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name returns the service name.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the queue server plus the periodic sweeps. The order sweep
// backstops missed timeout-cancel tasks; the session prune drops expired
// customer sessions.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.OrderService != nil {
		go s.runOrderSweepLoop(ctx)
	}
	if s.consumer != nil && s.consumer.CustomerAuthService != nil {
		go s.runSessionPruneLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the queue server down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runOrderSweepLoop(ctx context.Context) {
	runOnce := func() {
		canceled, err := s.consumer.OrderService.SweepExpiredOrders(time.Now(), orderSweepBatchLimit)
		if err != nil {
			logger.Warnw("worker_order_sweep_failed", "error", err)
			return
		}
		if canceled > 0 {
			logger.Infow("worker_order_sweep_canceled", "count", canceled)
		}
	}
	runOnce()

	ticker := time.NewTicker(orderSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

func (s *Service) runSessionPruneLoop(ctx context.Context) {
	runOnce := func() {
		pruned, err := s.consumer.CustomerAuthService.PruneExpiredSessions(time.Now())
		if err != nil {
			logger.Warnw("worker_session_prune_failed", "error", err)
			return
		}
		if pruned > 0 {
			logger.Infow("worker_sessions_pruned", "count", pruned)
		}
	}
	runOnce()

	ticker := time.NewTicker(sessionPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
