package worker

import (
	"context"
	"errors"
	"time"

	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	stalePendingSweepInterval = time.Minute
	stalePendingSweepLimit    = 100
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
	orderCfg config.OrderConfig
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, orderCfg config.OrderConfig, consumer *Consumer) (*Service, error) {
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
		orderCfg: orderCfg,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.OrderService != nil && s.orderCfg.PendingTimeoutMinutes > 0 {
		go s.runStalePendingSweep(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runStalePendingSweep 周期兜底：超时未支付的 pending 订单自动取消。
// 延迟投递的取消任务丢失时由本循环补偿。
func (s *Service) runStalePendingSweep(ctx context.Context) {
	timeout := time.Duration(s.orderCfg.PendingTimeoutMinutes) * time.Minute
	runOnce := func() {
		ids, err := s.consumer.OrderService.ListStalePendingIDs(timeout, stalePendingSweepLimit)
		if err != nil {
			logger.Warnw("worker_stale_pending_list_failed", "error", err)
			return
		}
		for _, id := range ids {
			if _, err := s.consumer.OrderService.CancelStaleOrder(id); err != nil {
				logger.Warnw("worker_stale_pending_cancel_failed", "order_id", id, "error", err)
			}
		}
	}
	runOnce()

	ticker := time.NewTicker(stalePendingSweepInterval)
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
