package scheduler

import (
	"time"

	"github.com/mixtales/mixtales-backend/internal/app/repository"
	"github.com/mixtales/mixtales-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// OrderScheduler cancels pending orders whose payment never arrived.
type OrderScheduler struct {
	cron          *cron.Cron
	orderRepo     repository.OrderRepository
	pendingExpiry time.Duration
}

func NewOrderScheduler(orderRepo repository.OrderRepository, pendingExpiry time.Duration) *OrderScheduler {
	return &OrderScheduler{
		cron:          cron.New(),
		orderRepo:     orderRepo,
		pendingExpiry: pendingExpiry,
	}
}

// Start schedules the stale-order sweep every 15 minutes.
func (s *OrderScheduler) Start() error {
	_, err := s.cron.AddFunc("*/15 * * * *", func() {
		cutoff := time.Now().Add(-s.pendingExpiry)

		logger.Info("Starting stale order sweep", map[string]interface{}{
			"cutoff": cutoff,
		})

		cancelled, err := s.orderRepo.CancelStalePending(cutoff)
		if err != nil {
			logger.Error("Failed to cancel stale orders", err)
			return
		}

		if cancelled > 0 {
			logger.Info("Stale orders cancelled", map[string]interface{}{
				"count": cancelled,
			})
		}
	})

	if err != nil {
		logger.Error("Failed to add cron job for stale order sweep", err)
		return err
	}

	s.cron.Start()
	logger.Info("Order scheduler started successfully (every 15 minutes)", nil)

	return nil
}

// Stop halts the scheduler.
func (s *OrderScheduler) Stop() {
	logger.Info("Stopping order scheduler...", nil)
	s.cron.Stop()
	logger.Info("Order scheduler stopped", nil)
}
