package sweeper

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sampleloop/inventory-service/internal/hold"
)

// Sweeper periodically expires overdue holds so reserved stock returns to
// availability without waiting for someone to touch the hold.
type Sweeper struct {
	cron   *cron.Cron
	uc     hold.UseCase
	spec   string
	logger *zap.Logger
}

func NewSweeper(spec string, uc hold.UseCase, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		cron:   cron.New(),
		uc:     uc,
		spec:   spec,
		logger: logger,
	}
}

func (s *Sweeper) Start() {
	s.logger.Info("starting hold expiry sweeper", zap.String("spec", s.spec))
	if _, err := s.cron.AddFunc(s.spec, s.sweep); err != nil {
		s.logger.Error("failed to schedule hold expiry sweep", zap.Error(err))
		return
	}
	s.cron.Start()
}

func (s *Sweeper) Stop() {
	s.logger.Info("stopping hold expiry sweeper")
	s.cron.Stop()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	swept, err := s.uc.ExpireOverdue(ctx)
	if err != nil {
		s.logger.Error("hold expiry sweep failed", zap.Error(err))
		return
	}
	if swept > 0 {
		s.logger.Info("expired overdue holds", zap.Int("count", swept))
	}
}
