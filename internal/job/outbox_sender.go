package job

import (
	"context"
	"time"

	"eaglebank/internal/config"
	"eaglebank/internal/infrastructure/mq"
	"eaglebank/internal/model"
	"eaglebank/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OutboxSender drains pending outbox rows to Kafka. Rows are written inside
// the transaction-posting commit, so everything it publishes corresponds to
// a ledger row that actually exists.
type OutboxSender struct {
	outboxRepo *repository.OutboxRepository
	maxRetry   int
	interval   time.Duration
	batchSize  int
	logger     *zap.Logger
}

func NewOutboxSender(db *gorm.DB, cfg *config.Config, logger *zap.Logger) *OutboxSender {
	return &OutboxSender{
		outboxRepo: repository.NewOutboxRepository(db),
		maxRetry:   cfg.Business.OutboxMaxRetry,
		interval:   100 * time.Millisecond,
		batchSize:  100,
		logger:     logger,
	}
}

func (s *OutboxSender) Start(ctx context.Context) {
	s.logger.Info("outbox sender started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("outbox sender stopped")
			return
		case <-ticker.C:
			s.processPendingMessages(ctx)
		}
	}
}

func (s *OutboxSender) processPendingMessages(ctx context.Context) {
	messages, err := s.outboxRepo.GetPendingMessages(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("outbox query failed", zap.Error(err))
		return
	}

	for _, msg := range messages {
		s.sendMessage(ctx, msg)
	}
}

func (s *OutboxSender) sendMessage(ctx context.Context, msg *model.OutboxMessage) {
	if err := mq.SendMessage(msg.Topic, msg.MessageKey, msg.Payload); err != nil {
		s.logger.Warn("outbox publish failed",
			zap.Int64("message_id", msg.ID),
			zap.String("topic", msg.Topic),
			zap.Int("retry_count", msg.RetryCount),
			zap.Error(err))

		if msg.RetryCount+1 >= s.maxRetry {
			if err := s.outboxRepo.MarkAsFailed(ctx, msg.ID); err != nil {
				s.logger.Error("outbox mark-failed failed", zap.Int64("message_id", msg.ID), zap.Error(err))
			}
			return
		}
		if err := s.outboxRepo.IncrementRetryCount(ctx, msg.ID); err != nil {
			s.logger.Error("outbox retry bump failed", zap.Int64("message_id", msg.ID), zap.Error(err))
		}
		return
	}

	if err := s.outboxRepo.UpdateStatus(ctx, msg.ID, model.OutboxStatusSent); err != nil {
		s.logger.Error("outbox status update failed", zap.Int64("message_id", msg.ID), zap.Error(err))
	}
}
