package outboxrepo

import (
	"context"
	"time"
	"unicode/utf8"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxLastErrorLength = 1024

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *GormOutboxRepository) Add(ctx context.Context, event order.StatusChangedEvent) error {
	if err := event.EventID.Validate(); err != nil {
		return err
	}
	dto := fromEvent(event, r.now())
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetPending selects with FOR UPDATE SKIP LOCKED, so two relays running at
// once split the backlog instead of publishing it twice.
func (r *GormOutboxRepository) GetPending(ctx context.Context, limit int, olderThan time.Time) ([]ports.OutboxMessage, error) {
	var dtos []OutboxDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("published_at IS NULL AND created_at < ?", olderThan).
		Order("created_at, occurred_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	msgs := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		msg, convErr := toMessage(dto)
		if convErr != nil {
			return nil, convErr
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (r *GormOutboxRepository) MarkPublished(ctx context.Context, eventID kernel.UUID) error {
	result := r.db.WithContext(ctx).Model(&OutboxDTO{}).
		Where("event_id = ?", eventID.Bytes()).
		Update("published_at", r.now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("outbox event", eventID.String())
	}
	return nil
}

func (r *GormOutboxRepository) MarkFailed(ctx context.Context, eventID kernel.UUID, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	msg = truncateUTF8(msg, maxLastErrorLength)

	result := r.db.WithContext(ctx).Model(&OutboxDTO{}).
		Where("event_id = ?", eventID.Bytes()).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": msg,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("outbox event", eventID.String())
	}
	return nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune. last_error
// is a text column and postgres rejects invalid UTF-8.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

// DeletePublished removes records published before the cutoff and reports how
// many were deleted. Pending records are never deleted.
func (r *GormOutboxRepository) DeletePublished(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("published_at IS NOT NULL AND published_at < ?", before).
		Delete(&OutboxDTO{})
	return result.RowsAffected, result.Error
}
