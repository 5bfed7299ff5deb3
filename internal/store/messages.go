package store

import (
	"context"
	"time"

	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/tenant"

	"gorm.io/gorm"
)

type messageRepo struct {
	db *gorm.DB
}

func (r *messageRepo) Create(ctx context.Context, m *models.Message) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *messageRepo) FindByID(ctx context.Context, orgID, id uint) (*models.Message, error) {
	var m models.Message
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *messageRepo) ListReceived(ctx context.Context, orgID, receiverID uint, filter MessageFilter) ([]models.Message, error) {
	q := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Where("receiver_id = ?", receiverID)
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}
	if filter.UnreadOnly {
		q = q.Where("read_at IS NULL")
	}
	var messages []models.Message
	err := q.Order("created_at DESC").Order("id DESC").Find(&messages).Error
	return messages, translate(err)
}

func (r *messageRepo) MarkRead(ctx context.Context, orgID, id, receiverID uint, at time.Time) error {
	return applied(r.db.WithContext(ctx).Model(&models.Message{}).Scopes(tenant.Scope(orgID)).
		Where("id = ? AND receiver_id = ? AND read_at IS NULL", id, receiverID).
		Update("read_at", at))
}
