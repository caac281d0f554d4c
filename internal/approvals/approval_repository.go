package approvals

import (
	"context"
	"time"

	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	TableUsers           = "users"
	TableBenefitRequests = "benefit_requests"
	TableTickets         = "tickets"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *model.ApprovalQueue) error
	FindByReference(ctx context.Context, queueType model.QueueType, table string, refID uint) (*model.ApprovalQueue, error)
	Transition(ctx context.Context, queueType model.QueueType, table string, refID uint, status model.QueueStatus, adminID *uint, notes string) error
}

type approvalRepository struct {
	db *gorm.DB
}

func (r *approvalRepository) WithTx(tx *gorm.DB) Repository {
	return NewRepository(tx)
}

func (r *approvalRepository) Create(ctx context.Context, item *model.ApprovalQueue) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *approvalRepository) FindByReference(ctx context.Context, queueType model.QueueType, table string, refID uint) (*model.ApprovalQueue, error) {
	var item model.ApprovalQueue
	err := r.db.WithContext(ctx).
		Where("queue_type = ? AND reference_table = ? AND reference_id = ?", queueType, table, refID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Transition moves the queue item of a reference to status, creating the item when
// the reference was never queued. The upsert relies on idx_approval_queue_ref.
func (r *approvalRepository) Transition(ctx context.Context, queueType model.QueueType, table string, refID uint, status model.QueueStatus, adminID *uint, notes string) error {
	item := &model.ApprovalQueue{
		QueueType:       queueType,
		ReferenceTable:  table,
		ReferenceID:     refID,
		Status:          status,
		AssignedAdminID: adminID,
		Notes:           notes,
	}
	if status == model.QueueStatusApproved || status == model.QueueStatusRejected {
		now := time.Now()
		item.ResolvedAt = &now
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "queue_type"}, {Name: "reference_table"}, {Name: "reference_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "assigned_admin_id", "notes", "resolved_at", "updated_at"}),
	}).Create(item).Error
}

func NewRepository(db *gorm.DB) Repository {
	return &approvalRepository{db}
}
