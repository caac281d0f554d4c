package tickets

import (
	"context"

	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Filter struct {
	UserID   uint
	Status   model.TicketStatus
	Priority model.TicketPriority
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, ticket *model.Ticket) error
	LockFirst(ctx context.Context, id uint) (*model.Ticket, error)
	Find(ctx context.Context, filter Filter, page common.PageRequest) ([]*model.Ticket, int64, error)
	Updates(ctx context.Context, id uint, columns map[string]interface{}) error
}

type ticketRepository struct {
	db *gorm.DB
}

func (r *ticketRepository) WithTx(tx *gorm.DB) Repository {
	return NewRepository(tx)
}

func (r *ticketRepository) Create(ctx context.Context, ticket *model.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *ticketRepository) LockFirst(ctx context.Context, id uint) (*model.Ticket, error) {
	var ticket model.Ticket
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&ticket, id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Find(ctx context.Context, filter Filter, page common.PageRequest) ([]*model.Ticket, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Ticket{})
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []*model.Ticket
	err := q.Order("created_at DESC").Order("id DESC").Offset(page.Offset()).Limit(page.Limit()).Find(&items).Error
	return items, total, err
}

func (r *ticketRepository) Updates(ctx context.Context, id uint, columns map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Ticket{}).Where("id = ?", id).Updates(columns).Error
}

func NewRepository(db *gorm.DB) Repository {
	return &ticketRepository{db}
}
