package events

import (
	"context"
	"time"

	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Filter struct {
	Status       model.EventStatus
	StartsAfter  *time.Time
	StartsBefore *time.Time
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *model.Event) error
	CreateAttachments(ctx context.Context, attachments []*model.EventAttachment) error
	First(ctx context.Context, id uint) (*model.Event, error)
	LockFirst(ctx context.Context, id uint) (*model.Event, error)
	Find(ctx context.Context, filter Filter, page common.PageRequest) ([]*model.Event, int64, error)
	Updates(ctx context.Context, id uint, columns map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	CountRegistrations(ctx context.Context, eventID uint) (int64, error)
	CreateRegistration(ctx context.Context, reg *model.EventRegistration) error
}

type eventRepository struct {
	db *gorm.DB
}

func (r *eventRepository) WithTx(tx *gorm.DB) Repository {
	return NewRepository(tx)
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Omit("Attachments").Create(event).Error
}

func (r *eventRepository) CreateAttachments(ctx context.Context, attachments []*model.EventAttachment) error {
	if len(attachments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(attachments).Error
}

func (r *eventRepository) First(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Preload("Attachments").First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) LockFirst(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Attachments").First(&event, id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Find(ctx context.Context, filter Filter, page common.PageRequest) ([]*model.Event, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Event{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.StartsAfter != nil {
		q = q.Where("starts_at >= ?", *filter.StartsAfter)
	}
	if filter.StartsBefore != nil {
		q = q.Where("starts_at < ?", *filter.StartsBefore)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []*model.Event
	err := q.Preload("Attachments").Order("starts_at").Order("id").Offset(page.Offset()).Limit(page.Limit()).Find(&items).Error
	return items, total, err
}

func (r *eventRepository) Updates(ctx context.Context, id uint, columns map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Event{}).Where("id = ?", id).Updates(columns).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("event_id = ?", id).Delete(&model.EventAttachment{}).Error; err != nil {
		return err
	}
	if err := db.Where("event_id = ?", id).Delete(&model.EventRegistration{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Event{}, id).Error
}

func (r *eventRepository) CountRegistrations(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.EventRegistration{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

func (r *eventRepository) CreateRegistration(ctx context.Context, reg *model.EventRegistration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func NewRepository(db *gorm.DB) Repository {
	return &eventRepository{db}
}
