package benefits

import (
	"context"

	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Filter struct {
	UserID uint
	Status model.BenefitStatus
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, req *model.BenefitRequest) error
	LockFirst(ctx context.Context, id uint) (*model.BenefitRequest, error)
	Find(ctx context.Context, filter Filter, page common.PageRequest) ([]*model.BenefitRequest, int64, error)
	Updates(ctx context.Context, id uint, columns map[string]interface{}) error
	UserStatus(ctx context.Context, userID uint) (model.UserStatus, error)
}

type benefitRepository struct {
	db *gorm.DB
}

func (r *benefitRepository) WithTx(tx *gorm.DB) Repository {
	return NewRepository(tx)
}

func (r *benefitRepository) Create(ctx context.Context, req *model.BenefitRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *benefitRepository) LockFirst(ctx context.Context, id uint) (*model.BenefitRequest, error) {
	var req model.BenefitRequest
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *benefitRepository) Find(ctx context.Context, filter Filter, page common.PageRequest) ([]*model.BenefitRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.BenefitRequest{})
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []*model.BenefitRequest
	err := q.Order("created_at DESC").Order("id DESC").Offset(page.Offset()).Limit(page.Limit()).Find(&items).Error
	return items, total, err
}

func (r *benefitRepository) Updates(ctx context.Context, id uint, columns map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.BenefitRequest{}).Where("id = ?", id).Updates(columns).Error
}

func (r *benefitRepository) UserStatus(ctx context.Context, userID uint) (model.UserStatus, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Select("status").First(&user, userID).Error; err != nil {
		return "", err
	}
	return user.Status, nil
}

func NewRepository(db *gorm.DB) Repository {
	return &benefitRepository{db}
}
