package idcards

import (
	"context"

	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	First(ctx context.Context, conds ...interface{}) (*model.User, error)
	FindIssued(ctx context.Context, page common.PageRequest) ([]*model.User, int64, error)
	Updates(ctx context.Context, userID uint, columns map[string]interface{}) error
}

type cardRepository struct {
	db *gorm.DB
}

func (r *cardRepository) WithTx(tx *gorm.DB) Repository {
	return NewRepository(tx)
}

func (r *cardRepository) First(ctx context.Context, conds ...interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, conds...).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *cardRepository) FindIssued(ctx context.Context, page common.PageRequest) ([]*model.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("digital_id IS NOT NULL")
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []*model.User
	err := q.Order("id_issued_at DESC").Order("id DESC").Offset(page.Offset()).Limit(page.Limit()).Find(&users).Error
	return users, total, err
}

func (r *cardRepository) Updates(ctx context.Context, userID uint, columns map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(columns).Error
}

func NewRepository(db *gorm.DB) Repository {
	return &cardRepository{db}
}
