package auth

import (
	"context"

	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
)

type AdminRepository interface {
	WithTx(tx *gorm.DB) AdminRepository
	First(ctx context.Context, conds ...interface{}) (*model.Admin, error)
	Create(ctx context.Context, admin *model.Admin) error
	Updates(ctx context.Context, adminID uint, columns map[string]interface{}) error
}

type adminRepository struct {
	db *gorm.DB
}

func (r *adminRepository) WithTx(tx *gorm.DB) AdminRepository {
	return NewAdminRepository(tx)
}

func (r *adminRepository) First(ctx context.Context, conds ...interface{}) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.WithContext(ctx).First(&admin, conds...).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *model.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepository) Updates(ctx context.Context, adminID uint, columns map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Admin{}).Where("id = ?", adminID).Updates(columns).Error
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db}
}
