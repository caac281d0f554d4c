package settings

import (
	"context"

	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindAll(ctx context.Context) ([]*model.Setting, error)
	Upsert(ctx context.Context, setting *model.Setting) error
}

type settingRepository struct {
	db *gorm.DB
}

func (r *settingRepository) WithTx(tx *gorm.DB) Repository {
	return NewRepository(tx)
}

func (r *settingRepository) FindAll(ctx context.Context) ([]*model.Setting, error) {
	var items []*model.Setting
	err := r.db.WithContext(ctx).Order("`key`").Find(&items).Error
	return items, err
}

func (r *settingRepository) Upsert(ctx context.Context, setting *model.Setting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
	}).Create(setting).Error
}

func NewRepository(db *gorm.DB) Repository {
	return &settingRepository{db}
}
