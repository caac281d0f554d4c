package users

import (
	"context"

	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	First(ctx context.Context, conds ...interface{}) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Updates(ctx context.Context, userID uint, columns map[string]interface{}) error
	ExistsByEmailOrPhone(ctx context.Context, email string, phone *string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return NewUserRepository(tx)
}

func (r *userRepository) First(ctx context.Context, conds ...interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, conds...).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Updates(ctx context.Context, userID uint, columns map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(columns).Error
}

func (r *userRepository) ExistsByEmailOrPhone(ctx context.Context, email string, phone *string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("LOWER(TRIM(email)) = ?", email)
	if phone != nil {
		q = q.Or("phone = ?", *phone)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}

type RegistrationFormRepository interface {
	WithTx(tx *gorm.DB) RegistrationFormRepository
	Create(ctx context.Context, form *model.RegistrationForm) error
	FindByUserID(ctx context.Context, userID uint) (*model.RegistrationForm, error)
}

type registrationFormRepository struct {
	db *gorm.DB
}

func (r *registrationFormRepository) WithTx(tx *gorm.DB) RegistrationFormRepository {
	return NewRegistrationFormRepository(tx)
}

func (r *registrationFormRepository) Create(ctx context.Context, form *model.RegistrationForm) error {
	return r.db.WithContext(ctx).Create(form).Error
}

func (r *registrationFormRepository) FindByUserID(ctx context.Context, userID uint) (*model.RegistrationForm, error) {
	var form model.RegistrationForm
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&form).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

func NewRegistrationFormRepository(db *gorm.DB) RegistrationFormRepository {
	return &registrationFormRepository{db}
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *model.UserDocument) error
	FindByUserID(ctx context.Context, userID uint) ([]*model.UserDocument, error)
}

type documentRepository struct {
	db *gorm.DB
}

func (r *documentRepository) Create(ctx context.Context, doc *model.UserDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepository) FindByUserID(ctx context.Context, userID uint) ([]*model.UserDocument, error) {
	var docs []*model.UserDocument
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&docs).Error
	return docs, err
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db}
}
