package members

import (
	"context"
	"strings"

	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/internal/dues"
	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Filter struct {
	Search    string
	Status    model.UserStatus
	Standing  dues.Standing
	GraceDays int
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	First(ctx context.Context, userID uint) (*model.User, error)
	LockFirst(ctx context.Context, userID uint) (*model.User, error)
	Find(ctx context.Context, filter Filter, page common.PageRequest) ([]*model.User, int64, error)
	FindDocuments(ctx context.Context, userID uint) ([]*model.UserDocument, error)
	Updates(ctx context.Context, userID uint, columns map[string]interface{}) error
}

type memberRepository struct {
	db *gorm.DB
}

func (r *memberRepository) WithTx(tx *gorm.DB) Repository {
	return NewRepository(tx)
}

func (r *memberRepository) First(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *memberRepository) LockFirst(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func standingCondition(q *gorm.DB, standing dues.Standing, graceDays int) *gorm.DB {
	switch standing {
	case dues.StandingNoRecord:
		return q.Where("ld.id IS NULL")
	case dues.StandingPaid:
		return q.Where("ld.status IN ?", []model.DuesStatus{model.DuesStatusPaid, model.DuesStatusWaived})
	case dues.StandingOverdue:
		return q.Where("ld.status = ? AND DATE_ADD(ld.due_date, INTERVAL ? DAY) < CURDATE()", model.DuesStatusUnpaid, graceDays)
	case dues.StandingDue:
		return q.Where("ld.status = ? AND DATE_ADD(ld.due_date, INTERVAL ? DAY) >= CURDATE()", model.DuesStatusUnpaid, graceDays)
	}
	return q
}

func (r *memberRepository) Find(ctx context.Context, filter Filter, page common.PageRequest) ([]*model.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.User{})
	status := filter.Status
	if status == "" {
		status = model.UserStatusApproved
	}
	q = q.Where("users.status = ?", status)
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		q = q.Where("(CONCAT(users.first_name, ' ', users.last_name) LIKE ? OR users.email LIKE ? OR users.membership_number LIKE ? OR users.employer LIKE ?)",
			like, like, like, like)
	}
	if filter.Standing != "" {
		q = standingCondition(q.Joins(dues.LatestLedgerJoin), filter.Standing, filter.GraceDays)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []*model.User
	err := q.Select("users.*").
		Order("users.last_name").Order("users.first_name").Order("users.id").
		Offset(page.Offset()).Limit(page.Limit()).
		Find(&users).Error
	return users, total, err
}

func (r *memberRepository) FindDocuments(ctx context.Context, userID uint) ([]*model.UserDocument, error) {
	var docs []*model.UserDocument
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&docs).Error
	return docs, err
}

func (r *memberRepository) Updates(ctx context.Context, userID uint, columns map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(columns).Error
}

func NewRepository(db *gorm.DB) Repository {
	return &memberRepository{db}
}
