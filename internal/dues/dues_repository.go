package dues

import (
	"context"

	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LatestLedgerJoin joins the most recent ledger row of each user as ld.
const LatestLedgerJoin = `LEFT JOIN dues_ledgers ld ON ld.id = (
	SELECT d2.id FROM dues_ledgers d2 WHERE d2.user_id = users.id
	ORDER BY d2.due_date DESC, d2.id DESC LIMIT 1)`

type Filter struct {
	Status model.DuesStatus
	Period string
	UserID uint
}

type Totals struct {
	Count            int64 `json:"count"`
	BilledCents      int64 `json:"billedCents"`
	CollectedCents   int64 `json:"collectedCents"`
	WaivedCents      int64 `json:"waivedCents"`
	OutstandingCents int64 `json:"outstandingCents"`
	PaidCount        int64 `json:"paidCount"`
	UnpaidCount      int64 `json:"unpaidCount"`
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	First(ctx context.Context, id uint) (*model.DuesLedger, error)
	LockFirst(ctx context.Context, id uint) (*model.DuesLedger, error)
	Find(ctx context.Context, filter Filter, page common.PageRequest) ([]*model.DuesLedger, int64, error)
	FindByUser(ctx context.Context, userID uint) ([]*model.DuesLedger, error)
	LatestByUsers(ctx context.Context, userIDs []uint) (map[uint]*model.DuesLedger, error)
	Create(ctx context.Context, ledger *model.DuesLedger) error
	CreateInBatches(ctx context.Context, ledgers []*model.DuesLedger) error
	Updates(ctx context.Context, id uint, columns map[string]interface{}) error
	MembersWithoutPeriod(ctx context.Context, period string) ([]uint, error)
	Totals(ctx context.Context, period string) (*Totals, error)
}

type duesRepository struct {
	db *gorm.DB
}

func (r *duesRepository) WithTx(tx *gorm.DB) Repository {
	return NewRepository(tx)
}

func (r *duesRepository) First(ctx context.Context, id uint) (*model.DuesLedger, error) {
	var ledger model.DuesLedger
	if err := r.db.WithContext(ctx).First(&ledger, id).Error; err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (r *duesRepository) LockFirst(ctx context.Context, id uint) (*model.DuesLedger, error) {
	var ledger model.DuesLedger
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&ledger, id).Error
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (r *duesRepository) Find(ctx context.Context, filter Filter, page common.PageRequest) ([]*model.DuesLedger, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.DuesLedger{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Period != "" {
		q = q.Where("period = ?", filter.Period)
	}
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []*model.DuesLedger
	err := q.Order("due_date DESC").Order("id DESC").Offset(page.Offset()).Limit(page.Limit()).Find(&items).Error
	return items, total, err
}

func (r *duesRepository) FindByUser(ctx context.Context, userID uint) ([]*model.DuesLedger, error) {
	var items []*model.DuesLedger
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("due_date DESC").Order("id DESC").Find(&items).Error
	return items, err
}

func (r *duesRepository) LatestByUsers(ctx context.Context, userIDs []uint) (map[uint]*model.DuesLedger, error) {
	latest := make(map[uint]*model.DuesLedger, len(userIDs))
	if len(userIDs) == 0 {
		return latest, nil
	}
	var items []*model.DuesLedger
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Where(`id = (SELECT d2.id FROM dues_ledgers d2 WHERE d2.user_id = dues_ledgers.user_id
			ORDER BY d2.due_date DESC, d2.id DESC LIMIT 1)`).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		latest[item.UserID] = item
	}
	return latest, nil
}

func (r *duesRepository) Create(ctx context.Context, ledger *model.DuesLedger) error {
	return r.db.WithContext(ctx).Create(ledger).Error
}

func (r *duesRepository) CreateInBatches(ctx context.Context, ledgers []*model.DuesLedger) error {
	if len(ledgers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(ledgers, 200).Error
}

func (r *duesRepository) Updates(ctx context.Context, id uint, columns map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.DuesLedger{}).Where("id = ?", id).Updates(columns).Error
}

func (r *duesRepository) MembersWithoutPeriod(ctx context.Context, period string) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("status = ?", model.UserStatusApproved).
		Where("NOT EXISTS (SELECT 1 FROM dues_ledgers d WHERE d.user_id = users.id AND d.period = ?)", period).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *duesRepository) Totals(ctx context.Context, period string) (*Totals, error) {
	var totals Totals
	q := r.db.WithContext(ctx).Model(&model.DuesLedger{}).Select(`COUNT(*) AS count,
		COALESCE(SUM(amount_cents), 0) AS billed_cents,
		COALESCE(SUM(CASE WHEN status = 'paid' THEN paid_amount_cents ELSE 0 END), 0) AS collected_cents,
		COALESCE(SUM(CASE WHEN status = 'waived' THEN amount_cents ELSE 0 END), 0) AS waived_cents,
		COALESCE(SUM(CASE WHEN status = 'unpaid' THEN amount_cents ELSE 0 END), 0) AS outstanding_cents,
		COALESCE(SUM(CASE WHEN status = 'paid' THEN 1 ELSE 0 END), 0) AS paid_count,
		COALESCE(SUM(CASE WHEN status = 'unpaid' THEN 1 ELSE 0 END), 0) AS unpaid_count`)
	if period != "" {
		q = q.Where("period = ?", period)
	}
	if err := q.Scan(&totals).Error; err != nil {
		return nil, err
	}
	return &totals, nil
}

func NewRepository(db *gorm.DB) Repository {
	return &duesRepository{db}
}
