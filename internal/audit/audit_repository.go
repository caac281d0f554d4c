package audit

import (
	"context"
	"strings"
	"time"

	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
)

// actorTypeExpr mirrors ClassifyActor in SQL.
const actorTypeExpr = `CASE
	WHEN LOWER(TRIM(COALESCE(JSON_UNQUOTE(JSON_EXTRACT(metadata, '$.actorType')), ''))) = 'ai' THEN 'AI'
	WHEN LOWER(TRIM(COALESCE(JSON_UNQUOTE(JSON_EXTRACT(metadata, '$.actorType')), ''))) = 'system' THEN 'system'
	WHEN actor_admin_id IS NOT NULL THEN 'admin'
	WHEN actor_user_id IS NOT NULL THEN 'proponent'
	ELSE 'system' END`

type Filter struct {
	Action         string
	ActionPrefixes []string
	ActorType      ActorType
	EntityType     string
	EntityID       *uint
	From           *time.Time
	To             *time.Time
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, log *model.AuditLog) error
	First(ctx context.Context, id uint) (*model.AuditLog, error)
	Find(ctx context.Context, filter Filter, page common.PageRequest) ([]*model.AuditLog, int64, error)
	CountByAction(ctx context.Context, filter Filter) (map[string]int64, error)
	CountByActorType(ctx context.Context, filter Filter) (map[string]int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func (r *auditRepository) WithTx(tx *gorm.DB) Repository {
	return NewRepository(tx)
}

// Create is the only write path; rows are never updated or removed.
func (r *auditRepository) Create(ctx context.Context, log *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *auditRepository) First(ctx context.Context, id uint) (*model.AuditLog, error) {
	var log model.AuditLog
	if err := r.db.WithContext(ctx).First(&log, id).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *auditRepository) scoped(ctx context.Context, filter Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{})
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if len(filter.ActionPrefixes) > 0 {
		clauses := make([]string, 0, len(filter.ActionPrefixes))
		args := make([]interface{}, 0, len(filter.ActionPrefixes))
		for _, prefix := range filter.ActionPrefixes {
			clauses = append(clauses, "action LIKE ?")
			args = append(args, prefix+"%")
		}
		q = q.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	if filter.ActorType != "" {
		q = q.Where("("+actorTypeExpr+") = ?", string(filter.ActorType))
	}
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != nil {
		q = q.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}
	return q
}

func (r *auditRepository) Find(ctx context.Context, filter Filter, page common.PageRequest) ([]*model.AuditLog, int64, error) {
	var total int64
	if err := r.scoped(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var logs []*model.AuditLog
	err := r.scoped(ctx, filter).
		Order("created_at DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.Limit()).
		Find(&logs).Error
	return logs, total, err
}

type groupCount struct {
	Name  string
	Total int64
}

func (r *auditRepository) countBy(ctx context.Context, filter Filter, expr string) (map[string]int64, error) {
	var rows []groupCount
	err := r.scoped(ctx, filter).
		Select("(" + expr + ") AS name, COUNT(*) AS total").
		Group("name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Name] = row.Total
	}
	return counts, nil
}

func (r *auditRepository) CountByAction(ctx context.Context, filter Filter) (map[string]int64, error) {
	return r.countBy(ctx, filter, "action")
}

func (r *auditRepository) CountByActorType(ctx context.Context, filter Filter) (map[string]int64, error) {
	return r.countBy(ctx, filter, actorTypeExpr)
}

func NewRepository(db *gorm.DB) Repository {
	return &auditRepository{db}
}
