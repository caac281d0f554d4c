package dashboard

import (
	"context"
	"time"

	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
)

type Repository interface {
	CountUsers(ctx context.Context, statuses ...model.UserStatus) (int64, error)
	CountPendingRegistrations(ctx context.Context) (int64, error)
	CountTickets(ctx context.Context, statuses ...model.TicketStatus) (int64, error)
	CountBenefits(ctx context.Context, status model.BenefitStatus) (int64, error)
	CountUpcomingEvents(ctx context.Context, now time.Time) (int64, error)
	SumDuesCollected(ctx context.Context, from, to time.Time) (int64, error)
	StatusBreakdown(ctx context.Context) (map[string]int64, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

// CountUsers counts users with any of the statuses, or every user when none is given.
func (r *dashboardRepository) CountUsers(ctx context.Context, statuses ...model.UserStatus) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.User{})
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountPendingRegistrations(ctx context.Context) (int64, error) {
	return r.CountUsers(ctx, model.ReviewableStatuses...)
}

func (r *dashboardRepository) CountTickets(ctx context.Context, statuses ...model.TicketStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Ticket{}).Where("status IN ?", statuses).Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountBenefits(ctx context.Context, status model.BenefitStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.BenefitRequest{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountUpcomingEvents(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Event{}).
		Where("status = ? AND starts_at >= ?", model.EventStatusPublished, now).
		Count(&count).Error
	return count, err
}

func (r *dashboardRepository) SumDuesCollected(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.DuesLedger{}).
		Select("COALESCE(SUM(paid_amount_cents), 0)").
		Where("status = ? AND paid_at >= ? AND paid_at < ?", model.DuesStatusPaid, from, to).
		Scan(&total).Error
	return total, err
}

func (r *dashboardRepository) StatusBreakdown(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	breakdown := make(map[string]int64, len(rows))
	for _, row := range rows {
		breakdown[row.Status] = row.Total
	}
	return breakdown, nil
}

func NewRepository(db *gorm.DB) Repository {
	return &dashboardRepository{db}
}
