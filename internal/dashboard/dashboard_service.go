package dashboard

import (
	"context"
	"time"

	"github.com/khanghh/unionhub/model"
	"golang.org/x/sync/errgroup"
)

type Stats struct {
	TotalMembers           int64            `json:"totalMembers"`
	ApprovedMembers        int64            `json:"approvedMembers"`
	PendingRegistrations   int64            `json:"pendingRegistrations"`
	OpenTickets            int64            `json:"openTickets"`
	PendingBenefits        int64            `json:"pendingBenefits"`
	UpcomingEvents         int64            `json:"upcomingEvents"`
	DuesCollectedThisMonth int64            `json:"duesCollectedThisMonth"`
	StatusBreakdown        map[string]int64 `json:"statusBreakdown"`
}

type DashboardService struct {
	repo Repository
	now  func() time.Time
}

// Stats runs every count concurrently. Nothing is cached.
func (s *DashboardService) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var stats Stats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalMembers, err = s.repo.CountUsers(ctx)
		return
	})
	g.Go(func() (err error) {
		stats.ApprovedMembers, err = s.repo.CountUsers(ctx, model.UserStatusApproved)
		return
	})
	g.Go(func() (err error) {
		stats.PendingRegistrations, err = s.repo.CountPendingRegistrations(ctx)
		return
	})
	g.Go(func() (err error) {
		stats.OpenTickets, err = s.repo.CountTickets(ctx, model.TicketStatusOpen, model.TicketStatusInProgress)
		return
	})
	g.Go(func() (err error) {
		stats.PendingBenefits, err = s.repo.CountBenefits(ctx, model.BenefitStatusPending)
		return
	})
	g.Go(func() (err error) {
		stats.UpcomingEvents, err = s.repo.CountUpcomingEvents(ctx, now)
		return
	})
	g.Go(func() (err error) {
		stats.DuesCollectedThisMonth, err = s.repo.SumDuesCollected(ctx, monthStart, monthEnd)
		return
	})
	g.Go(func() (err error) {
		stats.StatusBreakdown, err = s.repo.StatusBreakdown(ctx)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func NewDashboardService(repo Repository) *DashboardService {
	return &DashboardService{repo: repo, now: time.Now}
}
