package dues

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/khanghh/unionhub/internal/audit"
	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/internal/database"
	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
)

const (
	ActionDuesCreated   = "dues_created"
	ActionDuesGenerated = "dues_generated"
	ActionDuesPaid      = "dues_paid"
	ActionDuesWaived    = "dues_waived"
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type SettingsProvider interface {
	DuesDefaultAmountCents(ctx context.Context) int64
	DuesGraceDays(ctx context.Context) int
}

type CreateOptions struct {
	UserID      uint
	Period      string
	AmountCents int64
	DueDate     time.Time
	Notes       string
}

type GenerateOptions struct {
	Period      string
	AmountCents int64
	DueDate     time.Time
}

type ListResult struct {
	Items []*model.DuesLedger `json:"data"`
	Meta  common.PageMeta     `json:"meta"`
}

type Summary struct {
	Period string `json:"period,omitempty"`
	*Totals
}

type DuesService struct {
	tx        database.Transactor
	repo      Repository
	auditRepo audit.Repository
	settings  SettingsProvider
	now       func() time.Time
}

func validatePeriod(period string) (string, error) {
	period = strings.TrimSpace(period)
	if !periodPattern.MatchString(period) {
		return "", ErrInvalidPeriod
	}
	return period, nil
}

func (s *DuesService) amountOrDefault(ctx context.Context, amount int64) (int64, error) {
	if amount == 0 {
		amount = s.settings.DuesDefaultAmountCents(ctx)
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}

// dueDateOrDefault falls back to the last day of the billing period.
func dueDateOrDefault(period string, dueDate time.Time) time.Time {
	if !dueDate.IsZero() {
		return truncateDay(dueDate)
	}
	start, _ := time.Parse("2006-01", period)
	return start.AddDate(0, 1, -1)
}

func (s *DuesService) Get(ctx context.Context, id uint) (*model.DuesLedger, error) {
	ledger, err := s.repo.First(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLedgerNotFound
	}
	return ledger, err
}

func (s *DuesService) List(ctx context.Context, filter Filter, page common.PageRequest) (*ListResult, error) {
	if filter.Status != "" {
		switch filter.Status {
		case model.DuesStatusUnpaid, model.DuesStatusPaid, model.DuesStatusWaived:
		default:
			return nil, ErrInvalidStatus
		}
	}
	items, total, err := s.repo.Find(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Meta: common.NewPageMeta(page, total)}, nil
}

func (s *DuesService) ListForUser(ctx context.Context, userID uint) ([]*model.DuesLedger, error) {
	return s.repo.FindByUser(ctx, userID)
}

// StandingOf classifies the dues of one member.
func (s *DuesService) StandingOf(ctx context.Context, userID uint) (Standing, error) {
	latest, err := s.repo.LatestByUsers(ctx, []uint{userID})
	if err != nil {
		return "", err
	}
	return Classify(latest[userID], s.now(), s.settings.DuesGraceDays(ctx)), nil
}

// Standings classifies the dues of several members at once.
func (s *DuesService) Standings(ctx context.Context, userIDs []uint) (map[uint]Standing, error) {
	latest, err := s.repo.LatestByUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	today := s.now()
	graceDays := s.settings.DuesGraceDays(ctx)
	standings := make(map[uint]Standing, len(userIDs))
	for _, id := range userIDs {
		standings[id] = Classify(latest[id], today, graceDays)
	}
	return standings, nil
}

func (s *DuesService) GraceDays(ctx context.Context) int {
	return s.settings.DuesGraceDays(ctx)
}

func (s *DuesService) Create(ctx context.Context, adminID uint, opts CreateOptions) (*model.DuesLedger, error) {
	period, err := validatePeriod(opts.Period)
	if err != nil {
		return nil, err
	}
	amount, err := s.amountOrDefault(ctx, opts.AmountCents)
	if err != nil {
		return nil, err
	}
	ledger := &model.DuesLedger{
		UserID:      opts.UserID,
		Period:      period,
		AmountCents: amount,
		DueDate:     dueDateOrDefault(period, opts.DueDate),
		Status:      model.DuesStatusUnpaid,
		Notes:       strings.TrimSpace(opts.Notes),
	}
	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, ledger); err != nil {
			if database.IsDuplicateKey(err) {
				return ErrLedgerExists
			}
			return err
		}
		meta := map[string]interface{}{"userId": ledger.UserID, "period": period, "amountCents": amount}
		return s.auditRepo.WithTx(tx).Create(ctx, audit.NewEntry(ActionDuesCreated, audit.Admin(adminID), "dues_ledger", ledger.ID, meta))
	})
	if err != nil {
		return nil, err
	}
	return ledger, nil
}

// Generate bills every approved member that has no row for the period yet.
func (s *DuesService) Generate(ctx context.Context, adminID uint, opts GenerateOptions) (int, error) {
	period, err := validatePeriod(opts.Period)
	if err != nil {
		return 0, err
	}
	amount, err := s.amountOrDefault(ctx, opts.AmountCents)
	if err != nil {
		return 0, err
	}
	dueDate := dueDateOrDefault(period, opts.DueDate)

	var created int
	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		userIDs, err := repo.MembersWithoutPeriod(ctx, period)
		if err != nil {
			return err
		}
		ledgers := make([]*model.DuesLedger, 0, len(userIDs))
		for _, userID := range userIDs {
			ledgers = append(ledgers, &model.DuesLedger{
				UserID:      userID,
				Period:      period,
				AmountCents: amount,
				DueDate:     dueDate,
				Status:      model.DuesStatusUnpaid,
			})
		}
		if err := repo.CreateInBatches(ctx, ledgers); err != nil {
			if database.IsDuplicateKey(err) {
				return ErrLedgerExists
			}
			return err
		}
		created = len(ledgers)
		meta := map[string]interface{}{"period": period, "amountCents": amount, "count": created}
		return s.auditRepo.WithTx(tx).Create(ctx, audit.NewEntry(ActionDuesGenerated, audit.Admin(adminID), "dues_ledger", 0, meta))
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (s *DuesService) settle(ctx context.Context, id uint, fn func(tx *gorm.DB, ledger *model.DuesLedger) error) (*model.DuesLedger, error) {
	var ledger *model.DuesLedger
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		ledger, err = s.repo.WithTx(tx).LockFirst(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLedgerNotFound
		} else if err != nil {
			return err
		}
		switch ledger.Status {
		case model.DuesStatusPaid:
			return ErrAlreadyPaid
		case model.DuesStatusWaived:
			return ErrAlreadySettled
		}
		return fn(tx, ledger)
	})
	if err != nil {
		return nil, err
	}
	return ledger, nil
}

// Pay records a payment. A zero amount means the full billed amount.
func (s *DuesService) Pay(ctx context.Context, adminID, id uint, amountCents int64, reference string) (*model.DuesLedger, error) {
	if amountCents < 0 {
		return nil, ErrInvalidAmount
	}
	return s.settle(ctx, id, func(tx *gorm.DB, ledger *model.DuesLedger) error {
		if amountCents == 0 {
			amountCents = ledger.AmountCents
		}
		now := s.now()
		ledger.Status = model.DuesStatusPaid
		ledger.PaidAt = &now
		ledger.PaidAmountCents = amountCents
		ledger.Reference = strings.TrimSpace(reference)
		columns := map[string]interface{}{
			"status":            ledger.Status,
			"paid_at":           now,
			"paid_amount_cents": amountCents,
			"reference":         ledger.Reference,
		}
		if err := s.repo.WithTx(tx).Updates(ctx, ledger.ID, columns); err != nil {
			return err
		}
		meta := map[string]interface{}{"userId": ledger.UserID, "period": ledger.Period, "amountCents": amountCents, "reference": ledger.Reference}
		return s.auditRepo.WithTx(tx).Create(ctx, audit.NewEntry(ActionDuesPaid, audit.Admin(adminID), "dues_ledger", ledger.ID, meta))
	})
}

func (s *DuesService) Waive(ctx context.Context, adminID, id uint, reason string) (*model.DuesLedger, error) {
	return s.settle(ctx, id, func(tx *gorm.DB, ledger *model.DuesLedger) error {
		ledger.Status = model.DuesStatusWaived
		ledger.Notes = strings.TrimSpace(reason)
		columns := map[string]interface{}{"status": ledger.Status, "notes": ledger.Notes}
		if err := s.repo.WithTx(tx).Updates(ctx, ledger.ID, columns); err != nil {
			return err
		}
		meta := map[string]interface{}{"userId": ledger.UserID, "period": ledger.Period, "reason": ledger.Notes}
		return s.auditRepo.WithTx(tx).Create(ctx, audit.NewEntry(ActionDuesWaived, audit.Admin(adminID), "dues_ledger", ledger.ID, meta))
	})
}

func (s *DuesService) Summary(ctx context.Context, period string) (*Summary, error) {
	if period != "" {
		var err error
		if period, err = validatePeriod(period); err != nil {
			return nil, err
		}
	}
	totals, err := s.repo.Totals(ctx, period)
	if err != nil {
		return nil, err
	}
	return &Summary{Period: period, Totals: totals}, nil
}

func NewDuesService(tx database.Transactor, repo Repository, auditRepo audit.Repository, settings SettingsProvider) *DuesService {
	return &DuesService{
		tx:        tx,
		repo:      repo,
		auditRepo: auditRepo,
		settings:  settings,
		now:       time.Now,
	}
}
