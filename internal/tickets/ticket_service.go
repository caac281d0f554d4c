package tickets

import (
	"context"
	"errors"
	"strings"

	"github.com/khanghh/unionhub/internal/audit"
	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/internal/database"
	"github.com/khanghh/unionhub/model"
	"github.com/khanghh/unionhub/params"
	"gorm.io/gorm"
)

const (
	ActionTicketCreated = "ticket_created"
	ActionTicketUpdated = "ticket_updated"
)

type CreateOptions struct {
	Subject     string
	Category    string
	Description string
	Priority    model.TicketPriority
}

// UpdateOptions holds the admin changes of a ticket. Nil fields are left untouched.
type UpdateOptions struct {
	Status          *model.TicketStatus
	AssignedAdminID *uint
	Resolution      *string
}

type ListResult struct {
	Items []*model.Ticket `json:"data"`
	Meta  common.PageMeta `json:"meta"`
}

type TicketService struct {
	tx        database.Transactor
	repo      Repository
	auditRepo audit.Repository
}

func NewTicketNumber() string {
	return params.TicketNumberPrefix + model.GenerateID().Base36()
}

func (s *TicketService) Create(ctx context.Context, userID uint, opts CreateOptions) (*model.Ticket, error) {
	subject := strings.TrimSpace(opts.Subject)
	if subject == "" {
		return nil, ErrSubjectRequired
	}
	if opts.Priority == "" {
		opts.Priority = model.TicketPriorityNormal
	}
	if !opts.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	ticket := &model.Ticket{
		TicketNumber: strings.ToUpper(NewTicketNumber()),
		UserID:       userID,
		Subject:      subject,
		Category:     strings.TrimSpace(opts.Category),
		Description:  strings.TrimSpace(opts.Description),
		Priority:     opts.Priority,
		Status:       model.TicketStatusOpen,
	}
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, ticket); err != nil {
			return err
		}
		meta := map[string]interface{}{"ticketNumber": ticket.TicketNumber, "priority": ticket.Priority}
		return s.auditRepo.WithTx(tx).Create(ctx, audit.NewEntry(ActionTicketCreated, audit.User(userID), "ticket", ticket.ID, meta))
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) List(ctx context.Context, filter Filter, page common.PageRequest) (*ListResult, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	items, total, err := s.repo.Find(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Meta: common.NewPageMeta(page, total)}, nil
}

func (s *TicketService) Update(ctx context.Context, adminID, ticketID uint, opts UpdateOptions) (*model.Ticket, error) {
	if opts.Status != nil && !validStatus(*opts.Status) {
		return nil, ErrInvalidStatus
	}
	var ticket *model.Ticket
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		repo := s.repo.WithTx(tx)
		ticket, err = repo.LockFirst(ctx, ticketID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTicketNotFound
		} else if err != nil {
			return err
		}

		columns := make(map[string]interface{})
		meta := map[string]interface{}{"ticketNumber": ticket.TicketNumber}
		if opts.Status != nil && *opts.Status != ticket.Status {
			if !CanTransition(ticket.Status, *opts.Status) {
				return ErrInvalidTransition
			}
			meta["from"] = ticket.Status
			meta["to"] = *opts.Status
			ticket.Status = *opts.Status
			columns["status"] = ticket.Status
		}
		if opts.AssignedAdminID != nil {
			ticket.AssignedAdminID = opts.AssignedAdminID
			columns["assigned_admin_id"] = *opts.AssignedAdminID
			meta["assignedAdminId"] = *opts.AssignedAdminID
		}
		if opts.Resolution != nil {
			ticket.Resolution = strings.TrimSpace(*opts.Resolution)
			columns["resolution"] = ticket.Resolution
		}
		if len(columns) == 0 {
			return nil
		}
		if err := repo.Updates(ctx, ticket.ID, columns); err != nil {
			return err
		}
		return s.auditRepo.WithTx(tx).Create(ctx, audit.NewEntry(ActionTicketUpdated, audit.Admin(adminID), "ticket", ticket.ID, meta))
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func NewTicketService(tx database.Transactor, repo Repository, auditRepo audit.Repository) *TicketService {
	return &TicketService{tx: tx, repo: repo, auditRepo: auditRepo}
}
