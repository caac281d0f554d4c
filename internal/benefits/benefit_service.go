package benefits

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/khanghh/unionhub/internal/approvals"
	"github.com/khanghh/unionhub/internal/audit"
	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/internal/database"
	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
)

const (
	ActionBenefitRequested = "benefit_requested"
	ActionBenefitApproved  = "benefit_approved"
	ActionBenefitRejected  = "benefit_rejected"
	ActionBenefitReleased  = "benefit_released"
)

type CreateOptions struct {
	BenefitType string
	AmountCents int64
	Reason      string
}

type ListResult struct {
	Items []*model.BenefitRequest `json:"data"`
	Meta  common.PageMeta         `json:"meta"`
}

type BenefitService struct {
	tx        database.Transactor
	repo      Repository
	queueRepo approvals.Repository
	auditRepo audit.Repository
	now       func() time.Time
}

func validStatus(status model.BenefitStatus) bool {
	switch status {
	case model.BenefitStatusPending, model.BenefitStatusApproved, model.BenefitStatusRejected, model.BenefitStatusReleased:
		return true
	}
	return false
}

// Create files a request together with its approval queue item.
func (s *BenefitService) Create(ctx context.Context, userID uint, opts CreateOptions) (*model.BenefitRequest, error) {
	benefitType := strings.TrimSpace(opts.BenefitType)
	if benefitType == "" || opts.AmountCents < 0 {
		return nil, ErrInvalidRequest
	}
	status, err := s.repo.UserStatus(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotApprovedMember
	} else if err != nil {
		return nil, err
	}
	if status != model.UserStatusApproved {
		return nil, ErrNotApprovedMember
	}

	req := &model.BenefitRequest{
		UserID:      userID,
		BenefitType: benefitType,
		AmountCents: opts.AmountCents,
		Reason:      strings.TrimSpace(opts.Reason),
		Status:      model.BenefitStatusPending,
	}
	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, req); err != nil {
			return err
		}
		item := &model.ApprovalQueue{
			QueueType:      model.QueueTypeBenefit,
			ReferenceTable: approvals.TableBenefitRequests,
			ReferenceID:    req.ID,
			Status:         model.QueueStatusPending,
		}
		if err := s.queueRepo.WithTx(tx).Create(ctx, item); err != nil {
			return err
		}
		meta := map[string]interface{}{"benefitType": req.BenefitType, "amountCents": req.AmountCents}
		return s.auditRepo.WithTx(tx).Create(ctx, audit.NewEntry(ActionBenefitRequested, audit.User(userID), "benefit_request", req.ID, meta))
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *BenefitService) List(ctx context.Context, filter Filter, page common.PageRequest) (*ListResult, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	items, total, err := s.repo.Find(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Meta: common.NewPageMeta(page, total)}, nil
}

func (s *BenefitService) decide(ctx context.Context, adminID, id uint, from, to model.BenefitStatus, queueStatus model.QueueStatus, action, notes string) (*model.BenefitRequest, error) {
	var req *model.BenefitRequest
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		repo := s.repo.WithTx(tx)
		req, err = repo.LockFirst(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		} else if err != nil {
			return err
		}
		if req.Status != from {
			return ErrInvalidTransition
		}

		now := s.now()
		req.Status = to
		columns := map[string]interface{}{"status": to}
		if to == model.BenefitStatusReleased {
			req.ReleasedAt = &now
			columns["released_at"] = now
		} else {
			req.ReviewedBy = &adminID
			req.ReviewedAt = &now
			req.ReviewNotes = notes
			columns["reviewed_by"] = adminID
			columns["reviewed_at"] = now
			columns["review_notes"] = notes
		}
		if err := repo.Updates(ctx, req.ID, columns); err != nil {
			return err
		}
		if queueStatus != "" {
			err := s.queueRepo.WithTx(tx).Transition(ctx, model.QueueTypeBenefit, approvals.TableBenefitRequests, req.ID, queueStatus, &adminID, notes)
			if err != nil {
				return err
			}
		}
		meta := map[string]interface{}{"userId": req.UserID, "notes": notes}
		return s.auditRepo.WithTx(tx).Create(ctx, audit.NewEntry(action, audit.Admin(adminID), "benefit_request", req.ID, meta))
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *BenefitService) Approve(ctx context.Context, adminID, id uint, notes string) (*model.BenefitRequest, error) {
	notes = strings.TrimSpace(notes)
	return s.decide(ctx, adminID, id, model.BenefitStatusPending, model.BenefitStatusApproved, model.QueueStatusApproved, ActionBenefitApproved, notes)
}

func (s *BenefitService) Reject(ctx context.Context, adminID, id uint, notes string) (*model.BenefitRequest, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, ErrNotesRequired
	}
	return s.decide(ctx, adminID, id, model.BenefitStatusPending, model.BenefitStatusRejected, model.QueueStatusRejected, ActionBenefitRejected, notes)
}

// Release marks the approved benefit as paid out. The queue item was already
// resolved on approval.
func (s *BenefitService) Release(ctx context.Context, adminID, id uint) (*model.BenefitRequest, error) {
	return s.decide(ctx, adminID, id, model.BenefitStatusApproved, model.BenefitStatusReleased, "", ActionBenefitReleased, "")
}

func NewBenefitService(tx database.Transactor, repo Repository, queueRepo approvals.Repository, auditRepo audit.Repository) *BenefitService {
	return &BenefitService{
		tx:        tx,
		repo:      repo,
		queueRepo: queueRepo,
		auditRepo: auditRepo,
		now:       time.Now,
	}
}
