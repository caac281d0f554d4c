package review

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/khanghh/unionhub/internal/approvals"
	"github.com/khanghh/unionhub/internal/audit"
	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/internal/database"
	"github.com/khanghh/unionhub/internal/idcards"
	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
)

const (
	ActionReviewStarted = "registration_review_started"
	ActionApproved      = "registration_approved"
	ActionRejected      = "registration_rejected"
	ActionReturned      = "registration_returned"
)

type Notifier interface {
	SendApproved(user *model.User) error
	SendRejected(user *model.User, reason string) error
}

type PrefixProvider interface {
	MembershipPrefix(ctx context.Context) string
}

type ListResult struct {
	Items []*Candidate    `json:"data"`
	Meta  common.PageMeta `json:"meta"`
}

type ReviewService struct {
	tx        database.Transactor
	repo      Repository
	queueRepo approvals.Repository
	auditRepo audit.Repository
	prefixes  PrefixProvider
	notifier  Notifier
	now       func() time.Time
}

func (s *ReviewService) List(ctx context.Context, filter CandidateFilter, page common.PageRequest) (*ListResult, error) {
	rows, total, err := s.repo.FindCandidates(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	items := make([]*Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, Annotate(row))
	}
	return &ListResult{Items: items, Meta: common.NewPageMeta(page, total)}, nil
}

func (s *ReviewService) Get(ctx context.Context, userID uint) (*Candidate, error) {
	row, err := s.repo.FindCandidate(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCandidateNotFound
	} else if err != nil {
		return nil, err
	}
	candidate := Annotate(row)
	candidate.Documents, err = s.repo.FindDocuments(ctx, userID)
	if err != nil {
		return nil, err
	}
	return candidate, nil
}

// transition locks the user row, checks the current status with allow and runs
// apply inside the same transaction.
func (s *ReviewService) transition(ctx context.Context, userID uint, allow func(model.UserStatus) error, apply func(tx *gorm.DB, user *model.User) error) (*model.User, error) {
	var user *model.User
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		user, err = s.repo.WithTx(tx).LockUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCandidateNotFound
		} else if err != nil {
			return err
		}
		if err := allow(user.Status); err != nil {
			return err
		}
		return apply(tx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// allowOpen admits applications an admin can decide on. Incomplete ones are
// still with the applicant.
func allowOpen(status model.UserStatus) error {
	switch status {
	case model.UserStatusApproved:
		return ErrAlreadyApproved
	case model.UserStatusIncomplete, model.UserStatusRejected, model.UserStatusSuspended:
		return ErrInvalidTransition
	}
	return nil
}

func (s *ReviewService) StartReview(ctx context.Context, adminID, userID uint) (*model.User, error) {
	allow := func(status model.UserStatus) error {
		if status != model.UserStatusPending && status != model.UserStatusEmailVerified {
			return ErrInvalidTransition
		}
		return nil
	}
	return s.transition(ctx, userID, allow, func(tx *gorm.DB, user *model.User) error {
		previous := user.Status
		user.Status = model.UserStatusUnderReview
		if err := s.repo.WithTx(tx).UpdateUser(ctx, user.ID, map[string]interface{}{"status": user.Status}); err != nil {
			return err
		}
		err := s.queueRepo.WithTx(tx).Transition(ctx, model.QueueTypeRegistration, approvals.TableUsers, user.ID, model.QueueStatusInReview, &adminID, "")
		if err != nil {
			return err
		}
		entry := audit.NewEntry(ActionReviewStarted, audit.Admin(adminID), "user", user.ID, map[string]interface{}{"previousStatus": previous})
		return s.auditRepo.WithTx(tx).Create(ctx, entry)
	})
}

// Approve issues the membership number and digital ID and records exactly one
// approval entry. All writes share one transaction.
func (s *ReviewService) Approve(ctx context.Context, adminID, userID uint) (*model.User, error) {
	prefix := s.prefixes.MembershipPrefix(ctx)
	user, err := s.transition(ctx, userID, allowOpen, func(tx *gorm.DB, user *model.User) error {
		now := s.now()
		previous := user.Status
		membershipNumber := idcards.MembershipNumber(prefix, now.Year(), user.ID)
		digitalID := idcards.NewDigitalID()
		columns := map[string]interface{}{
			"status":            model.UserStatusApproved,
			"membership_number": membershipNumber,
			"digital_id":        digitalID,
			"id_issued_at":      now,
			"approved_at":       now,
			"approved_by":       adminID,
			"rejected_reason":   "",
		}
		if err := s.repo.WithTx(tx).UpdateUser(ctx, user.ID, columns); err != nil {
			return err
		}
		user.Status = model.UserStatusApproved
		user.MembershipNumber = &membershipNumber
		user.DigitalID = &digitalID
		user.IDIssuedAt = &now
		user.ApprovedAt = &now
		user.ApprovedBy = &adminID
		user.RejectedReason = ""

		err := s.queueRepo.WithTx(tx).Transition(ctx, model.QueueTypeRegistration, approvals.TableUsers, user.ID, model.QueueStatusApproved, &adminID, "")
		if err != nil {
			return err
		}
		meta := map[string]interface{}{
			"previousStatus":   previous,
			"membershipNumber": membershipNumber,
			"digitalId":        digitalID,
		}
		return s.auditRepo.WithTx(tx).Create(ctx, audit.NewEntry(ActionApproved, audit.Admin(adminID), "user", user.ID, meta))
	})
	if err != nil {
		return nil, err
	}
	if err := s.notifier.SendApproved(user); err != nil {
		slog.Error("Failed to send approval notice", "userID", user.ID, "error", err)
	}
	return user, nil
}

func (s *ReviewService) Reject(ctx context.Context, adminID, userID uint, reason string) (*model.User, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	user, err := s.transition(ctx, userID, allowOpen, func(tx *gorm.DB, user *model.User) error {
		previous := user.Status
		columns := map[string]interface{}{"status": model.UserStatusRejected, "rejected_reason": reason}
		if err := s.repo.WithTx(tx).UpdateUser(ctx, user.ID, columns); err != nil {
			return err
		}
		user.Status = model.UserStatusRejected
		user.RejectedReason = reason

		err := s.queueRepo.WithTx(tx).Transition(ctx, model.QueueTypeRegistration, approvals.TableUsers, user.ID, model.QueueStatusRejected, &adminID, reason)
		if err != nil {
			return err
		}
		meta := map[string]interface{}{"previousStatus": previous, "reason": reason}
		return s.auditRepo.WithTx(tx).Create(ctx, audit.NewEntry(ActionRejected, audit.Admin(adminID), "user", user.ID, meta))
	})
	if err != nil {
		return nil, err
	}
	if err := s.notifier.SendRejected(user, reason); err != nil {
		slog.Error("Failed to send rejection notice", "userID", user.ID, "error", err)
	}
	return user, nil
}

// Return sends the application back to the applicant for corrections.
func (s *ReviewService) Return(ctx context.Context, adminID, userID uint, notes string) (*model.User, error) {
	notes = strings.TrimSpace(notes)
	return s.transition(ctx, userID, allowOpen, func(tx *gorm.DB, user *model.User) error {
		previous := user.Status
		user.Status = model.UserStatusIncomplete
		if err := s.repo.WithTx(tx).UpdateUser(ctx, user.ID, map[string]interface{}{"status": user.Status}); err != nil {
			return err
		}
		err := s.queueRepo.WithTx(tx).Transition(ctx, model.QueueTypeRegistration, approvals.TableUsers, user.ID, model.QueueStatusReturned, &adminID, notes)
		if err != nil {
			return err
		}
		meta := map[string]interface{}{"previousStatus": previous, "notes": notes}
		return s.auditRepo.WithTx(tx).Create(ctx, audit.NewEntry(ActionReturned, audit.Admin(adminID), "user", user.ID, meta))
	})
}

func NewReviewService(
	tx database.Transactor,
	repo Repository,
	queueRepo approvals.Repository,
	auditRepo audit.Repository,
	prefixes PrefixProvider,
	notifier Notifier,
) *ReviewService {
	return &ReviewService{
		tx:        tx,
		repo:      repo,
		queueRepo: queueRepo,
		auditRepo: auditRepo,
		prefixes:  prefixes,
		notifier:  notifier,
		now:       time.Now,
	}
}
