package members

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/khanghh/unionhub/internal/audit"
	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/internal/database"
	"github.com/khanghh/unionhub/internal/dues"
	"github.com/khanghh/unionhub/internal/idcards"
	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
)

const (
	ActionMemberSuspended  = "member_suspended"
	ActionMemberReinstated = "member_reinstated"
)

type DuesReader interface {
	Standings(ctx context.Context, userIDs []uint) (map[uint]dues.Standing, error)
	ListForUser(ctx context.Context, userID uint) ([]*model.DuesLedger, error)
	GraceDays(ctx context.Context) int
}

type CardIssuer interface {
	Card(user *model.User) (*idcards.Card, error)
}

type Member struct {
	*model.User
	FullName   string        `json:"fullName"`
	DuesStatus dues.Standing `json:"duesStatus"`
}

type MemberDetail struct {
	*Member
	Documents []*model.UserDocument `json:"documents"`
	Dues      []*model.DuesLedger   `json:"dues"`
	IDCard    *idcards.Card         `json:"idCard"`
}

type ListResult struct {
	Items []*Member       `json:"data"`
	Meta  common.PageMeta `json:"meta"`
}

type MemberService struct {
	tx        database.Transactor
	repo      Repository
	auditRepo audit.Repository
	dues      DuesReader
	cards     CardIssuer
	now       func() time.Time
}

type ListOptions struct {
	Search     string
	Status     model.UserStatus
	DuesStatus string
}

func (s *MemberService) List(ctx context.Context, opts ListOptions, page common.PageRequest) (*ListResult, error) {
	filter := Filter{Search: opts.Search, Status: opts.Status}
	if opts.DuesStatus != "" {
		standing, ok := dues.ParseStanding(opts.DuesStatus)
		if !ok {
			return nil, ErrInvalidStanding
		}
		filter.Standing = standing
		filter.GraceDays = s.dues.GraceDays(ctx)
	}
	users, total, err := s.repo.Find(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	standings, err := s.dues.Standings(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]*Member, 0, len(users))
	for _, user := range users {
		items = append(items, &Member{User: user, FullName: user.FullName(), DuesStatus: standings[user.ID]})
	}
	return &ListResult{Items: items, Meta: common.NewPageMeta(page, total)}, nil
}

func (s *MemberService) Get(ctx context.Context, userID uint) (*MemberDetail, error) {
	user, err := s.repo.First(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	} else if err != nil {
		return nil, err
	}
	docs, err := s.repo.FindDocuments(ctx, userID)
	if err != nil {
		return nil, err
	}
	ledgers, err := s.dues.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	standing := dues.StandingNoRecord
	if len(ledgers) > 0 {
		standing = dues.Classify(ledgers[0], s.now(), s.dues.GraceDays(ctx))
	}
	detail := &MemberDetail{
		Member:    &Member{User: user, FullName: user.FullName(), DuesStatus: standing},
		Documents: docs,
		Dues:      ledgers,
	}
	if card, err := s.cards.Card(user); err == nil {
		detail.IDCard = card
	}
	return detail, nil
}

func (s *MemberService) changeStatus(ctx context.Context, adminID, userID uint, from, to model.UserStatus, action string, meta map[string]interface{}) (*model.User, error) {
	var user *model.User
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		repo := s.repo.WithTx(tx)
		user, err = repo.LockFirst(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		} else if err != nil {
			return err
		}
		if user.Status != from {
			return ErrInvalidTransition
		}
		user.Status = to
		if err := repo.Updates(ctx, userID, map[string]interface{}{"status": to}); err != nil {
			return err
		}
		return s.auditRepo.WithTx(tx).Create(ctx, audit.NewEntry(action, audit.Admin(adminID), "user", userID, meta))
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *MemberService) Suspend(ctx context.Context, adminID, userID uint, reason string) (*model.User, error) {
	meta := map[string]interface{}{"reason": strings.TrimSpace(reason)}
	return s.changeStatus(ctx, adminID, userID, model.UserStatusApproved, model.UserStatusSuspended, ActionMemberSuspended, meta)
}

func (s *MemberService) Reinstate(ctx context.Context, adminID, userID uint) (*model.User, error) {
	return s.changeStatus(ctx, adminID, userID, model.UserStatusSuspended, model.UserStatusApproved, ActionMemberReinstated, nil)
}

func NewMemberService(tx database.Transactor, repo Repository, auditRepo audit.Repository, duesReader DuesReader, cards CardIssuer) *MemberService {
	return &MemberService{
		tx:        tx,
		repo:      repo,
		auditRepo: auditRepo,
		dues:      duesReader,
		cards:     cards,
		now:       time.Now,
	}
}
