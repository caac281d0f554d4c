package idcards

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/khanghh/unionhub/internal/audit"
	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/internal/database"
	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
)

const ActionIDCardReissued = "id_card_reissued"

type ListResult struct {
	Items []*Card         `json:"data"`
	Meta  common.PageMeta `json:"meta"`
}

type MemberSummary struct {
	Name             string           `json:"name"`
	MembershipNumber string           `json:"membershipNumber"`
	Employer         string           `json:"employer"`
	Status           model.UserStatus `json:"status"`
}

type VerifyResult struct {
	Valid  bool           `json:"valid"`
	Member *MemberSummary `json:"member,omitempty"`
}

type CardService struct {
	tx        database.Transactor
	repo      Repository
	auditRepo audit.Repository
	signer    *Signer
}

func (s *CardService) Signer() *Signer {
	return s.signer
}

func (s *CardService) GetCard(ctx context.Context, userID uint) (*Card, error) {
	user, err := s.repo.First(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	} else if err != nil {
		return nil, err
	}
	return s.signer.Card(user)
}

func (s *CardService) List(ctx context.Context, page common.PageRequest) (*ListResult, error) {
	users, total, err := s.repo.FindIssued(ctx, page)
	if err != nil {
		return nil, err
	}
	items := make([]*Card, 0, len(users))
	for _, user := range users {
		card, err := s.signer.Card(user)
		if err != nil {
			continue
		}
		items = append(items, card)
	}
	return &ListResult{Items: items, Meta: common.NewPageMeta(page, total)}, nil
}

// Reissue replaces the digital ID of an issued card, invalidating the old code.
func (s *CardService) Reissue(ctx context.Context, adminID, userID uint) (*Card, error) {
	var card *Card
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		user, err := repo.First(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		} else if err != nil {
			return err
		}
		if user.DigitalID == nil || user.MembershipNumber == nil {
			return ErrCardNotIssued
		}
		previous := *user.DigitalID
		digitalID := NewDigitalID()
		now := time.Now()
		if err := repo.Updates(ctx, userID, map[string]interface{}{"digital_id": digitalID, "id_issued_at": now}); err != nil {
			return err
		}
		user.DigitalID = &digitalID
		user.IDIssuedAt = &now
		meta := map[string]interface{}{"previousDigitalId": previous, "digitalId": digitalID}
		entry := audit.NewEntry(ActionIDCardReissued, audit.Admin(adminID), "user", userID, meta)
		if err := s.auditRepo.WithTx(tx).Create(ctx, entry); err != nil {
			return err
		}
		card, err = s.signer.Card(user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// Verify checks a scanned card. Unknown IDs and wrong codes both report invalid.
func (s *CardService) Verify(ctx context.Context, digitalID, code string) (*VerifyResult, error) {
	digitalID = strings.TrimSpace(digitalID)
	code = strings.ToLower(strings.TrimSpace(code))
	if digitalID == "" || code == "" {
		return &VerifyResult{Valid: false}, nil
	}
	user, err := s.repo.First(ctx, "digital_id = ?", digitalID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &VerifyResult{Valid: false}, nil
	} else if err != nil {
		return nil, err
	}
	if user.MembershipNumber == nil || !s.signer.Verify(digitalID, *user.MembershipNumber, code) {
		return &VerifyResult{Valid: false}, nil
	}
	return &VerifyResult{
		Valid: user.Status == model.UserStatusApproved,
		Member: &MemberSummary{
			Name:             user.FullName(),
			MembershipNumber: *user.MembershipNumber,
			Employer:         user.Employer,
			Status:           user.Status,
		},
	}, nil
}

func NewCardService(tx database.Transactor, repo Repository, auditRepo audit.Repository, signer *Signer) *CardService {
	return &CardService{tx: tx, repo: repo, auditRepo: auditRepo, signer: signer}
}
