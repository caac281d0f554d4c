package audit

import (
	"context"
	"errors"

	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
)

type Summary struct {
	ByAction    map[string]int64 `json:"byAction"`
	ByActorType map[string]int64 `json:"byActorType"`
}

type ListResult struct {
	Items   []*Entry        `json:"data"`
	Meta    common.PageMeta `json:"meta"`
	Summary Summary         `json:"summary"`
}

type AuditService struct {
	repo Repository
}

// Repo exposes the repository so transactional writers can bind it to their tx.
func (s *AuditService) Repo() Repository {
	return s.repo
}

func (s *AuditService) Record(ctx context.Context, log *model.AuditLog) error {
	return s.repo.Create(ctx, log)
}

func (s *AuditService) Get(ctx context.Context, id uint) (*Entry, error) {
	log, err := s.repo.First(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAuditLogNotFound
	} else if err != nil {
		return nil, err
	}
	return NewEntryView(log), nil
}

func (s *AuditService) List(ctx context.Context, filter Filter, page common.PageRequest) (*ListResult, error) {
	logs, total, err := s.repo.Find(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	byAction, err := s.repo.CountByAction(ctx, filter)
	if err != nil {
		return nil, err
	}
	byActorType, err := s.repo.CountByActorType(ctx, filter)
	if err != nil {
		return nil, err
	}
	if byActorType == nil {
		byActorType = make(map[string]int64, len(ActorTypes))
	}
	for _, t := range ActorTypes {
		if _, ok := byActorType[string(t)]; !ok {
			byActorType[string(t)] = 0
		}
	}

	items := make([]*Entry, 0, len(logs))
	for _, log := range logs {
		items = append(items, NewEntryView(log))
	}
	return &ListResult{
		Items:   items,
		Meta:    common.NewPageMeta(page, total),
		Summary: Summary{ByAction: byAction, ByActorType: byActorType},
	}, nil
}

func NewAuditService(repo Repository) *AuditService {
	return &AuditService{repo: repo}
}
