package events

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/khanghh/unionhub/internal/audit"
	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/internal/database"
	"github.com/khanghh/unionhub/internal/uploads"
	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
)

const (
	ActionEventCreated    = "event_created"
	ActionEventUpdated    = "event_updated"
	ActionEventCancelled  = "event_cancelled"
	ActionEventDeleted    = "event_deleted"
	ActionEventRegistered = "event_registered"

	attachmentDir = "events"
)

type FileStorage interface {
	Save(fh *multipart.FileHeader, subdir string) (*uploads.File, error)
	Remove(relPath string) error
}

// EventInput carries the editable event fields. On update nil fields are left untouched.
type EventInput struct {
	Title       *string
	Description *string
	Location    *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Capacity    *int
	Status      *model.EventStatus
}

type EventView struct {
	*model.Event
	RegisteredCount int64 `json:"registeredCount"`
}

type ListResult struct {
	Items []*model.Event  `json:"data"`
	Meta  common.PageMeta `json:"meta"`
}

type EventService struct {
	tx        database.Transactor
	repo      Repository
	auditRepo audit.Repository
	files     FileStorage
	now       func() time.Time
}

func applyInput(event *model.Event, input EventInput) (map[string]interface{}, error) {
	columns := make(map[string]interface{})
	if input.Title != nil {
		event.Title = strings.TrimSpace(*input.Title)
		columns["title"] = event.Title
	}
	if input.Description != nil {
		event.Description = strings.TrimSpace(*input.Description)
		columns["description"] = event.Description
	}
	if input.Location != nil {
		event.Location = strings.TrimSpace(*input.Location)
		columns["location"] = event.Location
	}
	if input.StartsAt != nil {
		event.StartsAt = *input.StartsAt
		columns["starts_at"] = event.StartsAt
	}
	if input.EndsAt != nil {
		event.EndsAt = input.EndsAt
		columns["ends_at"] = *input.EndsAt
	}
	if input.Capacity != nil {
		if *input.Capacity < 0 {
			return nil, ErrInvalidEvent
		}
		event.Capacity = *input.Capacity
		columns["capacity"] = event.Capacity
	}
	if input.Status != nil {
		if *input.Status != model.EventStatusDraft && *input.Status != model.EventStatusPublished {
			return nil, ErrInvalidStatus
		}
		event.Status = *input.Status
		columns["status"] = event.Status
	}
	if event.Title == "" || event.StartsAt.IsZero() {
		return nil, ErrInvalidEvent
	}
	if event.EndsAt != nil && !event.EndsAt.After(event.StartsAt) {
		return nil, ErrInvalidSchedule
	}
	return columns, nil
}

func (s *EventService) removeFiles(paths []string) {
	for _, path := range paths {
		if err := s.files.Remove(path); err != nil {
			slog.Warn("Failed to remove event attachment", "path", path, "error", err)
		}
	}
}

// Create stores the uploaded attachments then writes the event and its attachment
// rows in one transaction. Stored files are removed again when the transaction fails.
func (s *EventService) Create(ctx context.Context, adminID uint, input EventInput, files []*multipart.FileHeader) (*model.Event, error) {
	event := &model.Event{Status: model.EventStatusDraft, CreatedBy: adminID}
	if _, err := applyInput(event, input); err != nil {
		return nil, err
	}

	saved := make([]*uploads.File, 0, len(files))
	paths := make([]string, 0, len(files))
	for _, fh := range files {
		file, err := s.files.Save(fh, attachmentDir)
		if err != nil {
			s.removeFiles(paths)
			return nil, err
		}
		saved = append(saved, file)
		paths = append(paths, file.Path)
	}

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, event); err != nil {
			return err
		}
		attachments := make([]*model.EventAttachment, 0, len(saved))
		for _, file := range saved {
			attachments = append(attachments, &model.EventAttachment{
				EventID:      event.ID,
				FilePath:     file.Path,
				OriginalName: file.OriginalName,
			})
		}
		if err := repo.CreateAttachments(ctx, attachments); err != nil {
			return err
		}
		for _, attachment := range attachments {
			event.Attachments = append(event.Attachments, *attachment)
		}
		meta := map[string]interface{}{"title": event.Title, "attachments": len(attachments)}
		return s.auditRepo.WithTx(tx).Create(ctx, audit.NewEntry(ActionEventCreated, audit.Admin(adminID), "event", event.ID, meta))
	})
	if err != nil {
		s.removeFiles(paths)
		return nil, err
	}
	return event, nil
}

func (s *EventService) Get(ctx context.Context, id uint) (*EventView, error) {
	event, err := s.repo.First(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	} else if err != nil {
		return nil, err
	}
	count, err := s.repo.CountRegistrations(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EventView{Event: event, RegisteredCount: count}, nil
}

func (s *EventService) List(ctx context.Context, filter Filter, page common.PageRequest) (*ListResult, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	items, total, err := s.repo.Find(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Meta: common.NewPageMeta(page, total)}, nil
}

// ListUpcoming returns the published events that have not started yet.
func (s *EventService) ListUpcoming(ctx context.Context, page common.PageRequest) (*ListResult, error) {
	now := s.now()
	return s.List(ctx, Filter{Status: model.EventStatusPublished, StartsAfter: &now}, page)
}

func (s *EventService) lockEvent(ctx context.Context, repo Repository, id uint) (*model.Event, error) {
	event, err := repo.LockFirst(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	return event, err
}

func (s *EventService) Update(ctx context.Context, adminID, id uint, input EventInput) (*model.Event, error) {
	var event *model.Event
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		repo := s.repo.WithTx(tx)
		if event, err = s.lockEvent(ctx, repo, id); err != nil {
			return err
		}
		if event.Status == model.EventStatusCancelled {
			return ErrEventCancelled
		}
		columns, err := applyInput(event, input)
		if err != nil {
			return err
		}
		if len(columns) == 0 {
			return nil
		}
		if err := repo.Updates(ctx, id, columns); err != nil {
			return err
		}
		keys := make([]string, 0, len(columns))
		for key := range columns {
			keys = append(keys, key)
		}
		meta := map[string]interface{}{"fields": keys}
		return s.auditRepo.WithTx(tx).Create(ctx, audit.NewEntry(ActionEventUpdated, audit.Admin(adminID), "event", id, meta))
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Cancel(ctx context.Context, adminID, id uint) (*model.Event, error) {
	var event *model.Event
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		repo := s.repo.WithTx(tx)
		if event, err = s.lockEvent(ctx, repo, id); err != nil {
			return err
		}
		if event.Status == model.EventStatusCancelled {
			return ErrEventCancelled
		}
		event.Status = model.EventStatusCancelled
		if err := repo.Updates(ctx, id, map[string]interface{}{"status": event.Status}); err != nil {
			return err
		}
		return s.auditRepo.WithTx(tx).Create(ctx, audit.NewEntry(ActionEventCancelled, audit.Admin(adminID), "event", id, nil))
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes a draft event with its attachments.
func (s *EventService) Delete(ctx context.Context, adminID, id uint) error {
	var paths []string
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		event, err := s.lockEvent(ctx, repo, id)
		if err != nil {
			return err
		}
		if event.Status != model.EventStatusDraft {
			return ErrEventNotDraft
		}
		for _, attachment := range event.Attachments {
			paths = append(paths, attachment.FilePath)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		meta := map[string]interface{}{"title": event.Title}
		return s.auditRepo.WithTx(tx).Create(ctx, audit.NewEntry(ActionEventDeleted, audit.Admin(adminID), "event", id, meta))
	})
	if err != nil {
		return err
	}
	s.removeFiles(paths)
	return nil
}

// Register signs a member up. The event row stays locked while the seat count is
// checked so concurrent sign-ups cannot exceed the capacity.
func (s *EventService) Register(ctx context.Context, userID, eventID uint) (*model.EventRegistration, error) {
	reg := &model.EventRegistration{EventID: eventID, UserID: userID}
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		event, err := s.lockEvent(ctx, repo, eventID)
		if err != nil {
			return err
		}
		if event.Status != model.EventStatusPublished || !event.StartsAt.After(s.now()) {
			return ErrEventClosed
		}
		if event.Capacity > 0 {
			count, err := repo.CountRegistrations(ctx, eventID)
			if err != nil {
				return err
			}
			if count >= int64(event.Capacity) {
				return ErrEventFull
			}
		}
		if err := repo.CreateRegistration(ctx, reg); err != nil {
			if database.IsDuplicateKey(err) {
				return ErrAlreadyRegistered
			}
			return err
		}
		return s.auditRepo.WithTx(tx).Create(ctx, audit.NewEntry(ActionEventRegistered, audit.User(userID), "event", eventID, nil))
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func NewEventService(tx database.Transactor, repo Repository, auditRepo audit.Repository, files FileStorage) *EventService {
	return &EventService{
		tx:        tx,
		repo:      repo,
		auditRepo: auditRepo,
		files:     files,
		now:       time.Now,
	}
}
