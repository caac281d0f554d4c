package model

import "time"

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled:
		return true
	}
	return false
}

type Event struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Title       string            `gorm:"size:256;not null" json:"title"`
	Description string            `gorm:"type:text" json:"description"`
	Location    string            `gorm:"size:256" json:"location"`
	StartsAt    time.Time         `gorm:"not null;index" json:"startsAt"`
	EndsAt      *time.Time        `json:"endsAt"`
	Capacity    int               `gorm:"default:0" json:"capacity"` // 0 = unlimited
	Status      EventStatus       `gorm:"size:16;not null;default:'draft';index" json:"status"`
	CreatedBy   uint              `json:"createdBy"`
	Attachments []EventAttachment `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type EventAttachment struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	EventID      uint      `gorm:"index;not null" json:"eventId"`
	FilePath     string    `gorm:"size:512;not null" json:"filePath"`
	OriginalName string    `gorm:"size:256" json:"originalName"`
	CreatedAt    time.Time `json:"createdAt"`
}

type EventRegistration struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_event_registration" json:"eventId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_event_registration" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
