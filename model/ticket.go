package model

import "time"

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityNormal TicketPriority = "normal"
	TicketPriorityHigh   TicketPriority = "high"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityNormal, TicketPriorityHigh:
		return true
	}
	return false
}

// Ticket is a member support request
type Ticket struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	TicketNumber    string         `gorm:"uniqueIndex;size:32;not null" json:"ticketNumber"`
	UserID          uint           `gorm:"index;not null" json:"userId"`
	Subject         string         `gorm:"size:256;not null" json:"subject"`
	Category        string         `gorm:"size:64" json:"category"`
	Description     string         `gorm:"type:text" json:"description"`
	Priority        TicketPriority `gorm:"size:16;not null;default:'normal'" json:"priority"`
	Status          TicketStatus   `gorm:"size:16;not null;default:'open';index" json:"status"`
	AssignedAdminID *uint          `json:"assignedAdminId"`
	Resolution      string         `gorm:"type:text" json:"resolution"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}
