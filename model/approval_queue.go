package model

import "time"

type QueueType string

const (
	QueueTypeRegistration QueueType = "registration"
	QueueTypeBenefit      QueueType = "benefit"
	QueueTypeTicket       QueueType = "ticket"
)

type QueueStatus string

const (
	QueueStatusPending  QueueStatus = "pending"
	QueueStatusInReview QueueStatus = "in_review"
	QueueStatusApproved QueueStatus = "approved"
	QueueStatusReturned QueueStatus = "returned"
	QueueStatusRejected QueueStatus = "rejected"
)

// ApprovalQueue is an item awaiting administrative sign-off
type ApprovalQueue struct {
	ID              uint        `gorm:"primarykey" json:"id"`
	QueueType       QueueType   `gorm:"size:32;not null;uniqueIndex:idx_approval_queue_ref" json:"queueType"`
	ReferenceTable  string      `gorm:"size:64;not null;uniqueIndex:idx_approval_queue_ref" json:"referenceTable"`
	ReferenceID     uint        `gorm:"not null;uniqueIndex:idx_approval_queue_ref" json:"referenceId"`
	Status          QueueStatus `gorm:"size:32;not null;default:'pending';index" json:"status"`
	AssignedAdminID *uint       `json:"assignedAdminId"`
	Notes           string      `gorm:"size:2048" json:"notes"`
	ResolvedAt      *time.Time  `json:"resolvedAt"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}
