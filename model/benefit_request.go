package model

import "time"

type BenefitStatus string

const (
	BenefitStatusPending  BenefitStatus = "pending"
	BenefitStatusApproved BenefitStatus = "approved"
	BenefitStatusRejected BenefitStatus = "rejected"
	BenefitStatusReleased BenefitStatus = "released"
)

// BenefitRequest is a member's claim for a union benefit
type BenefitRequest struct {
	ID          uint          `gorm:"primarykey" json:"id"`
	UserID      uint          `gorm:"index;not null" json:"userId"`
	BenefitType string        `gorm:"size:64;not null" json:"benefitType"`
	AmountCents int64         `json:"amountCents"`
	Reason      string        `gorm:"size:2048" json:"reason"`
	Status      BenefitStatus `gorm:"size:16;not null;default:'pending';index" json:"status"`
	ReviewedBy  *uint         `json:"reviewedBy"`
	ReviewedAt  *time.Time    `json:"reviewedAt"`
	ReviewNotes string        `gorm:"size:2048" json:"reviewNotes"`
	ReleasedAt  *time.Time    `json:"releasedAt"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
