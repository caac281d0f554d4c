package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is an append-only record of an administrative or system action
type AuditLog struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Action       string         `gorm:"size:64;not null;index" json:"action"`
	ActorAdminID *uint          `gorm:"index" json:"actorAdminId"`
	ActorUserID  *uint          `gorm:"index" json:"actorUserId"`
	EntityType   string         `gorm:"size:64;index:idx_audit_entity" json:"entityType"`
	EntityID     *uint          `gorm:"index:idx_audit_entity" json:"entityId"`
	Metadata     datatypes.JSON `json:"metadata"`
	IPAddress    string         `gorm:"size:64" json:"ipAddress"`
	CreatedAt    time.Time      `gorm:"index" json:"createdAt"`
}
