package model

import "time"

type DocumentCategory string

const (
	DocumentIDPhoto         DocumentCategory = "id_photo"
	DocumentEmploymentProof DocumentCategory = "employment_proof"
	DocumentSignature       DocumentCategory = "signature"
	DocumentOther           DocumentCategory = "other"
)

func (c DocumentCategory) Valid() bool {
	switch c {
	case DocumentIDPhoto, DocumentEmploymentProof, DocumentSignature, DocumentOther:
		return true
	}
	return false
}

// UserDocument is a file uploaded by a user
type UserDocument struct {
	ID           uint             `gorm:"primarykey" json:"id"`
	UserID       uint             `gorm:"index;not null" json:"userId"`
	Category     DocumentCategory `gorm:"size:32;not null;index" json:"category"`
	FilePath     string           `gorm:"size:512;not null" json:"filePath"`
	OriginalName string           `gorm:"size:256" json:"originalName"`
	MimeType     string           `gorm:"size:128" json:"mimeType"`
	Size         int64            `json:"size"`
	VerifiedAt   *time.Time       `json:"verifiedAt"`
	CreatedAt    time.Time        `json:"createdAt"`
}
