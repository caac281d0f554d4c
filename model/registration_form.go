package model

import "time"

// RegistrationForm is the optional supplementary submission of an applicant
type RegistrationForm struct {
	ID                  uint       `gorm:"primarykey" json:"id"`
	UserID              uint       `gorm:"uniqueIndex;not null" json:"userId"`
	EmploymentProofPath string     `gorm:"size:512" json:"employmentProofPath"`
	IDPhotoPath         string     `gorm:"size:512" json:"idPhotoPath"`
	Remarks             string     `gorm:"size:2048" json:"remarks"`
	SubmittedAt         *time.Time `json:"submittedAt"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}
