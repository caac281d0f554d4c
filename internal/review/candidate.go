package review

import (
	"time"

	"github.com/khanghh/unionhub/model"
	"github.com/khanghh/unionhub/params"
)

const (
	PriorityHigh   = "High"
	PriorityNormal = "Normal"

	RiskDuplicateEmail       = "Duplicate email address detected."
	RiskMissingEmployment    = "Employment proof document is missing."
	RiskMissingIDPhoto       = "ID photo document is missing."
	RiskIncompleteEmployment = "Employment information is incomplete."
)

// CandidateRow is one row of the candidate query.
type CandidateRow struct {
	model.User          `gorm:"embedded"`
	FormID              *uint
	EmploymentProofPath *string
	IDPhotoPath         *string
	Remarks             *string
	SubmittedAt         *time.Time
	EmailCount          int64
	HasEmploymentProof  bool
	HasIDPhoto          bool
}

type Candidate struct {
	ID                 uint                  `json:"id"`
	FirstName          string                `json:"firstName"`
	LastName           string                `json:"lastName"`
	FullName           string                `json:"fullName"`
	Email              string                `json:"email"`
	Phone              *string               `json:"phone"`
	Status             model.UserStatus      `json:"status"`
	StatusLabel        string                `json:"statusLabel"`
	StatusTone         string                `json:"statusTone"`
	Employer           string                `json:"employer"`
	Position           string                `json:"position"`
	EmployeeID         string                `json:"employeeId"`
	Remarks            string                `json:"remarks"`
	SubmittedAt        time.Time             `json:"submittedAt"`
	CreatedAt          time.Time             `json:"createdAt"`
	DuplicateFlag      bool                  `json:"duplicateFlag"`
	DocumentsComplete  bool                  `json:"documentsComplete"`
	EmploymentComplete bool                  `json:"employmentComplete"`
	Priority           string                `json:"priority"`
	RiskNotes          []string              `json:"riskNotes"`
	Documents          []*model.UserDocument `json:"documents,omitempty"`
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}

// Annotate derives the review flags of a candidate row.
func Annotate(row *CandidateRow) *Candidate {
	label := LookupStatus(row.Status)
	hasEmploymentProof := row.HasEmploymentProof || nonEmpty(row.EmploymentProofPath)
	hasIDPhoto := row.HasIDPhoto || nonEmpty(row.IDPhotoPath)

	c := &Candidate{
		ID:                 row.ID,
		FirstName:          row.FirstName,
		LastName:           row.LastName,
		FullName:           row.FullName(),
		Email:              row.Email,
		Phone:              row.Phone,
		Status:             row.Status,
		StatusLabel:        label.Label,
		StatusTone:         label.Tone,
		Employer:           row.Employer,
		Position:           row.Position,
		EmployeeID:         row.EmployeeID,
		SubmittedAt:        row.CreatedAt,
		CreatedAt:          row.CreatedAt,
		DuplicateFlag:      row.EmailCount > 1,
		DocumentsComplete:  hasEmploymentProof && hasIDPhoto,
		EmploymentComplete: row.EmploymentComplete(),
		Priority:           PriorityNormal,
	}
	if row.SubmittedAt != nil {
		c.SubmittedAt = *row.SubmittedAt
	}
	if row.Remarks != nil {
		c.Remarks = *row.Remarks
	}
	if c.Status == model.UserStatusUnderReview || c.DuplicateFlag {
		c.Priority = PriorityHigh
	}

	notes := []string{}
	if c.DuplicateFlag {
		notes = append(notes, RiskDuplicateEmail)
	}
	if !hasEmploymentProof {
		notes = append(notes, RiskMissingEmployment)
	}
	if !hasIDPhoto {
		notes = append(notes, RiskMissingIDPhoto)
	}
	if !c.EmploymentComplete {
		notes = append(notes, RiskIncompleteEmployment)
	}
	if len(notes) == 0 {
		notes = append(notes, params.MsgNoRiskIndicators)
	}
	c.RiskNotes = notes
	return c
}
