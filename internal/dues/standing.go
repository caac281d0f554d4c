package dues

import (
	"strings"
	"time"

	"github.com/khanghh/unionhub/model"
)

// Standing is the dues position of a member derived from the latest ledger row.
type Standing string

const (
	StandingNoRecord Standing = "No Record"
	StandingPaid     Standing = "Paid"
	StandingOverdue  Standing = "Overdue"
	StandingDue      Standing = "Due"
)

var Standings = []Standing{StandingNoRecord, StandingPaid, StandingOverdue, StandingDue}

// ParseStanding accepts the label or its snake case form, case-insensitively.
func ParseStanding(s string) (Standing, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", " ")
	for _, standing := range Standings {
		if strings.EqualFold(string(standing), s) {
			return standing, true
		}
	}
	return "", false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Classify derives the standing from the most recent ledger row only. An unpaid row
// becomes overdue once its due date plus graceDays is before today.
func Classify(latest *model.DuesLedger, today time.Time, graceDays int) Standing {
	if latest == nil {
		return StandingNoRecord
	}
	switch latest.Status {
	case model.DuesStatusPaid, model.DuesStatusWaived:
		return StandingPaid
	}
	deadline := truncateDay(latest.DueDate).AddDate(0, 0, graceDays)
	if deadline.Before(truncateDay(today)) {
		return StandingOverdue
	}
	return StandingDue
}
