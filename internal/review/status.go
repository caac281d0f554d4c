package review

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/khanghh/unionhub/model"
)

type StatusLabel struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
}

var statusLabels = map[model.UserStatus]StatusLabel{
	model.UserStatusPending:       {"Pending", "warning"},
	model.UserStatusEmailVerified: {"Email Verified", "info"},
	model.UserStatusUnderReview:   {"Under Review", "primary"},
	model.UserStatusApproved:      {"Approved", "success"},
	model.UserStatusRejected:      {"Rejected", "danger"},
	model.UserStatusSuspended:     {"Suspended", "dark"},
	model.UserStatusIncomplete:    {"Incomplete", "muted"},
}

func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' || unicode.IsSpace(r) })
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
	}
	return strings.Join(words, " ")
}

// LookupStatus returns the display label of a status. Unknown values are title-cased
// with the secondary tone.
func LookupStatus(status model.UserStatus) StatusLabel {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return StatusLabel{Label: titleCase(string(status)), Tone: "secondary"}
}
