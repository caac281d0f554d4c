package idcards

import (
	"fmt"
	"time"

	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/model"
	"github.com/khanghh/unionhub/params"
)

type Card struct {
	UserID           uint             `json:"userId"`
	Name             string           `json:"name"`
	MembershipNumber string           `json:"membershipNumber"`
	DigitalID        string           `json:"digitalId"`
	Employer         string           `json:"employer"`
	Position         string           `json:"position"`
	Status           model.UserStatus `json:"status"`
	IssuedAt         *time.Time       `json:"issuedAt"`
	VerificationCode string           `json:"verificationCode"`
}

// MembershipNumber formats <prefix>-<year>-<6 digit id>.
func MembershipNumber(prefix string, year int, userID uint) string {
	return fmt.Sprintf("%s-%d-%06d", prefix, year, userID)
}

func NewDigitalID() string {
	return params.DigitalIDPrefix + model.GenerateID().Base58()
}

// Signer derives the short verification code printed on a card.
type Signer struct {
	secret string
}

func (s *Signer) Code(digitalID, membershipNumber string) string {
	return common.CalculateHash(s.secret, digitalID, membershipNumber)[:params.VerificationCodeLength]
}

func (s *Signer) Verify(digitalID, membershipNumber, code string) bool {
	if len(code) != params.VerificationCodeLength {
		return false
	}
	return common.VerifyHash(s.Code(digitalID, membershipNumber), code)
}

func (s *Signer) Card(user *model.User) (*Card, error) {
	if user.DigitalID == nil || user.MembershipNumber == nil {
		return nil, ErrCardNotIssued
	}
	return &Card{
		UserID:           user.ID,
		Name:             user.FullName(),
		MembershipNumber: *user.MembershipNumber,
		DigitalID:        *user.DigitalID,
		Employer:         user.Employer,
		Position:         user.Position,
		Status:           user.Status,
		IssuedAt:         user.IDIssuedAt,
		VerificationCode: s.Code(*user.DigitalID, *user.MembershipNumber),
	}, nil
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: secret}
}
