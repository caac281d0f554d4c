package security

import (
	"github.com/pquerna/otp/totp"
)

type TOTPKey struct {
	Secret string `json:"secret"`
	URL    string `json:"otpauthUrl"`
}

func GenerateTOTP(issuer, accountName string) (*TOTPKey, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
	})
	if err != nil {
		return nil, err
	}
	return &TOTPKey{Secret: key.Secret(), URL: key.URL()}, nil
}

func ValidateTOTP(code, secret string) error {
	if code == "" || secret == "" || !totp.Validate(code, secret) {
		return ErrTOTPInvalidCode
	}
	return nil
}
