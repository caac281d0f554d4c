package settings

import "errors"

var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidValue   = errors.New("invalid setting value")
	ErrEmptyUpdate    = errors.New("no settings to update")
)
