package model

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is a key/value console setting
type Setting struct {
	Key       string         `gorm:"primarykey;size:128" json:"key"`
	Value     datatypes.JSON `json:"value"`
	UpdatedBy *uint          `json:"updatedBy"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
