package model

import "time"

type AdminRole string

const (
	AdminRoleSuperAdmin AdminRole = "super_admin"
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleStaff      AdminRole = "staff"
)

func (r AdminRole) Valid() bool {
	switch r {
	case AdminRoleSuperAdmin, AdminRoleAdmin, AdminRoleStaff:
		return true
	}
	return false
}

// Admin is a console operator
type Admin struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Name        string     `gorm:"size:64;not null" json:"name"`
	Email       string     `gorm:"uniqueIndex:idx_admins_email;size:256;not null" json:"email"`
	Password    string     `gorm:"size:64;not null" json:"-"`
	Role        AdminRole  `gorm:"size:32;not null;default:'staff'" json:"role"`
	TOTPSecret  string     `gorm:"size:64" json:"-"`
	TOTPEnabled bool       `gorm:"default:false;not null" json:"totpEnabled"`
	Disabled    bool       `gorm:"default:false;not null" json:"disabled"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
