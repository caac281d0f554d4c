package model

import (
	"time"
)

type UserStatus string

const (
	UserStatusIncomplete    UserStatus = "incomplete"
	UserStatusPending       UserStatus = "pending"
	UserStatusEmailVerified UserStatus = "email_verified"
	UserStatusUnderReview   UserStatus = "under_review"
	UserStatusApproved      UserStatus = "approved"
	UserStatusRejected      UserStatus = "rejected"
	UserStatusSuspended     UserStatus = "suspended"
)

// ReviewableStatuses are the statuses that put a user in the registration review queue.
var ReviewableStatuses = []UserStatus{UserStatusPending, UserStatusEmailVerified, UserStatusUnderReview}

// User stores an applicant or member
type User struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	FirstName        string     `gorm:"size:64;not null" json:"firstName"`
	LastName         string     `gorm:"size:64;not null" json:"lastName"`
	Email            string     `gorm:"uniqueIndex:idx_users_email;size:256;not null" json:"email"`
	Phone            *string    `gorm:"uniqueIndex:idx_users_phone;size:32" json:"phone"`
	Password         string     `gorm:"size:64;not null" json:"-"`
	Status           UserStatus `gorm:"type:enum('incomplete','pending','email_verified','under_review','approved','rejected','suspended');default:'incomplete';not null;index" json:"status"`
	Employer         string     `gorm:"size:128" json:"employer"`
	Position         string     `gorm:"size:128" json:"position"`
	EmployeeID       string     `gorm:"size:64" json:"employeeId"`
	Address          string     `gorm:"size:512" json:"address"`
	BirthDate        *time.Time `gorm:"type:date" json:"birthDate"`
	MembershipNumber *string    `gorm:"uniqueIndex:idx_users_membership_number;size:32" json:"membershipNumber"`
	DigitalID        *string    `gorm:"uniqueIndex:idx_users_digital_id;size:32" json:"digitalId"`
	IDIssuedAt       *time.Time `json:"idIssuedAt"`
	ApprovedAt       *time.Time `json:"approvedAt"`
	ApprovedBy       *uint      `json:"approvedBy"`
	RejectedReason   string     `gorm:"size:1024" json:"rejectedReason,omitempty"`
	LastLoginAt      *time.Time `gorm:"index" json:"lastLoginAt"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// EmploymentComplete reports whether the employment section of the profile is filled.
func (u *User) EmploymentComplete() bool {
	return u.Employer != "" && u.Position != "" && u.EmployeeID != ""
}
