package domain

import "time"

const (
	RoleOwner  = "owner"
	RoleRenter = "renter"
)

func ValidRole(r string) bool { return r == RoleOwner || r == RoleRenter }

type User struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	Email             string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name              string    `gorm:"size:64;not null" json:"name"`
	PasswordHash      string    `gorm:"size:100;not null" json:"-"`
	PhoneNumber       string    `gorm:"size:32" json:"phoneNumber"`
	ProfilePic        string    `gorm:"size:512" json:"profilePic,omitempty"`
	Role              string    `gorm:"size:16;not null" json:"role"` // "owner"/"renter"
	BillingCustomerID string    `gorm:"size:64" json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Caller 是鉴权通过后挂在请求上下文里的调用者身份
type Caller struct {
	ID                string
	Email             string
	Role              string
	BillingCustomerID string
}

func CallerOf(u *User) *Caller {
	return &Caller{ID: u.ID, Email: u.Email, Role: u.Role, BillingCustomerID: u.BillingCustomerID}
}
