package domain

import "time"

const (
	NotificationDelivered = "delivered"
	NotificationRead      = "read"
)

const (
	NotifyPaymentReceived    = "Rent Payment Received"
	NotifyRentExpiryReminder = "Rent Expiry Reminder"
	NotifyRentRenewalOffer   = "Rent Renewal Offer"
	NotifyRentRenewed        = "Rent Renewed"
)

type Credentials struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	UserID         string    `gorm:"size:36;index;not null" json:"user"`
	CardNumber     string    `gorm:"size:32;not null" json:"-"`
	CardholderName string    `gorm:"size:128;not null" json:"cardholderName"`
	ExpiryDate     string    `gorm:"size:32;not null" json:"expiryDate"`
	SecurityCode   string    `gorm:"size:8;not null" json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Credentials) TableName() string { return "credentials" }

func (c *Credentials) GetID() string          { return c.ID }
func (c *Credentials) OwnerRef() string       { return c.UserID }
func (c *Credentials) Stamp(id, owner string) { c.ID, c.UserID = id, owner }

// MaskedNumber 仅保留末四位
func (c *Credentials) MaskedNumber() string {
	n := c.CardNumber
	if len(n) <= 4 {
		return n
	}
	masked := make([]byte, len(n)-4)
	for i := range masked {
		masked[i] = '*'
	}
	return string(masked) + n[len(n)-4:]
}

type Feedback struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index;not null" json:"user"`
	Subject   string    `gorm:"size:255" json:"subject,omitempty"`
	Message   string    `gorm:"size:4096;not null" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Feedback) TableName() string { return "feedbacks" }

func (f *Feedback) GetID() string          { return f.ID }
func (f *Feedback) OwnerRef() string       { return f.UserID }
func (f *Feedback) Stamp(id, owner string) { f.ID, f.UserID = id, owner }

type Notification struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index;not null" json:"user"`
	Content   string    `gorm:"size:1024;not null" json:"content"`
	Status    string    `gorm:"size:16;not null" json:"status"`
	Type      string    `gorm:"size:64;not null" json:"type"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) GetID() string          { return n.ID }
func (n *Notification) OwnerRef() string       { return n.UserID }
func (n *Notification) Stamp(id, owner string) { n.ID, n.UserID = id, owner }
