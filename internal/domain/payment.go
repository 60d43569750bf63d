package domain

import "time"

const PaymentMethodCard = "card"

// Payment 创建后不可修改，仅由支付编排写入
type Payment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index;not null" json:"user"`
	OfficeID  string    `gorm:"size:36;index;not null" json:"office"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Currency  string    `gorm:"size:8;not null" json:"currency"`
	Method    string    `gorm:"size:32;not null" json:"paymentMethod"`
	IntentID  string    `gorm:"size:128;uniqueIndex;not null" json:"intentId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) GetID() string          { return p.ID }
func (p *Payment) OwnerRef() string       { return p.UserID }
func (p *Payment) Stamp(id, owner string) { p.ID, p.UserID = id, owner }

// Models 全部需要迁移的表
func Models() []any {
	return []any{&User{}, &Office{}, &Credentials{}, &Feedback{}, &Notification{}, &Payment{}}
}
