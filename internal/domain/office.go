package domain

import (
	"math"
	"time"
)

const (
	StatusAvailable = "available"
	StatusRented    = "rented"
)

var OfficeTypes = []string{
	"permanent",
	"private day",
	"meeting room",
	"co working desk",
	"event space",
}

type Office struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID      string    `gorm:"size:36;index;not null" json:"owner"`
	RenterID     *string   `gorm:"size:36;index" json:"renter"`
	BuildingName string    `gorm:"size:128;not null" json:"buildingName"`
	BuildingSize float64   `gorm:"not null" json:"buildingSize"`
	Description  string    `gorm:"size:2048" json:"description,omitempty"`
	MonthlyRate  float64   `gorm:"not null" json:"monthlyRate"`
	Images       []string  `gorm:"serializer:json;not null" json:"image"`
	Address      string    `gorm:"size:255;not null" json:"address"`
	Latitude     float64   `gorm:"not null" json:"latitude"`
	Longitude    float64   `gorm:"not null" json:"longitude"`
	RentalStatus string    `gorm:"size:16;index;not null;default:available" json:"rentalStatus"`
	OfficeTypes  []string  `gorm:"serializer:json;not null" json:"officeType"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Office) TableName() string { return "offices" }

func (o *Office) GetID() string    { return o.ID }
func (o *Office) OwnerRef() string { return o.OwnerID }
func (o *Office) Stamp(id, owner string) {
	o.ID, o.OwnerID = id, owner
}

// MonthlyCharge 月租折算为最小货币单位（分）
func (o *Office) MonthlyCharge() int64 {
	return int64(math.Round(o.MonthlyRate * 100))
}
