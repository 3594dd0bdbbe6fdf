package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type GuestStatus string

const (
	GuestNew       GuestStatus = "NEW"
	GuestCompleted GuestStatus = "COMPLETED"
	GuestCanceled  GuestStatus = "CANCELED"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

type Guest struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	HotelID     uint            `gorm:"not null;index" json:"hotel_id"`
	RoomID      *uint           `gorm:"index" json:"room_id"`
	Status      GuestStatus     `gorm:"type:varchar(20);not null;default:'NEW';index" json:"status"`
	OrderNumber string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_number"`
	Gender      Gender          `gorm:"type:varchar(10)" json:"gender"`
	FullName    string          `gorm:"not null" json:"full_name"`
	Count       int             `gorm:"not null;default:1" json:"count"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	CheckIn     time.Time       `gorm:"not null;index" json:"check_in"`
	CheckOut    time.Time       `gorm:"not null;index" json:"check_out"`

	// LastAccruedOn is the start of the last hotel day billed by the daily accrual.
	LastAccruedOn *time.Time `json:"last_accrued_on,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Room *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

func (g *Guest) IsActive() bool {
	return g.Status == GuestNew
}
