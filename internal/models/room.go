package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Room is a bucket of Count identical physical rooms of one type in one hotel.
// The occupancy counters are derived state owned by the occupancy reconciler.
type Room struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	HotelID    uint `gorm:"not null;uniqueIndex:idx_room_hotel_type" json:"hotel_id"`
	RoomTypeID uint `gorm:"not null;uniqueIndex:idx_room_hotel_type" json:"room_type_id"`
	Capacity   int  `gorm:"not null" json:"capacity"`
	Count      int  `gorm:"not null" json:"count"`

	OccupiedCount     int  `gorm:"not null;default:0" json:"occupied_count"`
	AvailableCount    int  `gorm:"not null;default:0" json:"available_count"`
	RemainingCapacity int  `gorm:"not null;default:0" json:"remaining_capacity"`
	IsBusy            bool `gorm:"not null;default:false" json:"is_busy"`

	NetPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"net_price"`
	Profit     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"profit"`
	GrossPrice decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"gross_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Hotel    *Hotel    `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
	RoomType *RoomType `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
}

// TotalSlots is the number of beds across every physical room of the bucket.
func (r *Room) TotalSlots() int {
	return r.Capacity * r.Count
}

func (r *Room) ApplyPricing(net, profit decimal.Decimal) {
	r.NetPrice = net
	r.Profit = profit
	r.GrossPrice = net.Add(profit)
}
