package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type GuestType string

const (
	GuestTypeIndividual GuestType = "INDIVIDUAL"
	GuestTypeGroup      GuestType = "GROUP"
)

type OrderStatus string

const (
	OrderPlanned   OrderStatus = "PLANNED"
	OrderActive    OrderStatus = "ACTIVE"
	OrderCompleted OrderStatus = "COMPLETED"
)

type HotelOrder struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	HotelID       uint            `gorm:"not null;index" json:"hotel_id"`
	OrderID       string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_id"`
	GuestType     GuestType       `gorm:"type:varchar(20);not null" json:"guest_type"`
	OrderStatus   OrderStatus     `gorm:"type:varchar(20);not null;default:'PLANNED';index" json:"order_status"`
	RoomID        *uint           `gorm:"index" json:"room_id,omitempty"`
	GuestGroupID  *uint           `gorm:"index" json:"guest_group_id,omitempty"`
	CheckIn       time.Time       `gorm:"not null" json:"check_in"`
	CheckOut      time.Time       `gorm:"not null" json:"check_out"`
	CountOfPeople int             `gorm:"not null;default:0" json:"count_of_people"`
	GeneralCost   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"general_cost"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Room       *Room       `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Rooms      []Room      `gorm:"many2many:hotel_order_rooms" json:"rooms,omitempty"`
	Guests     []Guest     `gorm:"many2many:hotel_order_guests" json:"guests,omitempty"`
	GuestGroup *GuestGroup `gorm:"foreignKey:GuestGroupID" json:"guest_group,omitempty"`
	FoodOrders []FoodOrder `gorm:"many2many:hotel_order_food_orders" json:"food_orders,omitempty"`
}

// DeriveOrderStatus maps the stay window onto the order state machine.
func DeriveOrderStatus(checkIn, checkOut, now time.Time) OrderStatus {
	switch {
	case now.Before(checkIn):
		return OrderPlanned
	case now.After(checkOut):
		return OrderCompleted
	default:
		return OrderActive
	}
}

// RoomIDs returns every room the order touches.
func (o *HotelOrder) RoomIDs() []uint {
	if o.GuestType == GuestTypeIndividual {
		if o.RoomID == nil {
			return nil
		}
		return []uint{*o.RoomID}
	}
	ids := make([]uint, 0, len(o.Rooms))
	for _, r := range o.Rooms {
		ids = append(ids, r.ID)
	}
	return ids
}
