package dto

import (
	"time"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/shopspring/decimal"
)

type RoomResponse struct {
	ID                uint            `json:"id"`
	HotelID           uint            `json:"hotel_id"`
	RoomTypeID        uint            `json:"room_type_id"`
	Capacity          int             `json:"capacity"`
	Count             int             `json:"count"`
	OccupiedCount     int             `json:"occupied_count"`
	AvailableCount    int             `json:"available_count"`
	RemainingCapacity int             `json:"remaining_capacity"`
	IsBusy            bool            `json:"is_busy"`
	NetPrice          decimal.Decimal `json:"net_price"`
	Profit            decimal.Decimal `json:"profit"`
	GrossPrice        decimal.Decimal `json:"gross_price"`
}

type GuestResponse struct {
	ID          uint               `json:"id"`
	HotelID     uint               `json:"hotel_id"`
	RoomID      *uint              `json:"room_id"`
	OrderNumber string             `json:"order_number"`
	Status      models.GuestStatus `json:"status"`
	FullName    string             `json:"full_name"`
	Gender      models.Gender      `json:"gender,omitempty"`
	Count       int                `json:"count"`
	Price       decimal.Decimal    `json:"price"`
	CheckIn     time.Time          `json:"check_in"`
	CheckOut    time.Time          `json:"check_out"`
}

type HotelOrderResponse struct {
	ID            uint               `json:"id"`
	HotelID       uint               `json:"hotel_id"`
	OrderID       string             `json:"order_id"`
	GuestType     models.GuestType   `json:"guest_type"`
	OrderStatus   models.OrderStatus `json:"order_status"`
	RoomIDs       []uint             `json:"room_ids"`
	GuestGroupID  *uint              `json:"guest_group_id,omitempty"`
	CheckIn       time.Time          `json:"check_in"`
	CheckOut      time.Time          `json:"check_out"`
	CountOfPeople int                `json:"count_of_people"`
	GeneralCost   decimal.Decimal    `json:"general_cost"`
	Guests        []GuestResponse    `json:"guests"`
	FoodOrderIDs  []uint             `json:"food_order_ids"`
	CreatedAt     time.Time          `json:"created_at"`
}

type ErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func ToRoomResponse(r *models.Room) RoomResponse {
	return RoomResponse{
		ID:                r.ID,
		HotelID:           r.HotelID,
		RoomTypeID:        r.RoomTypeID,
		Capacity:          r.Capacity,
		Count:             r.Count,
		OccupiedCount:     r.OccupiedCount,
		AvailableCount:    r.AvailableCount,
		RemainingCapacity: r.RemainingCapacity,
		IsBusy:            r.IsBusy,
		NetPrice:          r.NetPrice,
		Profit:            r.Profit,
		GrossPrice:        r.GrossPrice,
	}
}

func ToRoomResponses(rooms []models.Room) []RoomResponse {
	resp := make([]RoomResponse, len(rooms))
	for i := range rooms {
		resp[i] = ToRoomResponse(&rooms[i])
	}
	return resp
}

func ToGuestResponse(g *models.Guest) GuestResponse {
	return GuestResponse{
		ID:          g.ID,
		HotelID:     g.HotelID,
		RoomID:      g.RoomID,
		OrderNumber: g.OrderNumber,
		Status:      g.Status,
		FullName:    g.FullName,
		Gender:      g.Gender,
		Count:       g.Count,
		Price:       g.Price,
		CheckIn:     g.CheckIn,
		CheckOut:    g.CheckOut,
	}
}

func ToGuestResponses(guests []models.Guest) []GuestResponse {
	resp := make([]GuestResponse, len(guests))
	for i := range guests {
		resp[i] = ToGuestResponse(&guests[i])
	}
	return resp
}

func ToHotelOrderResponse(o *models.HotelOrder) HotelOrderResponse {
	resp := HotelOrderResponse{
		ID:            o.ID,
		HotelID:       o.HotelID,
		OrderID:       o.OrderID,
		GuestType:     o.GuestType,
		OrderStatus:   o.OrderStatus,
		RoomIDs:       o.RoomIDs(),
		GuestGroupID:  o.GuestGroupID,
		CheckIn:       o.CheckIn,
		CheckOut:      o.CheckOut,
		CountOfPeople: o.CountOfPeople,
		GeneralCost:   o.GeneralCost,
		Guests:        ToGuestResponses(o.Guests),
		FoodOrderIDs:  make([]uint, 0, len(o.FoodOrders)),
		CreatedAt:     o.CreatedAt,
	}
	if resp.RoomIDs == nil {
		resp.RoomIDs = []uint{}
	}
	for _, fo := range o.FoodOrders {
		resp.FoodOrderIDs = append(resp.FoodOrderIDs, fo.ID)
	}
	return resp
}

func ToHotelOrderResponses(orders []models.HotelOrder) []HotelOrderResponse {
	resp := make([]HotelOrderResponse, len(orders))
	for i := range orders {
		resp[i] = ToHotelOrderResponse(&orders[i])
	}
	return resp
}
