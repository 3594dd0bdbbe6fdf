package dto

import (
	"time"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/service"
	"github.com/shopspring/decimal"
)

type CreateHotelRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

type CreateRoomTypeRequest struct {
	Name string `json:"name" validate:"required"`
}

type CreateGuestGroupRequest struct {
	Name      string `json:"name" validate:"required"`
	Headcount int    `json:"headcount" validate:"gte=1"`
}

type CreateRoomRequest struct {
	HotelID    uint            `json:"hotel_id" validate:"required"`
	RoomTypeID uint            `json:"room_type_id" validate:"required"`
	Capacity   int             `json:"capacity" validate:"gte=1"`
	Count      int             `json:"count" validate:"gte=1"`
	NetPrice   decimal.Decimal `json:"net_price"`
	Profit     decimal.Decimal `json:"profit"`
}

func (r CreateRoomRequest) Input() service.CreateRoomInput {
	return service.CreateRoomInput{
		HotelID:    r.HotelID,
		RoomTypeID: r.RoomTypeID,
		Capacity:   r.Capacity,
		Count:      r.Count,
		NetPrice:   r.NetPrice,
		Profit:     r.Profit,
	}
}

// GenerateRoomsRequest creates one room per type; an empty list means every
// type of the hotel.
type GenerateRoomsRequest struct {
	RoomTypeIDs []uint          `json:"room_type_ids"`
	Capacity    int             `json:"capacity" validate:"gte=1"`
	Count       int             `json:"count" validate:"gte=1"`
	NetPrice    decimal.Decimal `json:"net_price"`
	Profit      decimal.Decimal `json:"profit"`
}

func (r GenerateRoomsRequest) Input(hotelID uint) service.GenerateRoomsInput {
	return service.GenerateRoomsInput{
		HotelID:     hotelID,
		RoomTypeIDs: r.RoomTypeIDs,
		Capacity:    r.Capacity,
		Count:       r.Count,
		NetPrice:    r.NetPrice,
		Profit:      r.Profit,
	}
}

type UpdateRoomRequest struct {
	NetPrice *decimal.Decimal `json:"net_price"`
	Profit   *decimal.Decimal `json:"profit"`
	Count    *int             `json:"count" validate:"omitempty,gte=1"`
}

func (r UpdateRoomRequest) Input() service.UpdateRoomInput {
	return service.UpdateRoomInput{NetPrice: r.NetPrice, Profit: r.Profit, Count: r.Count}
}

type CreateGuestRequest struct {
	RoomID   uint          `json:"room_id" validate:"required"`
	FullName string        `json:"full_name" validate:"required"`
	Gender   models.Gender `json:"gender" validate:"omitempty,oneof=MALE FEMALE"`
	Count    int           `json:"count" validate:"gte=1"`
	CheckIn  time.Time     `json:"check_in" validate:"required"`
	CheckOut time.Time     `json:"check_out" validate:"required,gtfield=CheckIn"`
}

func (r CreateGuestRequest) Input() service.CreateGuestInput {
	return service.CreateGuestInput{
		RoomID:   r.RoomID,
		FullName: r.FullName,
		Gender:   r.Gender,
		Count:    r.Count,
		CheckIn:  r.CheckIn,
		CheckOut: r.CheckOut,
	}
}

type UpdateGuestRequest struct {
	RoomID   *uint          `json:"room_id"`
	FullName *string        `json:"full_name" validate:"omitempty,min=1"`
	Gender   *models.Gender `json:"gender" validate:"omitempty,oneof=MALE FEMALE"`
	Count    *int           `json:"count" validate:"omitempty,gte=1"`
	CheckIn  *time.Time     `json:"check_in"`
	CheckOut *time.Time     `json:"check_out"`
}

func (r UpdateGuestRequest) Input() service.UpdateGuestInput {
	return service.UpdateGuestInput{
		RoomID:   r.RoomID,
		FullName: r.FullName,
		Gender:   r.Gender,
		Count:    r.Count,
		CheckIn:  r.CheckIn,
		CheckOut: r.CheckOut,
	}
}

type OrderGuestRequest struct {
	FullName string        `json:"full_name" validate:"required"`
	Gender   models.Gender `json:"gender" validate:"omitempty,oneof=MALE FEMALE"`
	Count    int           `json:"count" validate:"gte=1"`
}

func (r OrderGuestRequest) Input() service.OrderGuestInput {
	return service.OrderGuestInput{FullName: r.FullName, Gender: r.Gender, Count: r.Count}
}

// CreateOrderRequest books either one room for named guests (INDIVIDUAL) or
// a set of rooms for a guest group (GROUP). The service checks the shape.
type CreateOrderRequest struct {
	HotelID       uint                `json:"hotel_id" validate:"required"`
	GuestType     models.GuestType    `json:"guest_type" validate:"required,oneof=INDIVIDUAL GROUP"`
	RoomID        *uint               `json:"room_id"`
	RoomIDs       []uint              `json:"room_ids"`
	GuestGroupID  *uint               `json:"guest_group_id"`
	CheckIn       time.Time           `json:"check_in" validate:"required"`
	CheckOut      time.Time           `json:"check_out" validate:"required,gtfield=CheckIn"`
	CountOfPeople int                 `json:"count_of_people" validate:"gte=0"`
	Guests        []OrderGuestRequest `json:"guests" validate:"dive"`
	FoodOrderIDs  []uint              `json:"food_order_ids"`
}

func (r CreateOrderRequest) Input() service.CreateOrderInput {
	in := service.CreateOrderInput{
		HotelID:       r.HotelID,
		GuestType:     r.GuestType,
		RoomID:        r.RoomID,
		RoomIDs:       r.RoomIDs,
		GuestGroupID:  r.GuestGroupID,
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
		CountOfPeople: r.CountOfPeople,
		FoodOrderIDs:  r.FoodOrderIDs,
	}
	for _, g := range r.Guests {
		in.Guests = append(in.Guests, g.Input())
	}
	return in
}

type UpdateOrderRequest struct {
	CheckIn       *time.Time `json:"check_in"`
	CheckOut      *time.Time `json:"check_out"`
	CountOfPeople *int       `json:"count_of_people" validate:"omitempty,gte=1"`
	RoomIDs       []uint     `json:"room_ids"`
	GuestGroupID  *uint      `json:"guest_group_id"`
}

func (r UpdateOrderRequest) Input() service.UpdateOrderInput {
	return service.UpdateOrderInput{
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
		CountOfPeople: r.CountOfPeople,
		RoomIDs:       r.RoomIDs,
		GuestGroupID:  r.GuestGroupID,
	}
}

type CreateProductRequest struct {
	HotelID uint            `json:"hotel_id" validate:"required"`
	Name    string          `json:"name" validate:"required"`
	Unit    string          `json:"unit" validate:"max=16"`
	Stock   decimal.Decimal `json:"stock"`
	Price   decimal.Decimal `json:"price"`
}

func (r CreateProductRequest) Input() service.CreateProductInput {
	return service.CreateProductInput{HotelID: r.HotelID, Name: r.Name, Unit: r.Unit, Stock: r.Stock, Price: r.Price}
}

// UpdateProductRequest adjusts stock or price; either change re-derives the
// foods, menus and recipes built on the product.
type UpdateProductRequest struct {
	Stock *decimal.Decimal `json:"stock"`
	Price *decimal.Decimal `json:"price"`
}

func (r UpdateProductRequest) Input() service.UpdateProductInput {
	return service.UpdateProductInput{Stock: r.Stock, Price: r.Price}
}

type IngredientRequest struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type CreateFoodRequest struct {
	HotelID     uint                `json:"hotel_id" validate:"required"`
	Name        string              `json:"name" validate:"required"`
	Ingredients []IngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
}

func (r CreateFoodRequest) Input() service.CreateFoodInput {
	in := service.CreateFoodInput{HotelID: r.HotelID, Name: r.Name}
	for _, ing := range r.Ingredients {
		in.Ingredients = append(in.Ingredients, service.IngredientInput{ProductID: ing.ProductID, Quantity: ing.Quantity})
	}
	return in
}

type CreateMenuRequest struct {
	HotelID uint   `json:"hotel_id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	FoodIDs []uint `json:"food_ids" validate:"required,min=1"`
}

func (r CreateMenuRequest) Input() service.CreateMenuInput {
	return service.CreateMenuInput{HotelID: r.HotelID, Name: r.Name, FoodIDs: r.FoodIDs}
}

type CreateRecipeRequest struct {
	HotelID uint   `json:"hotel_id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	MenuIDs []uint `json:"menu_ids" validate:"required,min=1"`
}

func (r CreateRecipeRequest) Input() service.CreateRecipeInput {
	return service.CreateRecipeInput{HotelID: r.HotelID, Name: r.Name, MenuIDs: r.MenuIDs}
}

type CreateFoodOrderRequest struct {
	HotelID  uint `json:"hotel_id" validate:"required"`
	MenuID   uint `json:"menu_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"gte=1"`
}

func (r CreateFoodOrderRequest) Input() service.CreateFoodOrderInput {
	return service.CreateFoodOrderInput{HotelID: r.HotelID, MenuID: r.MenuID, Quantity: r.Quantity}
}
