package service

import (
	"context"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/validation"
)

type HotelService interface {
	CreateHotel(ctx context.Context, hotel *models.Hotel) error
	ListHotels(ctx context.Context) ([]models.Hotel, error)
	CreateRoomType(ctx context.Context, roomType *models.RoomType) error
	ListRoomTypes(ctx context.Context, hotelID uint) ([]models.RoomType, error)
	CreateGuestGroup(ctx context.Context, group *models.GuestGroup) error
	GetGuestGroup(ctx context.Context, id uint) (*models.GuestGroup, error)
}

type hotelService struct {
	base
}

func NewHotelService(d Deps) HotelService {
	return &hotelService{base: newBase(d)}
}

func (s *hotelService) CreateHotel(ctx context.Context, hotel *models.Hotel) error {
	if hotel.Name == "" {
		return validation.Errors{"name": "is required"}
	}
	return s.Hotels.CreateHotel(ctx, hotel)
}

func (s *hotelService) ListHotels(ctx context.Context) ([]models.Hotel, error) {
	return s.Hotels.ListHotels(ctx)
}

func (s *hotelService) CreateRoomType(ctx context.Context, roomType *models.RoomType) error {
	if roomType.Name == "" {
		return validation.Errors{"name": "is required"}
	}
	if _, err := s.Hotels.FindHotel(ctx, nil, roomType.HotelID); err != nil {
		return notFound(err, ErrHotelNotFound)
	}
	return s.Hotels.CreateRoomType(ctx, roomType)
}

func (s *hotelService) ListRoomTypes(ctx context.Context, hotelID uint) ([]models.RoomType, error) {
	return s.Hotels.FindRoomTypes(ctx, nil, hotelID, nil)
}

func (s *hotelService) CreateGuestGroup(ctx context.Context, group *models.GuestGroup) error {
	errs := validation.Errors{}
	if group.Name == "" {
		errs.Add("name", "is required")
	}
	if group.Headcount < 1 {
		errs.Add("headcount", "must be at least 1")
	}
	if err := errs.Err(); err != nil {
		return err
	}
	if _, err := s.Hotels.FindHotel(ctx, nil, group.HotelID); err != nil {
		return notFound(err, ErrHotelNotFound)
	}
	return s.Hotels.CreateGuestGroup(ctx, group)
}

func (s *hotelService) GetGuestGroup(ctx context.Context, id uint) (*models.GuestGroup, error) {
	group, err := s.Hotels.FindGuestGroup(ctx, nil, id)
	if err != nil {
		return nil, notFound(err, ErrGuestGroupNotFound)
	}
	return group, nil
}
