package repository

import (
	"context"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"gorm.io/gorm"
)

// HotelRepository covers the reference data rooms and orders point at.
type HotelRepository interface {
	CreateHotel(ctx context.Context, hotel *models.Hotel) error
	FindHotel(ctx context.Context, tx *gorm.DB, id uint) (*models.Hotel, error)
	ListHotels(ctx context.Context) ([]models.Hotel, error)
	CreateRoomType(ctx context.Context, roomType *models.RoomType) error
	FindRoomTypes(ctx context.Context, tx *gorm.DB, hotelID uint, ids []uint) ([]models.RoomType, error)
	CreateGuestGroup(ctx context.Context, group *models.GuestGroup) error
	FindGuestGroup(ctx context.Context, tx *gorm.DB, id uint) (*models.GuestGroup, error)
}

type hotelRepository struct {
	db *gorm.DB
}

func NewHotelRepository(db *gorm.DB) HotelRepository {
	return &hotelRepository{db: db}
}

func (r *hotelRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *hotelRepository) CreateHotel(ctx context.Context, hotel *models.Hotel) error {
	return r.db.WithContext(ctx).Create(hotel).Error
}

func (r *hotelRepository) FindHotel(ctx context.Context, tx *gorm.DB, id uint) (*models.Hotel, error) {
	var hotel models.Hotel
	if err := r.conn(tx).WithContext(ctx).First(&hotel, id).Error; err != nil {
		return nil, err
	}
	return &hotel, nil
}

func (r *hotelRepository) ListHotels(ctx context.Context) ([]models.Hotel, error) {
	var hotels []models.Hotel
	err := r.db.WithContext(ctx).Order("id ASC").Find(&hotels).Error
	return hotels, err
}

func (r *hotelRepository) CreateRoomType(ctx context.Context, roomType *models.RoomType) error {
	return r.db.WithContext(ctx).Create(roomType).Error
}

// FindRoomTypes returns the hotel's room types among ids; an empty ids slice
// returns every room type of the hotel.
func (r *hotelRepository) FindRoomTypes(ctx context.Context, tx *gorm.DB, hotelID uint, ids []uint) ([]models.RoomType, error) {
	var types []models.RoomType
	q := r.conn(tx).WithContext(ctx).Where("hotel_id = ?", hotelID)
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	err := q.Order("id ASC").Find(&types).Error
	return types, err
}

func (r *hotelRepository) CreateGuestGroup(ctx context.Context, group *models.GuestGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *hotelRepository) FindGuestGroup(ctx context.Context, tx *gorm.DB, id uint) (*models.GuestGroup, error) {
	var group models.GuestGroup
	if err := r.conn(tx).WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}
