package repository

import (
	"context"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoomRepository interface {
	Create(ctx context.Context, tx *gorm.DB, room *models.Room) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Room, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Room, error)
	FindByIDsForUpdate(ctx context.Context, tx *gorm.DB, ids []uint) ([]models.Room, error)
	FindAll(ctx context.Context) ([]models.Room, error)
	FindByHotel(ctx context.Context, hotelID uint) ([]models.Room, error)
	FindByHotelAndType(ctx context.Context, tx *gorm.DB, hotelID, roomTypeID uint) (*models.Room, error)
	UpdateOccupancy(ctx context.Context, tx *gorm.DB, room *models.Room) error
	UpdatePricing(ctx context.Context, tx *gorm.DB, room *models.Room) error
	CountOpenReferences(ctx context.Context, tx *gorm.DB, id uint) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *roomRepository) Create(ctx context.Context, tx *gorm.DB, room *models.Room) error {
	return r.conn(tx).WithContext(ctx).Create(room).Error
}

func (r *roomRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Room, error) {
	var room models.Room
	if err := r.conn(tx).WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// FindByIDForUpdate acquires a row-level lock on the room within the given transaction.
func (r *roomRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Room, error) {
	var room models.Room
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// FindByIDsForUpdate locks rooms in ascending id order so concurrent bookings
// touching overlapping room sets cannot deadlock each other.
func (r *roomRepository) FindByIDsForUpdate(ctx context.Context, tx *gorm.DB, ids []uint) ([]models.Room, error) {
	var rooms []models.Room
	if len(ids) == 0 {
		return rooms, nil
	}
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepository) FindAll(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) FindByHotel(ctx context.Context, hotelID uint) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.WithContext(ctx).
		Preload("RoomType").
		Where("hotel_id = ?", hotelID).
		Order("id ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepository) FindByHotelAndType(ctx context.Context, tx *gorm.DB, hotelID, roomTypeID uint) (*models.Room, error) {
	var room models.Room
	err := r.conn(tx).WithContext(ctx).
		Where("hotel_id = ? AND room_type_id = ?", hotelID, roomTypeID).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// UpdateOccupancy writes only the reconciler-owned columns so concurrent price
// edits are never overwritten.
func (r *roomRepository) UpdateOccupancy(ctx context.Context, tx *gorm.DB, room *models.Room) error {
	return r.conn(tx).WithContext(ctx).
		Model(&models.Room{}).
		Where("id = ?", room.ID).
		Updates(map[string]any{
			"occupied_count":     room.OccupiedCount,
			"available_count":    room.AvailableCount,
			"remaining_capacity": room.RemainingCapacity,
			"is_busy":            room.IsBusy,
		}).Error
}

// UpdatePricing writes the administrative columns together with the counters,
// since a count change shifts available_count in the same statement.
func (r *roomRepository) UpdatePricing(ctx context.Context, tx *gorm.DB, room *models.Room) error {
	return r.conn(tx).WithContext(ctx).
		Model(&models.Room{}).
		Where("id = ?", room.ID).
		Updates(map[string]any{
			"net_price":          room.NetPrice,
			"profit":             room.Profit,
			"gross_price":        room.GrossPrice,
			"count":              room.Count,
			"occupied_count":     room.OccupiedCount,
			"available_count":    room.AvailableCount,
			"remaining_capacity": room.RemainingCapacity,
			"is_busy":            room.IsBusy,
		}).Error
}

// CountOpenReferences counts NEW guests and unfinished orders still holding the room.
func (r *roomRepository) CountOpenReferences(ctx context.Context, tx *gorm.DB, id uint) (int64, error) {
	db := r.conn(tx).WithContext(ctx)

	var guests int64
	if err := db.Model(&models.Guest{}).
		Where("room_id = ? AND status = ?", id, models.GuestNew).
		Count(&guests).Error; err != nil {
		return 0, err
	}

	var orders int64
	if err := db.Model(&models.HotelOrder{}).
		Where("order_status <> ?", models.OrderCompleted).
		Where("room_id = ? OR id IN (?)", id,
			db.Table("hotel_order_rooms").Select("hotel_order_id").Where("room_id = ?", id)).
		Count(&orders).Error; err != nil {
		return 0, err
	}
	return guests + orders, nil
}

// Delete detaches historical guests and orders from the room, then removes it.
func (r *roomRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.conn(tx).WithContext(ctx)
	if err := db.Model(&models.Guest{}).Where("room_id = ?", id).Update("room_id", nil).Error; err != nil {
		return err
	}
	if err := db.Model(&models.HotelOrder{}).Where("room_id = ?", id).Update("room_id", nil).Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM hotel_order_rooms WHERE room_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&models.Room{}, id).Error
}
