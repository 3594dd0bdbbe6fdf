package repository

import (
	"context"
	"time"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GuestFilter struct {
	HotelID *uint
	RoomID  *uint
	Status  *models.GuestStatus
}

type GuestRepository interface {
	Create(ctx context.Context, tx *gorm.DB, guest *models.Guest) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Guest, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Guest, error)
	List(ctx context.Context, filter GuestFilter) ([]models.Guest, error)
	FindActiveOverlapping(ctx context.Context, tx *gorm.DB, roomID uint, at time.Time) ([]models.Guest, error)
	FindActiveInRange(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time) ([]models.Guest, error)
	FindBilledInRange(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time) ([]models.Guest, error)
	CountOverlapping(ctx context.Context, tx *gorm.DB, roomID, excludeID uint, start, end time.Time, status models.GuestStatus) (int64, error)
	FindExpired(ctx context.Context, now time.Time) ([]models.Guest, error)
	FindStaying(ctx context.Context, nextDayStart time.Time) ([]models.Guest, error)
	Update(ctx context.Context, tx *gorm.DB, guest *models.Guest) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.GuestStatus) error
	Complete(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	AccruePrice(ctx context.Context, tx *gorm.DB, guest *models.Guest, delta decimal.Decimal, day time.Time) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type guestRepository struct {
	db *gorm.DB
}

func NewGuestRepository(db *gorm.DB) GuestRepository {
	return &guestRepository{db: db}
}

func (r *guestRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *guestRepository) Create(ctx context.Context, tx *gorm.DB, guest *models.Guest) error {
	return r.conn(tx).WithContext(ctx).Omit(clause.Associations).Create(guest).Error
}

func (r *guestRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Guest, error) {
	var guest models.Guest
	if err := r.conn(tx).WithContext(ctx).First(&guest, id).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *guestRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Guest, error) {
	var guest models.Guest
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&guest, id).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *guestRepository) List(ctx context.Context, filter GuestFilter) ([]models.Guest, error) {
	var guests []models.Guest
	q := r.db.WithContext(ctx)
	if filter.HotelID != nil {
		q = q.Where("hotel_id = ?", *filter.HotelID)
	}
	if filter.RoomID != nil {
		q = q.Where("room_id = ?", *filter.RoomID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if err := q.Order("id ASC").Find(&guests).Error; err != nil {
		return nil, err
	}
	return guests, nil
}

// FindActiveOverlapping returns NEW guests of the room whose stay contains the instant.
func (r *guestRepository) FindActiveOverlapping(ctx context.Context, tx *gorm.DB, roomID uint, at time.Time) ([]models.Guest, error) {
	var guests []models.Guest
	err := r.conn(tx).WithContext(ctx).
		Where("room_id = ? AND status = ? AND check_in <= ? AND check_out >= ?", roomID, models.GuestNew, at, at).
		Order("id ASC").
		Find(&guests).Error
	return guests, err
}

// FindActiveInRange returns NEW guests of the room whose closed stay interval meets [start, end].
func (r *guestRepository) FindActiveInRange(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time) ([]models.Guest, error) {
	var guests []models.Guest
	err := r.conn(tx).WithContext(ctx).
		Where("room_id = ? AND status = ? AND check_in <= ? AND check_out >= ?", roomID, models.GuestNew, end, start).
		Order("id ASC").
		Find(&guests).Error
	return guests, err
}

// FindBilledInRange returns every non-canceled guest of the room meeting [start, end];
// used by the order cost walk, which also bills guests already checked out.
func (r *guestRepository) FindBilledInRange(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time) ([]models.Guest, error) {
	var guests []models.Guest
	err := r.conn(tx).WithContext(ctx).
		Where("room_id = ? AND status <> ? AND check_in <= ? AND check_out >= ?", roomID, models.GuestCanceled, end, start).
		Order("id ASC").
		Find(&guests).Error
	return guests, err
}

// CountOverlapping counts other guests of the room whose half-open stay intersects [start, end).
func (r *guestRepository) CountOverlapping(ctx context.Context, tx *gorm.DB, roomID, excludeID uint, start, end time.Time, status models.GuestStatus) (int64, error) {
	var count int64
	err := r.conn(tx).WithContext(ctx).
		Model(&models.Guest{}).
		Where("room_id = ? AND id <> ? AND status = ? AND check_in < ? AND check_out > ?", roomID, excludeID, status, end, start).
		Count(&count).Error
	return count, err
}

func (r *guestRepository) FindExpired(ctx context.Context, now time.Time) ([]models.Guest, error) {
	var guests []models.Guest
	err := r.db.WithContext(ctx).
		Where("status = ? AND check_out < ?", models.GuestNew, now).
		Order("id ASC").
		Find(&guests).Error
	return guests, err
}

// FindStaying returns NEW guests billed for the hotel day ending at nextDayStart:
// checked in before the day ends and not checking out before the next day starts.
func (r *guestRepository) FindStaying(ctx context.Context, nextDayStart time.Time) ([]models.Guest, error) {
	var guests []models.Guest
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("status = ? AND room_id IS NOT NULL AND check_in < ? AND check_out >= ?", models.GuestNew, nextDayStart, nextDayStart).
		Order("id ASC").
		Find(&guests).Error
	return guests, err
}

func (r *guestRepository) Update(ctx context.Context, tx *gorm.DB, guest *models.Guest) error {
	return r.conn(tx).WithContext(ctx).Omit(clause.Associations).Save(guest).Error
}

func (r *guestRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.GuestStatus) error {
	return r.conn(tx).WithContext(ctx).
		Model(&models.Guest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Complete moves a NEW guest to COMPLETED and releases the room. It reports
// false when the guest was no longer NEW.
func (r *guestRepository) Complete(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	res := r.conn(tx).WithContext(ctx).
		Model(&models.Guest{}).
		Where("id = ? AND status = ?", id, models.GuestNew).
		Updates(map[string]any{"status": models.GuestCompleted, "room_id": nil})
	return res.RowsAffected > 0, res.Error
}

// AccruePrice bills one hotel day. The first accrual replaces the creation-time
// estimate with the day's charge, later ones add to it. The last-accrued marker
// is checked in the UPDATE itself, so a second run for the same day affects no
// rows and reports false.
func (r *guestRepository) AccruePrice(ctx context.Context, tx *gorm.DB, guest *models.Guest, delta decimal.Decimal, day time.Time) (bool, error) {
	q := r.conn(tx).WithContext(ctx).
		Model(&models.Guest{}).
		Where("id = ? AND status = ?", guest.ID, models.GuestNew)

	var price decimal.Decimal
	var res *gorm.DB
	if guest.LastAccruedOn == nil {
		price = delta
		res = q.Where("last_accrued_on IS NULL").
			Updates(map[string]any{"price": price, "last_accrued_on": day})
	} else {
		price = guest.Price.Add(delta)
		res = q.Where("last_accrued_on < ?", day).
			Updates(map[string]any{"price": gorm.Expr("price + ?", delta), "last_accrued_on": day})
	}
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	guest.Price = price
	guest.LastAccruedOn = &day
	return true, nil
}

// Delete removes the guest together with its order memberships.
func (r *guestRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.conn(tx).WithContext(ctx)
	if err := db.Exec("DELETE FROM hotel_order_guests WHERE guest_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&models.Guest{}, id).Error
}
