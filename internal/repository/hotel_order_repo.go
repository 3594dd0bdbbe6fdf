package repository

import (
	"context"
	"time"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HotelOrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.HotelOrder) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.HotelOrder, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.HotelOrder, error)
	List(ctx context.Context, hotelID *uint, status *models.OrderStatus) ([]models.HotelOrder, error)
	FindActiveGroupOrdersForRoom(ctx context.Context, tx *gorm.DB, roomID uint) ([]models.HotelOrder, error)
	FindGroupOrdersInRange(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) ([]models.HotelOrder, error)
	FindByGuest(ctx context.Context, tx *gorm.DB, guestID uint) ([]models.HotelOrder, error)
	FindOpen(ctx context.Context) ([]models.HotelOrder, error)
	FindOpenByRoom(ctx context.Context, tx *gorm.DB, roomID uint) ([]models.HotelOrder, error)
	Update(ctx context.Context, tx *gorm.DB, order *models.HotelOrder) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.OrderStatus) error
	UpdateCost(ctx context.Context, tx *gorm.DB, id uint, cost decimal.Decimal) error
	ReplaceRooms(ctx context.Context, tx *gorm.DB, order *models.HotelOrder, rooms []models.Room) error
	AppendGuest(ctx context.Context, tx *gorm.DB, order *models.HotelOrder, guest *models.Guest) error
	RemoveGuest(ctx context.Context, tx *gorm.DB, order *models.HotelOrder, guest *models.Guest) error
	AppendFoodOrders(ctx context.Context, tx *gorm.DB, order *models.HotelOrder, foodOrders []models.FoodOrder) error
	GuestGroupHeadcount(ctx context.Context, tx *gorm.DB, order *models.HotelOrder) (int, error)
	Delete(ctx context.Context, tx *gorm.DB, order *models.HotelOrder) error
}

type hotelOrderRepository struct {
	db *gorm.DB
}

func NewHotelOrderRepository(db *gorm.DB) HotelOrderRepository {
	return &hotelOrderRepository{db: db}
}

func (r *hotelOrderRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// link writes join rows for the order; the referenced rows must already exist.
func link(db *gorm.DB, table, column string, orderID uint, ids []uint) error {
	for _, id := range ids {
		stmt := "INSERT INTO " + table + " (hotel_order_id, " + column + ") VALUES (?, ?)"
		if err := db.Exec(stmt, orderID, id).Error; err != nil {
			return err
		}
	}
	return nil
}

// Create inserts the order row and links its rooms and guests without
// touching the referenced rows.
func (r *hotelOrderRepository) Create(ctx context.Context, tx *gorm.DB, order *models.HotelOrder) error {
	db := r.conn(tx).WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	roomIDs := make([]uint, 0, len(order.Rooms))
	for _, room := range order.Rooms {
		roomIDs = append(roomIDs, room.ID)
	}
	if err := link(db, "hotel_order_rooms", "room_id", order.ID, roomIDs); err != nil {
		return err
	}
	guestIDs := make([]uint, 0, len(order.Guests))
	for _, guest := range order.Guests {
		guestIDs = append(guestIDs, guest.ID)
	}
	return link(db, "hotel_order_guests", "guest_id", order.ID, guestIDs)
}

func (r *hotelOrderRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Room").
		Preload("Rooms", func(db *gorm.DB) *gorm.DB { return db.Order("rooms.id ASC") }).
		Preload("Guests", func(db *gorm.DB) *gorm.DB { return db.Order("guests.id ASC") }).
		Preload("GuestGroup").
		Preload("FoodOrders")
}

func (r *hotelOrderRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.HotelOrder, error) {
	var order models.HotelOrder
	if err := r.withRelations(r.conn(tx).WithContext(ctx)).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate locks the order row only; the preloads run as separate
// plain selects inside the same transaction.
func (r *hotelOrderRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.HotelOrder, error) {
	var order models.HotelOrder
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, id).Error; err != nil {
		return nil, err
	}
	if err := r.loadRelations(ctx, tx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *hotelOrderRepository) loadRelations(ctx context.Context, tx *gorm.DB, order *models.HotelOrder) error {
	db := tx.WithContext(ctx)
	var rooms []models.Room
	if err := db.Model(order).Order("rooms.id ASC").Association("Rooms").Find(&rooms); err != nil {
		return err
	}
	var guests []models.Guest
	if err := db.Model(order).Order("guests.id ASC").Association("Guests").Find(&guests); err != nil {
		return err
	}
	var foodOrders []models.FoodOrder
	if err := db.Model(order).Association("FoodOrders").Find(&foodOrders); err != nil {
		return err
	}
	order.Rooms, order.Guests, order.FoodOrders = rooms, guests, foodOrders
	if order.GuestGroupID != nil {
		var group models.GuestGroup
		if err := db.First(&group, *order.GuestGroupID).Error; err != nil {
			return err
		}
		order.GuestGroup = &group
	}
	if order.RoomID != nil {
		var room models.Room
		if err := db.First(&room, *order.RoomID).Error; err != nil {
			return err
		}
		order.Room = &room
	}
	return nil
}

func (r *hotelOrderRepository) List(ctx context.Context, hotelID *uint, status *models.OrderStatus) ([]models.HotelOrder, error) {
	var orders []models.HotelOrder
	q := r.db.WithContext(ctx)
	if hotelID != nil {
		q = q.Where("hotel_id = ?", *hotelID)
	}
	if status != nil {
		q = q.Where("order_status = ?", *status)
	}
	if err := q.Preload("Rooms").Order("id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *hotelOrderRepository) groupOrdersForRoom(db *gorm.DB, roomID uint) *gorm.DB {
	return db.
		Joins("JOIN hotel_order_rooms hor ON hor.hotel_order_id = hotel_orders.id").
		Where("hor.room_id = ? AND hotel_orders.guest_type = ?", roomID, models.GuestTypeGroup).
		Preload("Rooms").
		Preload("GuestGroup").
		Order("hotel_orders.id ASC")
}

// FindActiveGroupOrdersForRoom returns ACTIVE group orders whose room set contains the room.
func (r *hotelOrderRepository) FindActiveGroupOrdersForRoom(ctx context.Context, tx *gorm.DB, roomID uint) ([]models.HotelOrder, error) {
	var orders []models.HotelOrder
	err := r.groupOrdersForRoom(r.conn(tx).WithContext(ctx), roomID).
		Where("hotel_orders.order_status = ?", models.OrderActive).
		Find(&orders).Error
	return orders, err
}

// FindGroupOrdersInRange returns unfinished group orders on the room whose stay meets [start, end].
func (r *hotelOrderRepository) FindGroupOrdersInRange(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) ([]models.HotelOrder, error) {
	var orders []models.HotelOrder
	err := r.groupOrdersForRoom(r.conn(tx).WithContext(ctx), roomID).
		Where("hotel_orders.id <> ? AND hotel_orders.order_status <> ?", excludeID, models.OrderCompleted).
		Where("hotel_orders.check_in <= ? AND hotel_orders.check_out >= ?", end, start).
		Find(&orders).Error
	return orders, err
}

func (r *hotelOrderRepository) FindByGuest(ctx context.Context, tx *gorm.DB, guestID uint) ([]models.HotelOrder, error) {
	var orders []models.HotelOrder
	err := r.conn(tx).WithContext(ctx).
		Joins("JOIN hotel_order_guests hog ON hog.hotel_order_id = hotel_orders.id").
		Where("hog.guest_id = ?", guestID).
		Order("hotel_orders.id ASC").
		Find(&orders).Error
	return orders, err
}

// FindOpen returns every order that has not reached COMPLETED.
func (r *hotelOrderRepository) FindOpen(ctx context.Context) ([]models.HotelOrder, error) {
	var orders []models.HotelOrder
	err := r.db.WithContext(ctx).
		Where("order_status <> ?", models.OrderCompleted).
		Order("id ASC").
		Find(&orders).Error
	return orders, err
}

// FindOpenByRoom returns unfinished orders of either type that book the room.
func (r *hotelOrderRepository) FindOpenByRoom(ctx context.Context, tx *gorm.DB, roomID uint) ([]models.HotelOrder, error) {
	var orders []models.HotelOrder
	db := r.conn(tx).WithContext(ctx)
	err := db.
		Where("order_status <> ?", models.OrderCompleted).
		Where("room_id = ? OR id IN (?)", roomID,
			db.Table("hotel_order_rooms").Select("hotel_order_id").Where("room_id = ?", roomID)).
		Order("id ASC").
		Find(&orders).Error
	return orders, err
}

func (r *hotelOrderRepository) Update(ctx context.Context, tx *gorm.DB, order *models.HotelOrder) error {
	return r.conn(tx).WithContext(ctx).Omit(clause.Associations).Save(order).Error
}

func (r *hotelOrderRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.OrderStatus) error {
	return r.conn(tx).WithContext(ctx).
		Model(&models.HotelOrder{}).
		Where("id = ?", id).
		Update("order_status", status).Error
}

func (r *hotelOrderRepository) UpdateCost(ctx context.Context, tx *gorm.DB, id uint, cost decimal.Decimal) error {
	return r.conn(tx).WithContext(ctx).
		Model(&models.HotelOrder{}).
		Where("id = ?", id).
		Update("general_cost", cost).Error
}

func (r *hotelOrderRepository) ReplaceRooms(ctx context.Context, tx *gorm.DB, order *models.HotelOrder, rooms []models.Room) error {
	db := r.conn(tx).WithContext(ctx)
	if err := db.Exec("DELETE FROM hotel_order_rooms WHERE hotel_order_id = ?", order.ID).Error; err != nil {
		return err
	}
	ids := make([]uint, 0, len(rooms))
	for _, room := range rooms {
		ids = append(ids, room.ID)
	}
	if err := link(db, "hotel_order_rooms", "room_id", order.ID, ids); err != nil {
		return err
	}
	order.Rooms = rooms
	return nil
}

func (r *hotelOrderRepository) AppendGuest(ctx context.Context, tx *gorm.DB, order *models.HotelOrder, guest *models.Guest) error {
	return link(r.conn(tx).WithContext(ctx), "hotel_order_guests", "guest_id", order.ID, []uint{guest.ID})
}

func (r *hotelOrderRepository) RemoveGuest(ctx context.Context, tx *gorm.DB, order *models.HotelOrder, guest *models.Guest) error {
	return r.conn(tx).WithContext(ctx).
		Exec("DELETE FROM hotel_order_guests WHERE hotel_order_id = ? AND guest_id = ?", order.ID, guest.ID).Error
}

func (r *hotelOrderRepository) AppendFoodOrders(ctx context.Context, tx *gorm.DB, order *models.HotelOrder, foodOrders []models.FoodOrder) error {
	ids := make([]uint, 0, len(foodOrders))
	for _, fo := range foodOrders {
		ids = append(ids, fo.ID)
	}
	if err := link(r.conn(tx).WithContext(ctx), "hotel_order_food_orders", "food_order_id", order.ID, ids); err != nil {
		return err
	}
	order.FoodOrders = append(order.FoodOrders, foodOrders...)
	return nil
}

// GuestGroupHeadcount returns the headcount of the order's guest group, or 0 without one.
func (r *hotelOrderRepository) GuestGroupHeadcount(ctx context.Context, tx *gorm.DB, order *models.HotelOrder) (int, error) {
	if order.GuestGroup != nil {
		return order.GuestGroup.Headcount, nil
	}
	if order.GuestGroupID == nil {
		return 0, nil
	}
	var group models.GuestGroup
	if err := r.conn(tx).WithContext(ctx).First(&group, *order.GuestGroupID).Error; err != nil {
		return 0, err
	}
	return group.Headcount, nil
}

// Delete removes the order's membership rows and then the order itself.
func (r *hotelOrderRepository) Delete(ctx context.Context, tx *gorm.DB, order *models.HotelOrder) error {
	db := r.conn(tx).WithContext(ctx)
	for _, table := range []string{"hotel_order_rooms", "hotel_order_guests", "hotel_order_food_orders"} {
		if err := db.Exec("DELETE FROM "+table+" WHERE hotel_order_id = ?", order.ID).Error; err != nil {
			return err
		}
	}
	return db.Delete(&models.HotelOrder{}, order.ID).Error
}
