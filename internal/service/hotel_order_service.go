package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/occupancy"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/validation"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type OrderGuestInput struct {
	FullName string
	Gender   models.Gender
	Count    int
}

type CreateOrderInput struct {
	HotelID       uint
	GuestType     models.GuestType
	RoomID        *uint
	RoomIDs       []uint
	GuestGroupID  *uint
	CheckIn       time.Time
	CheckOut      time.Time
	CountOfPeople int
	Guests        []OrderGuestInput
	FoodOrderIDs  []uint
}

// UpdateOrderInput changes the stay window and, for group orders, the room
// set, group and headcount. Nil fields are kept.
type UpdateOrderInput struct {
	CheckIn       *time.Time
	CheckOut      *time.Time
	CountOfPeople *int
	RoomIDs       []uint
	GuestGroupID  *uint
}

type HotelOrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*models.HotelOrder, error)
	UpdateOrder(ctx context.Context, id uint, in UpdateOrderInput) (*models.HotelOrder, error)
	DeleteOrder(ctx context.Context, id uint) error
	AddOrderGuest(ctx context.Context, orderID uint, in OrderGuestInput) (*models.HotelOrder, error)
	RemoveOrderGuest(ctx context.Context, orderID, guestID uint) (*models.HotelOrder, error)
	RecalculateCost(ctx context.Context, id uint) (*models.HotelOrder, error)
	GetOrder(ctx context.Context, id uint) (*models.HotelOrder, error)
	ListOrders(ctx context.Context, hotelID *uint, status *models.OrderStatus) ([]models.HotelOrder, error)
}

type hotelOrderService struct {
	base
}

func NewHotelOrderService(d Deps) HotelOrderService {
	return &hotelOrderService{base: newBase(d)}
}

func sumCounts(guests []models.Guest) int {
	n := 0
	for _, g := range guests {
		if g.Status != models.GuestCanceled {
			n += g.Count
		}
	}
	return n
}

func guestIDs(guests []models.Guest) []uint {
	ids := make([]uint, 0, len(guests))
	for _, g := range guests {
		ids = append(ids, g.ID)
	}
	return ids
}

// lockGroupRooms locks the requested rooms and checks they all exist and
// belong to the hotel.
func (s *hotelOrderService) lockGroupRooms(ctx context.Context, tx *gorm.DB, hotelID uint, ids []uint) ([]models.Room, error) {
	rooms, err := s.Rooms.FindByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	want := slices.Compact(slices.Sorted(slices.Values(ids)))
	if len(rooms) != len(want) {
		return nil, ErrRoomNotFound
	}
	for _, r := range rooms {
		if r.HotelID != hotelID {
			return nil, validation.Errors{"room_ids": fmt.Sprintf("room %d belongs to another hotel", r.ID)}
		}
	}
	return rooms, nil
}

func (s *hotelOrderService) loadGroup(ctx context.Context, tx *gorm.DB, order *models.HotelOrder) error {
	if order.GuestGroupID == nil {
		order.GuestGroup = nil
		return nil
	}
	group, err := s.Hotels.FindGuestGroup(ctx, tx, *order.GuestGroupID)
	if err != nil {
		return notFound(err, ErrGuestGroupNotFound)
	}
	if group.HotelID != order.HotelID {
		return validation.Errors{"guest_group_id": "belongs to another hotel"}
	}
	order.GuestGroup = group
	return nil
}

func (s *hotelOrderService) attachFoodOrders(ctx context.Context, tx *gorm.DB, order *models.HotelOrder, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	foodOrders, err := s.Warehouse.FindFoodOrders(ctx, tx, ids)
	if err != nil {
		return err
	}
	if len(foodOrders) != len(ids) {
		return ErrFoodOrderNotFound
	}
	return s.Orders.AppendFoodOrders(ctx, tx, order, foodOrders)
}

func (s *hotelOrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.HotelOrder, error) {
	var (
		result *models.HotelOrder
		hotel  *models.Hotel
	)
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		var err error
		hotel, err = s.Hotels.FindHotel(ctx, tx, in.HotelID)
		if err != nil {
			return notFound(err, ErrHotelNotFound)
		}
		now := s.now()

		order := &models.HotelOrder{
			HotelID:       in.HotelID,
			OrderID:       uuid.NewString(),
			GuestType:     in.GuestType,
			RoomID:        in.RoomID,
			GuestGroupID:  in.GuestGroupID,
			CheckIn:       in.CheckIn,
			CheckOut:      in.CheckOut,
			CountOfPeople: in.CountOfPeople,
			OrderStatus:   models.DeriveOrderStatus(in.CheckIn, in.CheckOut, now),
		}

		switch in.GuestType {
		case models.GuestTypeIndividual:
			err = s.createIndividual(ctx, tx, order, in)
		case models.GuestTypeGroup:
			err = s.createGroup(ctx, tx, order, in)
		default:
			err = validation.HotelOrder(order)
		}
		if err != nil {
			return err
		}

		if err := s.attachFoodOrders(ctx, tx, order, in.FoodOrderIDs); err != nil {
			return err
		}
		if _, err := s.refreshOrderCost(ctx, tx, order.ID); err != nil {
			return err
		}
		if err := s.reconcileOrderRooms(ctx, tx, order, nil, now); err != nil {
			return err
		}
		result, err = s.Orders.FindByID(ctx, tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Log.WithFields(logrus.Fields{"order_id": result.ID, "guest_type": result.GuestType}).Info("hotel order created")
	s.Notifier.SendAsync(
		"Booking confirmed",
		hotel.Email,
		fmt.Sprintf("Order %s for %d people, %s to %s, total %s.",
			result.OrderID, occupancy.PeopleInOrder(result),
			result.CheckIn.Format(time.DateOnly), result.CheckOut.Format(time.DateOnly),
			result.GeneralCost.StringFixed(2)),
	)
	return result, nil
}

// createIndividual books the order's guests into one room. The whole party
// must fit in rooms that stay free for the entire stay.
func (s *hotelOrderService) createIndividual(ctx context.Context, tx *gorm.DB, order *models.HotelOrder, in CreateOrderInput) error {
	for _, id := range in.RoomIDs {
		order.Rooms = append(order.Rooms, models.Room{ID: id})
	}
	if in.RoomID != nil {
		room, err := s.Rooms.FindByIDForUpdate(ctx, tx, *in.RoomID)
		if err != nil {
			return notFound(err, ErrRoomNotFound)
		}
		if room.HotelID != order.HotelID {
			return validation.Errors{"room_id": "belongs to another hotel"}
		}
		order.Room = room
	}
	for _, g := range in.Guests {
		order.Guests = append(order.Guests, models.Guest{
			HotelID:     order.HotelID,
			RoomID:      order.RoomID,
			Status:      models.GuestNew,
			OrderNumber: newOrderNumber(),
			FullName:    g.FullName,
			Gender:      g.Gender,
			Count:       g.Count,
			CheckIn:     order.CheckIn,
			CheckOut:    order.CheckOut,
		})
	}
	order.CountOfPeople = sumCounts(order.Guests)

	if err := validation.HotelOrder(order); err != nil {
		return err
	}
	if err := s.Calculator.CheckStay(order.CheckIn, order.CheckOut); err != nil {
		return err
	}
	for i := range order.Guests {
		if err := validation.Guest(&order.Guests[i], order.Room); err != nil {
			return err
		}
	}
	if err := s.ensureRoomsFree(ctx, tx, order.Room, order.CheckIn, order.CheckOut, order.CountOfPeople, nil); err != nil {
		return err
	}

	for i := range order.Guests {
		g := &order.Guests[i]
		if err := s.estimatePrice(ctx, tx, order.Room, g); err != nil {
			return err
		}
		if err := s.Guests.Create(ctx, tx, g); err != nil {
			return err
		}
	}
	return s.Orders.Create(ctx, tx, order)
}

// createGroup books a guest group across a set of rooms; each room carries a
// share of the group proportional to its beds.
func (s *hotelOrderService) createGroup(ctx context.Context, tx *gorm.DB, order *models.HotelOrder, in CreateOrderInput) error {
	for _, g := range in.Guests {
		order.Guests = append(order.Guests, models.Guest{FullName: g.FullName, Count: g.Count})
	}
	if len(in.RoomIDs) > 0 {
		rooms, err := s.lockGroupRooms(ctx, tx, order.HotelID, in.RoomIDs)
		if err != nil {
			return err
		}
		order.Rooms = rooms
	}
	if err := s.loadGroup(ctx, tx, order); err != nil {
		return err
	}
	if err := validation.HotelOrder(order); err != nil {
		return err
	}
	if err := s.Calculator.CheckStay(order.CheckIn, order.CheckOut); err != nil {
		return err
	}
	if err := s.ensureGroupFits(ctx, tx, order, 0); err != nil {
		return err
	}
	return s.Orders.Create(ctx, tx, order)
}

// reconcileOrderRooms reconciles the order's rooms plus any extra ones it
// just released. Rooms are locked in ascending id order.
func (b *base) reconcileOrderRooms(ctx context.Context, tx *gorm.DB, order *models.HotelOrder, extra []uint, now time.Time) error {
	ids := append(order.RoomIDs(), extra...)
	rooms, err := b.Rooms.FindByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return err
	}
	for i := range rooms {
		if err := b.Reconciler.Reconcile(ctx, tx, &rooms[i], now); err != nil {
			return err
		}
	}
	return nil
}

func (s *hotelOrderService) lockOpenOrder(ctx context.Context, tx *gorm.DB, id uint) (*models.HotelOrder, error) {
	order, err := s.Orders.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	if order.OrderStatus == models.OrderCompleted {
		return nil, ErrOrderCompleted
	}
	return order, nil
}

func (s *hotelOrderService) UpdateOrder(ctx context.Context, id uint, in UpdateOrderInput) (*models.HotelOrder, error) {
	var result *models.HotelOrder
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		order, err := s.lockOpenOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		now := s.now()
		released := order.RoomIDs()

		if in.CheckIn != nil {
			order.CheckIn = *in.CheckIn
		}
		if in.CheckOut != nil {
			order.CheckOut = *in.CheckOut
		}

		switch order.GuestType {
		case models.GuestTypeIndividual:
			if len(in.RoomIDs) > 0 || in.GuestGroupID != nil {
				return validation.Errors{"room_ids": "cannot be changed on INDIVIDUAL orders"}
			}
			err = s.updateIndividual(ctx, tx, order)
		case models.GuestTypeGroup:
			err = s.updateGroup(ctx, tx, order, in)
		default:
			err = fmt.Errorf("order %d: unknown guest type %q", order.ID, order.GuestType)
		}
		if err != nil {
			return err
		}

		order.OrderStatus = models.DeriveOrderStatus(order.CheckIn, order.CheckOut, now)
		if err := s.Orders.Update(ctx, tx, order); err != nil {
			return err
		}
		if _, err := s.refreshOrderCost(ctx, tx, order.ID); err != nil {
			return err
		}
		if err := s.reconcileOrderRooms(ctx, tx, order, released, now); err != nil {
			return err
		}
		result, err = s.Orders.FindByID(ctx, tx, order.ID)
		return err
	})
	return result, err
}

// updateIndividual moves the stays of the order's NEW guests to the order's
// window and re-checks the room for the whole party.
func (s *hotelOrderService) updateIndividual(ctx context.Context, tx *gorm.DB, order *models.HotelOrder) error {
	if order.RoomID == nil {
		return fmt.Errorf("order %d: %w", order.ID, ErrRoomNotFound)
	}
	// The locked rows replace the copies read with the order, which may
	// predate a sweep completing or billing the guest.
	for i := range order.Guests {
		locked, err := s.Guests.FindByIDForUpdate(ctx, tx, order.Guests[i].ID)
		if err != nil {
			return err
		}
		order.Guests[i] = *locked
	}
	room, err := s.Rooms.FindByIDForUpdate(ctx, tx, *order.RoomID)
	if err != nil {
		return notFound(err, ErrRoomNotFound)
	}
	order.Room = room

	active := make([]models.Guest, 0, len(order.Guests))
	for _, g := range order.Guests {
		if g.IsActive() {
			active = append(active, g)
		}
	}
	order.CountOfPeople = sumCounts(active)

	if err := validation.HotelOrder(order); err != nil {
		return err
	}
	if err := s.Calculator.CheckStay(order.CheckIn, order.CheckOut); err != nil {
		return err
	}
	if err := s.ensureRoomsFree(ctx, tx, room, order.CheckIn, order.CheckOut, order.CountOfPeople, guestIDs(order.Guests)); err != nil {
		return err
	}

	for i := range order.Guests {
		g := &order.Guests[i]
		if !g.IsActive() || (g.CheckIn.Equal(order.CheckIn) && g.CheckOut.Equal(order.CheckOut)) {
			continue
		}
		g.CheckIn, g.CheckOut = order.CheckIn, order.CheckOut
		if g.LastAccruedOn == nil {
			if err := s.estimatePrice(ctx, tx, room, g); err != nil {
				return err
			}
		}
		if err := s.Guests.Update(ctx, tx, g); err != nil {
			return err
		}
	}
	return nil
}

func (s *hotelOrderService) updateGroup(ctx context.Context, tx *gorm.DB, order *models.HotelOrder, in UpdateOrderInput) error {
	ids := order.RoomIDs()
	if len(in.RoomIDs) > 0 {
		ids = in.RoomIDs
	}
	locked, err := s.lockGroupRooms(ctx, tx, order.HotelID, append(slices.Clone(ids), order.RoomIDs()...))
	if err != nil {
		return err
	}
	rooms := make([]models.Room, 0, len(ids))
	for _, r := range locked {
		if slices.Contains(ids, r.ID) {
			rooms = append(rooms, r)
		}
	}

	if in.GuestGroupID != nil {
		order.GuestGroupID = in.GuestGroupID
	}
	if in.CountOfPeople != nil {
		order.CountOfPeople = *in.CountOfPeople
	}
	order.Rooms = rooms
	if err := s.loadGroup(ctx, tx, order); err != nil {
		return err
	}
	if err := validation.HotelOrder(order); err != nil {
		return err
	}
	if err := s.Calculator.CheckStay(order.CheckIn, order.CheckOut); err != nil {
		return err
	}
	if err := s.ensureGroupFits(ctx, tx, order, order.ID); err != nil {
		return err
	}
	if len(in.RoomIDs) > 0 {
		return s.Orders.ReplaceRooms(ctx, tx, order, rooms)
	}
	return nil
}

// DeleteOrder removes the order together with the guests it booked.
// Completed guests are kept as history.
func (s *hotelOrderService) DeleteOrder(ctx context.Context, id uint) error {
	var (
		order *models.HotelOrder
		hotel *models.Hotel
	)
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		var err error
		order, err = s.Orders.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, ErrOrderNotFound)
		}
		hotel, err = s.Hotels.FindHotel(ctx, tx, order.HotelID)
		if err != nil {
			return notFound(err, ErrHotelNotFound)
		}

		if err := s.Orders.Delete(ctx, tx, order); err != nil {
			return err
		}
		if order.GuestType == models.GuestTypeIndividual {
			for _, g := range order.Guests {
				if g.Status == models.GuestCompleted {
					continue
				}
				if err := s.Guests.Delete(ctx, tx, g.ID); err != nil {
					return err
				}
			}
		}
		return s.reconcileOrderRooms(ctx, tx, order, nil, s.now())
	})
	if err != nil {
		return err
	}
	s.Log.WithField("order_id", order.ID).Info("hotel order deleted")
	s.Notifier.SendAsync("Booking canceled", hotel.Email, fmt.Sprintf("Order %s was canceled.", order.OrderID))
	return nil
}

func (s *hotelOrderService) AddOrderGuest(ctx context.Context, orderID uint, in OrderGuestInput) (*models.HotelOrder, error) {
	var result *models.HotelOrder
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		order, err := s.lockOpenOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.GuestType != models.GuestTypeIndividual || order.RoomID == nil {
			return validation.Errors{"guests": "can only be added to INDIVIDUAL orders"}
		}
		room, err := s.Rooms.FindByIDForUpdate(ctx, tx, *order.RoomID)
		if err != nil {
			return notFound(err, ErrRoomNotFound)
		}

		guest := &models.Guest{
			HotelID:     order.HotelID,
			RoomID:      &room.ID,
			Status:      models.GuestNew,
			OrderNumber: newOrderNumber(),
			FullName:    in.FullName,
			Gender:      in.Gender,
			Count:       in.Count,
			CheckIn:     order.CheckIn,
			CheckOut:    order.CheckOut,
		}
		if err := validation.Guest(guest, room); err != nil {
			return err
		}
		people := sumCounts(order.Guests) + guest.Count
		if people > room.TotalSlots() {
			return validation.Errors{"count_of_people": fmt.Sprintf("must be at most %d", room.TotalSlots())}
		}
		if err := s.ensureRoomsFree(ctx, tx, room, order.CheckIn, order.CheckOut, people, guestIDs(order.Guests)); err != nil {
			return err
		}
		if err := s.estimatePrice(ctx, tx, room, guest); err != nil {
			return err
		}
		if err := s.Guests.Create(ctx, tx, guest); err != nil {
			return err
		}
		if err := s.Orders.AppendGuest(ctx, tx, order, guest); err != nil {
			return err
		}
		order.CountOfPeople = people
		if err := s.Orders.Update(ctx, tx, order); err != nil {
			return err
		}
		if _, err := s.refreshOrderCost(ctx, tx, order.ID); err != nil {
			return err
		}
		if err := s.Reconciler.Reconcile(ctx, tx, room, s.now()); err != nil {
			return err
		}
		result, err = s.Orders.FindByID(ctx, tx, order.ID)
		return err
	})
	return result, err
}

// RemoveOrderGuest drops a guest from an INDIVIDUAL order and deletes the
// guest unless the stay is already completed.
func (s *hotelOrderService) RemoveOrderGuest(ctx context.Context, orderID, guestID uint) (*models.HotelOrder, error) {
	var result *models.HotelOrder
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		order, err := s.lockOpenOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		idx := slices.IndexFunc(order.Guests, func(g models.Guest) bool { return g.ID == guestID })
		if idx < 0 {
			return ErrGuestNotFound
		}
		if order.GuestType == models.GuestTypeIndividual && len(order.Guests) == 1 {
			return ErrLastOrderGuest
		}
		guest := order.Guests[idx]

		if err := s.Orders.RemoveGuest(ctx, tx, order, &guest); err != nil {
			return err
		}
		if guest.Status != models.GuestCompleted {
			if err := s.Guests.Delete(ctx, tx, guest.ID); err != nil {
				return err
			}
		}
		order.Guests = slices.Delete(order.Guests, idx, idx+1)
		if order.GuestType == models.GuestTypeIndividual {
			order.CountOfPeople = sumCounts(order.Guests)
			if err := s.Orders.Update(ctx, tx, order); err != nil {
				return err
			}
		}
		if _, err := s.refreshOrderCost(ctx, tx, order.ID); err != nil {
			return err
		}
		var extra []uint
		if guest.RoomID != nil {
			extra = append(extra, *guest.RoomID)
		}
		if err := s.reconcileOrderRooms(ctx, tx, order, extra, s.now()); err != nil {
			return err
		}
		result, err = s.Orders.FindByID(ctx, tx, order.ID)
		return err
	})
	return result, err
}

func (s *hotelOrderService) RecalculateCost(ctx context.Context, id uint) (*models.HotelOrder, error) {
	var result *models.HotelOrder
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.Orders.FindByIDForUpdate(ctx, tx, id); err != nil {
			return notFound(err, ErrOrderNotFound)
		}
		order, err := s.refreshOrderCost(ctx, tx, id)
		result = order
		return err
	})
	return result, err
}

func (s *hotelOrderService) GetOrder(ctx context.Context, id uint) (*models.HotelOrder, error) {
	order, err := s.Orders.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	return order, nil
}

func (s *hotelOrderService) ListOrders(ctx context.Context, hotelID *uint, status *models.OrderStatus) ([]models.HotelOrder, error) {
	return s.Orders.List(ctx, hotelID, status)
}
