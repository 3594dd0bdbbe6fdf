package service

import (
	"context"
	"fmt"
	"math/big"
	"slices"
	"time"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/occupancy"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/pricing"
	"gorm.io/gorm"
)

// projectedLoad is the peak weight on a locked room over [in, out), leaving
// out the given guests and group order so an update does not collide with
// its own previous state.
func (b *base) projectedLoad(ctx context.Context, tx *gorm.DB, room *models.Room, in, out time.Time, skipGuests []uint, skipOrder uint) (*big.Rat, error) {
	guests, err := b.Guests.FindActiveInRange(ctx, tx, room.ID, in, out)
	if err != nil {
		return nil, err
	}
	kept := guests[:0]
	for _, g := range guests {
		if !slices.Contains(skipGuests, g.ID) {
			kept = append(kept, g)
		}
	}
	orders, err := b.Orders.FindGroupOrdersInRange(ctx, tx, room.ID, in, out, skipOrder)
	if err != nil {
		return nil, err
	}
	return occupancy.PeakLoad(room, kept, orders, in, out), nil
}

// ensureBedsFree checks that count more guests fit the room's beds for the whole stay.
func (b *base) ensureBedsFree(ctx context.Context, tx *gorm.DB, room *models.Room, in, out time.Time, count int, skipGuests []uint) error {
	peak, err := b.projectedLoad(ctx, tx, room, in, out, skipGuests, 0)
	if err != nil {
		return err
	}
	free := max(room.TotalSlots()-occupancy.Ceil(peak), 0)
	if count > free {
		return fmt.Errorf("%w: room %d has %d free beds, %d requested", ErrInsufficientCapacity, room.ID, free, count)
	}
	return nil
}

// ensureRoomsFree checks that ceil(people / capacity) whole rooms stay
// available for the whole stay.
func (b *base) ensureRoomsFree(ctx context.Context, tx *gorm.DB, room *models.Room, in, out time.Time, people int, skipGuests []uint) error {
	peak, err := b.projectedLoad(ctx, tx, room, in, out, skipGuests, 0)
	if err != nil {
		return err
	}
	counters, err := occupancy.Compute(room.Capacity, room.Count, peak)
	if err != nil {
		return fmt.Errorf("room %d: %w", room.ID, err)
	}
	needed := (people + room.Capacity - 1) / room.Capacity
	if needed > counters.AvailableCount {
		return fmt.Errorf("%w: room %d needs %d rooms, %d available", ErrInsufficientCapacity, room.ID, needed, counters.AvailableCount)
	}
	return nil
}

// ensureGroupFits checks every room of a group order on its own: the room's
// proportional share of the group, on top of the peak already booked there,
// must fit its beds. The share is the same weight the reconciler charges.
func (b *base) ensureGroupFits(ctx context.Context, tx *gorm.DB, order *models.HotelOrder, skipOrder uint) error {
	for i := range order.Rooms {
		room := &order.Rooms[i]
		peak, err := b.projectedLoad(ctx, tx, room, order.CheckIn, order.CheckOut, nil, skipOrder)
		if err != nil {
			return err
		}
		share := occupancy.GroupShare(room, order)
		need := occupancy.Ceil(new(big.Rat).Add(peak, share))
		if need > room.TotalSlots() {
			free := max(room.TotalSlots()-occupancy.Ceil(peak), 0)
			return fmt.Errorf("%w: room %d has %d free beds, group share needs %d",
				ErrInsufficientCapacity, room.ID, free, occupancy.Ceil(share))
		}
	}
	return nil
}

// openEnded closes the window used to look at every booking still ahead of a room.
var openEnded = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

// ensureCountHolds checks that the room, resized to count physical rooms,
// still fits the peak of every NEW guest and unfinished group order from
// now on. Group shares are taken against the resized room.
func (b *base) ensureCountHolds(ctx context.Context, tx *gorm.DB, room *models.Room, count int, now time.Time) error {
	resized := *room
	resized.Count = count
	peak, err := b.projectedLoad(ctx, tx, &resized, now, openEnded, nil, 0)
	if err != nil {
		return err
	}
	if need := occupancy.Ceil(peak); need > resized.TotalSlots() {
		return fmt.Errorf("%w: %d beds booked ahead, %d left", ErrCountBelowOccupied, need, resized.TotalSlots())
	}
	return nil
}

// refreshOrderCost recomputes general_cost from the order's current rows.
func (b *base) refreshOrderCost(ctx context.Context, tx *gorm.DB, orderID uint) (*models.HotelOrder, error) {
	order, err := b.Orders.FindByID(ctx, tx, orderID)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}

	var roomGuests []models.Guest
	if order.GuestType == models.GuestTypeIndividual && order.Room != nil {
		loc := b.Calculator.Location()
		from := pricing.DayStart(order.CheckIn, loc)
		to := pricing.DayStart(order.CheckOut, loc).AddDate(0, 0, 1)
		roomGuests, err = b.Guests.FindBilledInRange(ctx, tx, order.Room.ID, from, to)
		if err != nil {
			return nil, err
		}
	}

	cost, err := b.Calculator.OrderCost(order, roomGuests)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", order.ID, err)
	}
	if err := b.Orders.UpdateCost(ctx, tx, order.ID, cost); err != nil {
		return nil, err
	}
	order.GeneralCost = cost
	return order, nil
}

// estimatePrice prices a guest's stay from the completed guests who shared
// the room during it.
func (b *base) estimatePrice(ctx context.Context, tx *gorm.DB, room *models.Room, g *models.Guest) error {
	completed, err := b.Guests.CountOverlapping(ctx, tx, room.ID, g.ID, g.CheckIn, g.CheckOut, models.GuestCompleted)
	if err != nil {
		return err
	}
	price, err := b.Calculator.EstimateGuestPrice(room, g, int(completed))
	if err != nil {
		return err
	}
	g.Price = price
	return nil
}
