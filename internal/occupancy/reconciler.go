package occupancy

import (
	"context"
	"fmt"
	"math/big"
	"slices"
	"time"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Reconciler re-derives a room's occupancy counters from the NEW guests and
// ACTIVE group orders present at a reference instant.
type Reconciler struct {
	rooms  repository.RoomRepository
	guests repository.GuestRepository
	orders repository.HotelOrderRepository
	log    *logrus.Logger
}

func NewReconciler(rooms repository.RoomRepository, guests repository.GuestRepository, orders repository.HotelOrderRepository, log *logrus.Logger) *Reconciler {
	return &Reconciler{rooms: rooms, guests: guests, orders: orders, log: log}
}

// Weight is the total guest weight on the room at now: individual guests plus
// each active group order's proportional share.
func (r *Reconciler) Weight(ctx context.Context, tx *gorm.DB, room *models.Room, now time.Time) (*big.Rat, error) {
	guests, err := r.guests.FindActiveOverlapping(ctx, tx, room.ID, now)
	if err != nil {
		return nil, fmt.Errorf("load guests of room %d: %w", room.ID, err)
	}
	orders, err := r.orders.FindActiveGroupOrdersForRoom(ctx, tx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("load group orders of room %d: %w", room.ID, err)
	}
	return Load(room, guests, orders), nil
}

// Refresh sets the room's counters from ground truth without persisting them.
func (r *Reconciler) Refresh(ctx context.Context, tx *gorm.DB, room *models.Room, now time.Time) error {
	if room.Capacity <= 0 || room.Count <= 0 {
		return fmt.Errorf("room %d: %w", room.ID, ErrRoomMisconfigured)
	}
	weight, err := r.Weight(ctx, tx, room, now)
	if err != nil {
		return err
	}
	counters, err := Compute(room.Capacity, room.Count, weight)
	if err != nil {
		return fmt.Errorf("room %d: %w", room.ID, err)
	}
	counters.Apply(room)
	return nil
}

// Reconcile refreshes the room and writes only the four derived columns.
func (r *Reconciler) Reconcile(ctx context.Context, tx *gorm.DB, room *models.Room, now time.Time) error {
	if err := r.Refresh(ctx, tx, room, now); err != nil {
		return err
	}
	if err := r.rooms.UpdateOccupancy(ctx, tx, room); err != nil {
		return fmt.Errorf("persist occupancy of room %d: %w", room.ID, err)
	}
	r.log.WithFields(logrus.Fields{
		"room_id":            room.ID,
		"occupied_count":     room.OccupiedCount,
		"available_count":    room.AvailableCount,
		"remaining_capacity": room.RemainingCapacity,
		"is_busy":            room.IsBusy,
	}).Debug("room reconciled")
	return nil
}

func (r *Reconciler) ReconcileByID(ctx context.Context, tx *gorm.DB, roomID uint, now time.Time) (*models.Room, error) {
	room, err := r.rooms.FindByID(ctx, tx, roomID)
	if err != nil {
		return nil, err
	}
	if err := r.Reconcile(ctx, tx, room, now); err != nil {
		return nil, err
	}
	return room, nil
}

// ReconcileMany reconciles each distinct room id in ascending order.
func (r *Reconciler) ReconcileMany(ctx context.Context, tx *gorm.DB, roomIDs []uint, now time.Time) error {
	for _, id := range uniqueSorted(roomIDs) {
		if _, err := r.ReconcileByID(ctx, tx, id, now); err != nil {
			return err
		}
	}
	return nil
}

func uniqueSorted(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
