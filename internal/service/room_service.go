package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/occupancy"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CreateRoomInput struct {
	HotelID    uint
	RoomTypeID uint
	Capacity   int
	Count      int
	NetPrice   decimal.Decimal
	Profit     decimal.Decimal
}

// GenerateRoomsInput creates one room per listed type; no types means every
// type of the hotel.
type GenerateRoomsInput struct {
	HotelID     uint
	RoomTypeIDs []uint
	Capacity    int
	Count       int
	NetPrice    decimal.Decimal
	Profit      decimal.Decimal
}

type UpdateRoomInput struct {
	NetPrice *decimal.Decimal
	Profit   *decimal.Decimal
	Count    *int
}

type RoomService interface {
	CreateRoom(ctx context.Context, in CreateRoomInput) (*models.Room, error)
	GenerateRooms(ctx context.Context, in GenerateRoomsInput) ([]models.Room, error)
	UpdateRoomPricing(ctx context.Context, id uint, in UpdateRoomInput) (*models.Room, error)
	DeleteRoom(ctx context.Context, id uint) error
	ReconcileRoom(ctx context.Context, id uint) (*models.Room, error)
	GetRoom(ctx context.Context, id uint) (*models.Room, error)
	ListRooms(ctx context.Context, hotelID uint) ([]models.Room, error)
}

type roomService struct {
	base
}

func NewRoomService(d Deps) RoomService {
	return &roomService{base: newBase(d)}
}

func validateRoomShape(capacity, count int, net, profit decimal.Decimal) error {
	errs := validation.Errors{}
	if capacity <= 0 {
		errs.Add("capacity", "must be greater than 0")
	}
	if count <= 0 {
		errs.Add("count", "must be greater than 0")
	}
	if net.IsNegative() {
		errs.Add("net_price", "must be at least 0")
	}
	if profit.IsNegative() {
		errs.Add("profit", "must be at least 0")
	}
	return errs.Err()
}

// newRoom builds a free room bucket after checking the hotel owns the type
// and has no room of it yet.
func (s *roomService) newRoom(ctx context.Context, tx *gorm.DB, hotelID, typeID uint, capacity, count int, net, profit decimal.Decimal) (*models.Room, error) {
	if _, err := s.Rooms.FindByHotelAndType(ctx, tx, hotelID, typeID); err == nil {
		return nil, ErrRoomExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room := &models.Room{HotelID: hotelID, RoomTypeID: typeID, Capacity: capacity, Count: count}
	room.ApplyPricing(net, profit)
	counters, err := occupancy.Compute(capacity, count, nil)
	if err != nil {
		return nil, err
	}
	counters.Apply(room)
	if err := s.Rooms.Create(ctx, tx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *roomService) CreateRoom(ctx context.Context, in CreateRoomInput) (*models.Room, error) {
	if err := validateRoomShape(in.Capacity, in.Count, in.NetPrice, in.Profit); err != nil {
		return nil, err
	}

	var result *models.Room
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.Hotels.FindHotel(ctx, tx, in.HotelID); err != nil {
			return notFound(err, ErrHotelNotFound)
		}
		types, err := s.Hotels.FindRoomTypes(ctx, tx, in.HotelID, []uint{in.RoomTypeID})
		if err != nil {
			return err
		}
		if len(types) == 0 {
			return ErrRoomTypeNotFound
		}
		room, err := s.newRoom(ctx, tx, in.HotelID, in.RoomTypeID, in.Capacity, in.Count, in.NetPrice, in.Profit)
		if err != nil {
			return err
		}
		result = room
		return nil
	})
	return result, err
}

// GenerateRooms creates a room for every requested type that has none yet
// and returns only the rooms it created.
func (s *roomService) GenerateRooms(ctx context.Context, in GenerateRoomsInput) ([]models.Room, error) {
	if err := validateRoomShape(in.Capacity, in.Count, in.NetPrice, in.Profit); err != nil {
		return nil, err
	}

	var created []models.Room
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		created = nil
		if _, err := s.Hotels.FindHotel(ctx, tx, in.HotelID); err != nil {
			return notFound(err, ErrHotelNotFound)
		}
		types, err := s.Hotels.FindRoomTypes(ctx, tx, in.HotelID, in.RoomTypeIDs)
		if err != nil {
			return err
		}
		if len(in.RoomTypeIDs) > 0 && len(types) != len(in.RoomTypeIDs) {
			return ErrRoomTypeNotFound
		}
		for _, rt := range types {
			room, err := s.newRoom(ctx, tx, in.HotelID, rt.ID, in.Capacity, in.Count, in.NetPrice, in.Profit)
			if errors.Is(err, ErrRoomExists) {
				continue
			}
			if err != nil {
				return err
			}
			created = append(created, *room)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Log.WithFields(logrus.Fields{"hotel_id": in.HotelID, "created": len(created)}).Info("rooms generated")
	return created, nil
}

// UpdateRoomPricing edits prices and the number of physical rooms. Counters are
// re-derived in the same statement, and open orders on the room are re-priced.
func (s *roomService) UpdateRoomPricing(ctx context.Context, id uint, in UpdateRoomInput) (*models.Room, error) {
	var result *models.Room
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		room, err := s.Rooms.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, ErrRoomNotFound)
		}
		now := s.now()

		net, profit := room.NetPrice, room.Profit
		if in.NetPrice != nil {
			net = *in.NetPrice
		}
		if in.Profit != nil {
			profit = *in.Profit
		}
		count := room.Count
		if in.Count != nil {
			count = *in.Count
		}
		if err := validateRoomShape(room.Capacity, count, net, profit); err != nil {
			return err
		}

		if count != room.Count {
			if err := s.Reconciler.Refresh(ctx, tx, room, now); err != nil {
				return err
			}
			if count < room.OccupiedCount {
				return fmt.Errorf("%w: %d occupied", ErrCountBelowOccupied, room.OccupiedCount)
			}
			if count < room.Count {
				if err := s.ensureCountHolds(ctx, tx, room, count, now); err != nil {
					return err
				}
			}
			room.Count = count
		}
		priceChanged := !net.Equal(room.NetPrice) || !profit.Equal(room.Profit)
		room.ApplyPricing(net, profit)

		if err := s.Reconciler.Refresh(ctx, tx, room, now); err != nil {
			return err
		}
		if err := s.Rooms.UpdatePricing(ctx, tx, room); err != nil {
			return err
		}

		if priceChanged {
			orders, err := s.Orders.FindOpenByRoom(ctx, tx, room.ID)
			if err != nil {
				return err
			}
			for _, o := range orders {
				if _, err := s.refreshOrderCost(ctx, tx, o.ID); err != nil {
					return err
				}
			}
		}
		result = room
		return nil
	})
	return result, err
}

func (s *roomService) DeleteRoom(ctx context.Context, id uint) error {
	return s.inTx(ctx, func(tx *gorm.DB) error {
		room, err := s.Rooms.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, ErrRoomNotFound)
		}
		if err := s.Reconciler.Refresh(ctx, tx, room, s.now()); err != nil {
			return err
		}
		refs, err := s.Rooms.CountOpenReferences(ctx, tx, room.ID)
		if err != nil {
			return err
		}
		if room.IsBusy || refs > 0 {
			return ErrRoomBusy
		}
		return s.Rooms.Delete(ctx, tx, room.ID)
	})
}

func (s *roomService) ReconcileRoom(ctx context.Context, id uint) (*models.Room, error) {
	var result *models.Room
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		room, err := s.Rooms.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, ErrRoomNotFound)
		}
		if err := s.Reconciler.Reconcile(ctx, tx, room, s.now()); err != nil {
			return err
		}
		result = room
		return nil
	})
	return result, err
}

func (s *roomService) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	room, err := s.Rooms.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFound(err, ErrRoomNotFound)
	}
	return room, nil
}

func (s *roomService) ListRooms(ctx context.Context, hotelID uint) ([]models.Room, error) {
	return s.Rooms.FindByHotel(ctx, hotelID)
}
