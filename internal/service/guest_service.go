package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/repository"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/validation"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CreateGuestInput struct {
	RoomID   uint
	FullName string
	Gender   models.Gender
	Count    int
	CheckIn  time.Time
	CheckOut time.Time
}

// UpdateGuestInput carries the fields to change; nil fields are kept.
type UpdateGuestInput struct {
	RoomID   *uint
	FullName *string
	Gender   *models.Gender
	Count    *int
	CheckIn  *time.Time
	CheckOut *time.Time
}

type GuestService interface {
	CreateGuest(ctx context.Context, in CreateGuestInput) (*models.Guest, error)
	UpdateGuest(ctx context.Context, id uint, in UpdateGuestInput) (*models.Guest, error)
	CancelGuest(ctx context.Context, id uint) (*models.Guest, error)
	DeleteGuest(ctx context.Context, id uint) error
	GetGuest(ctx context.Context, id uint) (*models.Guest, error)
	ListGuests(ctx context.Context, filter repository.GuestFilter) ([]models.Guest, error)
}

type guestService struct {
	base
}

func NewGuestService(d Deps) GuestService {
	return &guestService{base: newBase(d)}
}

func newOrderNumber() string {
	return uuid.NewString()
}

// placeGuest validates, checks capacity and prices a guest about to be
// written into a locked room.
func (b *base) placeGuest(ctx context.Context, tx *gorm.DB, room *models.Room, g *models.Guest, skip []uint) error {
	if err := validation.Guest(g, room); err != nil {
		return err
	}
	if err := b.Calculator.CheckStay(g.CheckIn, g.CheckOut); err != nil {
		return err
	}
	if err := b.ensureBedsFree(ctx, tx, room, g.CheckIn, g.CheckOut, g.Count, skip); err != nil {
		return err
	}
	if g.LastAccruedOn == nil {
		return b.estimatePrice(ctx, tx, room, g)
	}
	return nil
}

// refreshGuestOrders re-prices every order the guest belongs to.
func (b *base) refreshGuestOrders(ctx context.Context, tx *gorm.DB, guestID uint) error {
	orders, err := b.Orders.FindByGuest(ctx, tx, guestID)
	if err != nil {
		return err
	}
	for _, o := range orders {
		if _, err := b.refreshOrderCost(ctx, tx, o.ID); err != nil {
			return err
		}
	}
	return nil
}

// movedFields lists the stay fields the update would change.
func movedFields(guest *models.Guest, in UpdateGuestInput) []string {
	var fields []string
	if in.RoomID != nil && (guest.RoomID == nil || *in.RoomID != *guest.RoomID) {
		fields = append(fields, "room_id")
	}
	if in.CheckIn != nil && !in.CheckIn.Equal(guest.CheckIn) {
		fields = append(fields, "check_in")
	}
	if in.CheckOut != nil && !in.CheckOut.Equal(guest.CheckOut) {
		fields = append(fields, "check_out")
	}
	return fields
}

// ensureStayDetached rejects room and date changes for a guest booked through
// an INDIVIDUAL order. The order owns the room and the window of its guests.
func (s *guestService) ensureStayDetached(ctx context.Context, tx *gorm.DB, guest *models.Guest, in UpdateGuestInput) error {
	fields := movedFields(guest, in)
	if len(fields) == 0 {
		return nil
	}
	orders, err := s.Orders.FindByGuest(ctx, tx, guest.ID)
	if err != nil {
		return err
	}
	for _, o := range orders {
		if o.GuestType != models.GuestTypeIndividual {
			continue
		}
		errs := validation.Errors{}
		for _, f := range fields {
			errs.Add(f, fmt.Sprintf("guest belongs to hotel order %d; update the order instead", o.ID))
		}
		return errs
	}
	return nil
}

func (s *guestService) CreateGuest(ctx context.Context, in CreateGuestInput) (*models.Guest, error) {
	var result *models.Guest
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		room, err := s.Rooms.FindByIDForUpdate(ctx, tx, in.RoomID)
		if err != nil {
			return notFound(err, ErrRoomNotFound)
		}
		guest := &models.Guest{
			HotelID:     room.HotelID,
			RoomID:      &room.ID,
			Status:      models.GuestNew,
			OrderNumber: newOrderNumber(),
			Gender:      in.Gender,
			FullName:    in.FullName,
			Count:       in.Count,
			CheckIn:     in.CheckIn,
			CheckOut:    in.CheckOut,
		}
		if err := s.placeGuest(ctx, tx, room, guest, nil); err != nil {
			return err
		}
		if err := s.Guests.Create(ctx, tx, guest); err != nil {
			return err
		}
		if err := s.Reconciler.Reconcile(ctx, tx, room, s.now()); err != nil {
			return err
		}
		result = guest
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Log.WithFields(logrus.Fields{"guest_id": result.ID, "room_id": in.RoomID}).Info("guest created")
	return result, nil
}

func (s *guestService) UpdateGuest(ctx context.Context, id uint, in UpdateGuestInput) (*models.Guest, error) {
	var result *models.Guest
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		guest, err := s.Guests.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, ErrGuestNotFound)
		}
		if !guest.IsActive() || guest.RoomID == nil {
			return ErrGuestImmutable
		}
		if err := s.ensureStayDetached(ctx, tx, guest, in); err != nil {
			return err
		}

		oldRoomID := *guest.RoomID
		newRoomID := oldRoomID
		if in.RoomID != nil {
			newRoomID = *in.RoomID
		}
		rooms, err := s.Rooms.FindByIDsForUpdate(ctx, tx, []uint{oldRoomID, newRoomID})
		if err != nil {
			return err
		}
		var target *models.Room
		for i := range rooms {
			if rooms[i].ID == newRoomID {
				target = &rooms[i]
			}
		}
		if target == nil {
			return ErrRoomNotFound
		}

		if in.FullName != nil {
			guest.FullName = *in.FullName
		}
		if in.Gender != nil {
			guest.Gender = *in.Gender
		}
		if in.Count != nil {
			guest.Count = *in.Count
		}
		if in.CheckIn != nil {
			guest.CheckIn = *in.CheckIn
		}
		if in.CheckOut != nil {
			guest.CheckOut = *in.CheckOut
		}
		guest.RoomID = &target.ID
		guest.Room = nil

		if err := s.placeGuest(ctx, tx, target, guest, []uint{guest.ID}); err != nil {
			return err
		}
		if err := s.Guests.Update(ctx, tx, guest); err != nil {
			return err
		}
		if err := s.refreshGuestOrders(ctx, tx, guest.ID); err != nil {
			return err
		}
		now := s.now()
		for i := range rooms {
			if err := s.Reconciler.Reconcile(ctx, tx, &rooms[i], now); err != nil {
				return err
			}
		}
		result = guest
		return nil
	})
	return result, err
}

// CancelGuest ends a NEW guest's stay early. The price billed so far is kept.
func (s *guestService) CancelGuest(ctx context.Context, id uint) (*models.Guest, error) {
	var result *models.Guest
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		guest, err := s.Guests.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, ErrGuestNotFound)
		}
		if !guest.IsActive() {
			return ErrGuestImmutable
		}
		if err := s.Guests.UpdateStatus(ctx, tx, guest.ID, models.GuestCanceled); err != nil {
			return err
		}
		guest.Status = models.GuestCanceled
		if err := s.refreshGuestOrders(ctx, tx, guest.ID); err != nil {
			return err
		}
		if guest.RoomID != nil {
			room, err := s.Rooms.FindByIDForUpdate(ctx, tx, *guest.RoomID)
			if err != nil {
				return notFound(err, ErrRoomNotFound)
			}
			if err := s.Reconciler.Reconcile(ctx, tx, room, s.now()); err != nil {
				return err
			}
		}
		result = guest
		return nil
	})
	return result, err
}

// DeleteGuest removes a NEW or CANCELED guest. Completed stays are history
// and stay put.
func (s *guestService) DeleteGuest(ctx context.Context, id uint) error {
	return s.inTx(ctx, func(tx *gorm.DB) error {
		guest, err := s.Guests.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, ErrGuestNotFound)
		}
		if guest.Status == models.GuestCompleted {
			return ErrGuestImmutable
		}

		orders, err := s.Orders.FindByGuest(ctx, tx, guest.ID)
		if err != nil {
			return err
		}
		for _, o := range orders {
			full, err := s.Orders.FindByID(ctx, tx, o.ID)
			if err != nil {
				return err
			}
			if full.GuestType == models.GuestTypeIndividual && len(full.Guests) <= 1 {
				return ErrLastOrderGuest
			}
		}

		if err := s.Guests.Delete(ctx, tx, guest.ID); err != nil {
			return err
		}
		for _, o := range orders {
			if _, err := s.refreshOrderCost(ctx, tx, o.ID); err != nil {
				return err
			}
		}
		if guest.RoomID != nil {
			room, err := s.Rooms.FindByIDForUpdate(ctx, tx, *guest.RoomID)
			if err != nil {
				return notFound(err, ErrRoomNotFound)
			}
			if err := s.Reconciler.Reconcile(ctx, tx, room, s.now()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *guestService) GetGuest(ctx context.Context, id uint) (*models.Guest, error) {
	guest, err := s.Guests.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFound(err, ErrGuestNotFound)
	}
	return guest, nil
}

func (s *guestService) ListGuests(ctx context.Context, filter repository.GuestFilter) ([]models.Guest, error) {
	return s.Guests.List(ctx, filter)
}
