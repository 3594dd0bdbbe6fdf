package service

import (
	"context"
	"errors"
	"time"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/notify"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/occupancy"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/pricing"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrHotelNotFound        = errors.New("hotel not found")
	ErrRoomTypeNotFound     = errors.New("room type not found")
	ErrGuestGroupNotFound   = errors.New("guest group not found")
	ErrRoomNotFound         = errors.New("room not found")
	ErrRoomExists           = errors.New("hotel already has a room of this type")
	ErrRoomBusy             = errors.New("room is still occupied or booked")
	ErrCountBelowOccupied   = errors.New("room count cannot drop below occupied rooms")
	ErrGuestNotFound        = errors.New("guest not found")
	ErrGuestImmutable       = errors.New("guest is no longer editable")
	ErrOrderNotFound        = errors.New("hotel order not found")
	ErrOrderCompleted       = errors.New("hotel order is completed")
	ErrLastOrderGuest       = errors.New("an individual order needs at least one guest; delete the order instead")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrFoodOrderNotFound    = errors.New("food order not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrMenuNotFound         = errors.New("menu not found")
	ErrMenuUnavailable      = errors.New("menu is not available")
	ErrRecipeNotFound       = errors.New("recipe not found")
)

// Deps is everything the services share. Clock and MaxRetries fall back to
// time.Now and a single attempt.
type Deps struct {
	DB         *gorm.DB
	Rooms      repository.RoomRepository
	Guests     repository.GuestRepository
	Orders     repository.HotelOrderRepository
	Hotels     repository.HotelRepository
	Warehouse  repository.WarehouseRepository
	Reconciler *occupancy.Reconciler
	Calculator *pricing.Calculator
	Notifier   notify.Notifier
	Log        *logrus.Logger
	Clock      func() time.Time
	MaxRetries int
}

type base struct {
	Deps
}

func newBase(d Deps) base {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.MaxRetries < 1 {
		d.MaxRetries = 1
	}
	if d.Notifier == nil {
		d.Notifier = notify.Noop{}
	}
	return base{Deps: d}
}

func (b *base) now() time.Time {
	return b.Clock()
}

// inTx runs fn in one transaction and retries the whole of it on lock
// contention or serialization failures.
func (b *base) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return withRetry(ctx, b.MaxRetries, b.Log, func() error {
		return b.DB.WithContext(ctx).Transaction(fn)
	})
}

const retryBackoff = 50 * time.Millisecond

func withRetry(ctx context.Context, attempts int, log *logrus.Logger, fn func() error) error {
	wait := retryBackoff
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || attempt >= attempts || !isTransient(err) {
			return err
		}
		log.WithError(err).WithField("attempt", attempt).Warn("transient database error, retrying transaction")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
}

// isTransient reports serialization failures, deadlocks and lock timeouts.
func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01", "55P03":
		return true
	}
	return false
}

// notFound maps gorm's missing-row error onto a domain error.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
