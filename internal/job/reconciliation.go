package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/occupancy"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/pricing"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/repository"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/pkg/lock"
	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const lockKey = "catering:reconciliation"

var ErrSweepRunning = errors.New("another reconciliation sweep is running")

// Report counts what one sweep changed. Failures are rows that were logged
// and skipped.
type Report struct {
	GuestsCompleted int `json:"guests_completed"`
	OrdersCompleted int `json:"orders_completed"`
	GuestsAccrued   int `json:"guests_accrued"`
	OrdersMoved     int `json:"orders_moved"`
	RoomsReconciled int `json:"rooms_reconciled"`
	RoomsSkipped    int `json:"rooms_skipped"`
	Failures        int `json:"failures"`
}

type Deps struct {
	DB         *gorm.DB
	Rooms      repository.RoomRepository
	Guests     repository.GuestRepository
	Orders     repository.HotelOrderRepository
	Reconciler *occupancy.Reconciler
	Calculator *pricing.Calculator
	Log        *logrus.Logger

	// Locker is optional; without it concurrent sweeps rely on row locks
	// and idempotent updates alone.
	Locker  lock.Locker
	LockTTL time.Duration
	Clock   func() time.Time
}

// Reconciliation is the periodic sweep that brings guest, order and room
// state back in line with the calendar.
type Reconciliation struct {
	Deps
}

func NewReconciliation(d Deps) *Reconciliation {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.LockTTL <= 0 {
		d.LockTTL = 4 * time.Minute
	}
	return &Reconciliation{Deps: d}
}

// Schedule registers the sweep on a new gocron scheduler and starts it. A
// sweep still running when the next one is due is skipped.
func (j *Reconciliation) Schedule(ctx context.Context, interval time.Duration) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(j.Calculator.Location()))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { j.RunLocked(ctx) }),
		gocron.WithName("occupancy-reconciliation"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("schedule reconciliation: %w", err)
	}
	s.Start()
	return s, nil
}

// RunExclusive runs one sweep at now while holding the sweep lock. It returns
// ErrSweepRunning when another process holds it. A lock backend that cannot
// be reached does not block the sweep.
func (j *Reconciliation) RunExclusive(ctx context.Context, now time.Time) (Report, error) {
	if j.Locker != nil {
		release, ok, err := j.Locker.Acquire(ctx, lockKey, j.LockTTL)
		switch {
		case err != nil:
			j.Log.WithError(err).WithField("job", "reconciliation").Warn("sweep lock unavailable, running without it")
		case !ok:
			return Report{}, ErrSweepRunning
		default:
			defer release()
		}
	}
	return j.Run(ctx, now), nil
}

// RunLocked is the scheduled entry point: one exclusive sweep at the current time.
func (j *Reconciliation) RunLocked(ctx context.Context) {
	log := j.Log.WithField("job", "reconciliation")
	started := time.Now()
	report, err := j.RunExclusive(ctx, j.Clock())
	if errors.Is(err, ErrSweepRunning) {
		log.Debug("another sweep is running")
		return
	}
	log.WithFields(logrus.Fields{
		"guests_completed": report.GuestsCompleted,
		"orders_completed": report.OrdersCompleted,
		"guests_accrued":   report.GuestsAccrued,
		"orders_moved":     report.OrdersMoved,
		"rooms_reconciled": report.RoomsReconciled,
		"rooms_skipped":    report.RoomsSkipped,
		"failures":         report.Failures,
		"duration":         time.Since(started).String(),
	}).Info("reconciliation sweep finished")
}

// Run performs the five steps in order. Every row is handled in its own
// transaction, so a failure is logged and the sweep moves on.
func (j *Reconciliation) Run(ctx context.Context, now time.Time) Report {
	var report Report

	completed := j.completeExpiredGuests(ctx, now, &report)
	j.completeOrdersOf(ctx, completed, now, &report)
	j.accrueDailyPrices(ctx, now, &report)
	j.moveOrderStatuses(ctx, now, &report)
	j.reconcileRooms(ctx, now, &report)
	return report
}

func (j *Reconciliation) fail(report *Report, err error, step string, fields logrus.Fields) {
	report.Failures++
	j.Log.WithError(err).WithField("step", step).WithFields(fields).Error("reconciliation step failed for row")
}

// completeExpiredGuests closes stays whose check-out has passed and frees
// their rooms. It returns the ids of the guests it completed.
func (j *Reconciliation) completeExpiredGuests(ctx context.Context, now time.Time, report *Report) []uint {
	expired, err := j.Guests.FindExpired(ctx, now)
	if err != nil {
		j.fail(report, err, "complete_guests", nil)
		return nil
	}

	var done []uint
	for _, g := range expired {
		var completed bool
		err := j.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			guest, err := j.Guests.FindByIDForUpdate(ctx, tx, g.ID)
			if err != nil {
				return err
			}
			completed, err = j.Guests.Complete(ctx, tx, guest.ID)
			if err != nil || !completed || guest.RoomID == nil {
				return err
			}
			room, err := j.Rooms.FindByIDForUpdate(ctx, tx, *guest.RoomID)
			if err != nil {
				return err
			}
			// The room is picked up again by the sweep over all rooms.
			if err := j.Reconciler.Reconcile(ctx, tx, room, now); err != nil && !errors.Is(err, occupancy.ErrRoomMisconfigured) {
				return err
			}
			return nil
		})
		if err != nil {
			j.fail(report, err, "complete_guests", logrus.Fields{"guest_id": g.ID})
			continue
		}
		if !completed {
			continue
		}
		report.GuestsCompleted++
		done = append(done, g.ID)
	}
	return done
}

// completeOrdersOf closes the orders of completed guests once their own
// check-out has passed.
func (j *Reconciliation) completeOrdersOf(ctx context.Context, guestIDs []uint, now time.Time, report *Report) {
	seen := make(map[uint]bool)
	for _, id := range guestIDs {
		orders, err := j.Orders.FindByGuest(ctx, nil, id)
		if err != nil {
			j.fail(report, err, "complete_orders", logrus.Fields{"guest_id": id})
			continue
		}
		for _, o := range orders {
			if seen[o.ID] || o.OrderStatus == models.OrderCompleted || !now.After(o.CheckOut) {
				continue
			}
			seen[o.ID] = true
			if err := j.Orders.UpdateStatus(ctx, nil, o.ID, models.OrderCompleted); err != nil {
				j.fail(report, err, "complete_orders", logrus.Fields{"order_id": o.ID})
				continue
			}
			report.OrdersCompleted++
		}
	}
}

// accrueDailyPrices bills today for every guest staying through it. The
// marker on each guest makes a second run on the same day a no-op.
func (j *Reconciliation) accrueDailyPrices(ctx context.Context, now time.Time, report *Report) {
	today := pricing.DayStart(now, j.Calculator.Location())
	staying, err := j.Guests.FindStaying(ctx, today.AddDate(0, 0, 1))
	if err != nil {
		j.fail(report, err, "accrue", nil)
		return
	}

	coGuests := make(map[uint]int)
	for _, g := range staying {
		coGuests[*g.RoomID]++
	}

	for i := range staying {
		g := &staying[i]
		if g.Room == nil {
			continue
		}
		delta := j.Calculator.DailyGuestPrice(g.Room, coGuests[*g.RoomID])
		ok, err := j.Guests.AccruePrice(ctx, nil, g, delta, today)
		if err != nil {
			j.fail(report, err, "accrue", logrus.Fields{"guest_id": g.ID})
			continue
		}
		if ok {
			report.GuestsAccrued++
		}
	}
}

// moveOrderStatuses applies the date-derived order state machine.
func (j *Reconciliation) moveOrderStatuses(ctx context.Context, now time.Time, report *Report) {
	orders, err := j.Orders.FindOpen(ctx)
	if err != nil {
		j.fail(report, err, "order_status", nil)
		return
	}
	for _, o := range orders {
		status := models.DeriveOrderStatus(o.CheckIn, o.CheckOut, now)
		if status == o.OrderStatus {
			continue
		}
		if err := j.Orders.UpdateStatus(ctx, nil, o.ID, status); err != nil {
			j.fail(report, err, "order_status", logrus.Fields{"order_id": o.ID})
			continue
		}
		report.OrdersMoved++
	}
}

func (j *Reconciliation) reconcileRooms(ctx context.Context, now time.Time, report *Report) {
	rooms, err := j.Rooms.FindAll(ctx)
	if err != nil {
		j.fail(report, err, "reconcile_rooms", nil)
		return
	}
	for _, r := range rooms {
		err := j.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			room, err := j.Rooms.FindByIDForUpdate(ctx, tx, r.ID)
			if err != nil {
				return err
			}
			return j.Reconciler.Reconcile(ctx, tx, room, now)
		})
		switch {
		case errors.Is(err, occupancy.ErrRoomMisconfigured):
			report.RoomsSkipped++
			j.Log.WithError(err).WithField("room_id", r.ID).Warn("skipping misconfigured room")
		case err != nil:
			j.fail(report, err, "reconcile_rooms", logrus.Fields{"room_id": r.ID})
		default:
			report.RoomsReconciled++
		}
	}
}
