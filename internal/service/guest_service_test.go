package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/repository"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGuest_PricesAndReconciles(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 2, 1, "100")

	g := f.guest(t, room, 1, 0, 3)

	assert.Equal(t, models.GuestNew, g.Status)
	assert.NotEmpty(t, g.OrderNumber)
	assertMoney(t, "300", g.Price)
	assert.Equal(t, counters{occupied: 1, available: 0, remaining: 1}, countersOf(f.reload(t, room.ID)))
}

// Both guests overlap at the reference instant, so the room is full.
func TestCreateGuest_OverlappingGuestsFillRoom(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 2, 1, "100")

	f.guest(t, room, 1, 0, 3)
	f.guest(t, room, 1, 1, 2)

	assert.Equal(t, counters{occupied: 1, available: 0, remaining: 0, busy: true}, countersOf(f.reload(t, room.ID)))
}

func TestCreateGuest_RejectsWhenBedsTaken(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 2, 1, "100")
	f.guest(t, room, 2, 0, 3)
	before := countersOf(f.reload(t, room.ID))

	_, err := f.guests.CreateGuest(context.Background(), CreateGuestInput{
		RoomID: room.ID, FullName: "Late", Count: 1, CheckIn: day(1), CheckOut: day(2),
	})

	assert.ErrorIs(t, err, ErrInsufficientCapacity)
	assert.Equal(t, int64(1), f.count(t, &models.Guest{}))
	assert.Equal(t, before, countersOf(f.reload(t, room.ID)))
}

func TestCreateGuest_FutureCheckInCountsAgainstStay(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 2, 1, "100")
	f.guest(t, room, 2, 5, 8)

	_, err := f.guests.CreateGuest(context.Background(), CreateGuestInput{
		RoomID: room.ID, FullName: "Early", Count: 1, CheckIn: day(1), CheckOut: day(6),
	})
	assert.ErrorIs(t, err, ErrInsufficientCapacity)
}

func TestCreateGuest_BackToBackStays(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 2, 1, "100")
	f.guest(t, room, 2, 0, 2)

	_, err := f.guests.CreateGuest(context.Background(), CreateGuestInput{
		RoomID: room.ID, FullName: "Next", Count: 2, CheckIn: day(2), CheckOut: day(4),
	})
	assert.NoError(t, err)
}

func TestCreateGuest_Validation(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 2, 1, "100")

	_, err := f.guests.CreateGuest(context.Background(), CreateGuestInput{
		RoomID: room.ID, Count: 3, CheckIn: day(2), CheckOut: day(1),
	})

	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "full_name")
	assert.Contains(t, errs, "check_out")
	assert.Contains(t, errs, "count")
	assert.Zero(t, f.count(t, &models.Guest{}))
}

func TestCreateGuest_UnknownRoom(t *testing.T) {
	f := newFixture(t)
	_, err := f.guests.CreateGuest(context.Background(), CreateGuestInput{
		RoomID: 99, FullName: "Nobody", Count: 1, CheckIn: day(0), CheckOut: day(1),
	})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestUpdateGuest_MovesRoom(t *testing.T) {
	f := newFixture(t)
	from := f.room(t, 2, 1, "100")
	to := f.room(t, 1, 1, "80")
	g := f.guest(t, from, 1, 0, 3)

	updated, err := f.guests.UpdateGuest(context.Background(), g.ID, UpdateGuestInput{RoomID: &to.ID})
	require.NoError(t, err)

	assert.Equal(t, to.ID, *updated.RoomID)
	assertMoney(t, "240", updated.Price)
	assert.Equal(t, counters{occupied: 0, available: 1, remaining: 2}, countersOf(f.reload(t, from.ID)))
	assert.Equal(t, counters{occupied: 1, available: 0, remaining: 0, busy: true}, countersOf(f.reload(t, to.ID)))
}

func TestUpdateGuest_IgnoresOwnPreviousStay(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 2, 1, "100")
	g := f.guest(t, room, 2, 0, 3)

	checkOut := day(4)
	updated, err := f.guests.UpdateGuest(context.Background(), g.ID, UpdateGuestInput{CheckOut: &checkOut})
	require.NoError(t, err)
	assertMoney(t, "400", updated.Price)
}

func TestUpdateGuest_OrderGuestMovesWithOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := f.room(t, 2, 1, "100")
	other := f.room(t, 2, 1, "100")
	order, err := f.orders.CreateOrder(ctx, individualOrder(f.hotel.ID, room.ID, 0, 3, 1))
	require.NoError(t, err)
	g := order.Guests[0]

	_, err = f.guests.UpdateGuest(ctx, g.ID, UpdateGuestInput{RoomID: &other.ID})
	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "room_id")

	checkOut := day(5)
	_, err = f.guests.UpdateGuest(ctx, g.ID, UpdateGuestInput{CheckOut: &checkOut})
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "check_out")

	name := "Renamed"
	updated, err := f.guests.UpdateGuest(ctx, g.ID, UpdateGuestInput{FullName: &name, RoomID: &room.ID})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FullName)
	assert.Equal(t, room.ID, *updated.RoomID)
	assert.True(t, updated.CheckOut.Equal(day(3)))
	assert.Equal(t, counters{occupied: 0, available: 1, remaining: 2}, countersOf(f.reload(t, other.ID)))
}

func TestCancelGuest_ReleasesRoom(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 2, 1, "100")
	g := f.guest(t, room, 2, 0, 3)
	require.True(t, f.reload(t, room.ID).IsBusy)

	canceled, err := f.guests.CancelGuest(context.Background(), g.ID)
	require.NoError(t, err)

	assert.Equal(t, models.GuestCanceled, canceled.Status)
	assertMoney(t, "300", canceled.Price)
	assert.Equal(t, counters{occupied: 0, available: 1, remaining: 2}, countersOf(f.reload(t, room.ID)))

	_, err = f.guests.CancelGuest(context.Background(), g.ID)
	assert.ErrorIs(t, err, ErrGuestImmutable)
}

func TestDeleteGuest(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 2, 1, "100")
	g := f.guest(t, room, 2, 0, 3)

	require.NoError(t, f.guests.DeleteGuest(context.Background(), g.ID))

	_, err := f.guests.GetGuest(context.Background(), g.ID)
	assert.ErrorIs(t, err, ErrGuestNotFound)
	assert.False(t, f.reload(t, room.ID).IsBusy)
}

func TestDeleteGuest_CompletedIsKept(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 2, 1, "100")
	g := f.guest(t, room, 1, 0, 1)
	require.NoError(t, f.deps.Guests.UpdateStatus(context.Background(), nil, g.ID, models.GuestCompleted))

	err := f.guests.DeleteGuest(context.Background(), g.ID)
	assert.ErrorIs(t, err, ErrGuestImmutable)
}

func TestListGuests_FiltersByStatus(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 2, 2, "100")
	f.guest(t, room, 1, 0, 3)
	g := f.guest(t, room, 1, 0, 3)
	_, err := f.guests.CancelGuest(context.Background(), g.ID)
	require.NoError(t, err)

	status := models.GuestCanceled
	guests, err := f.guests.ListGuests(context.Background(), repository.GuestFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, guests, 1)
	assert.Equal(t, g.ID, guests[0].ID)
}
