package pricing

import (
	"testing"
	"time"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return day0.AddDate(0, 0, n)
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, money(want).Equal(got), "want %s, got %s", want, got)
}

func TestDayStart(t *testing.T) {
	riyadh := time.FixedZone("AST", 3*3600)
	late := time.Date(2026, 3, 1, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, riyadh), DayStart(late, riyadh))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), DayStart(late, time.UTC))
}

func TestStayDays(t *testing.T) {
	assert.Equal(t, 3, StayDays(day(0), day(3)))
	assert.Equal(t, 2, StayDays(day(0), day(3).Add(-time.Hour)))
	assert.Equal(t, 0, StayDays(day(2), day(1)))
}

func TestEstimateGuestPrice(t *testing.T) {
	c := NewCalculator(time.UTC, 30)
	room := &models.Room{Capacity: 2, GrossPrice: money("100")}

	solo, err := c.EstimateGuestPrice(room, &models.Guest{CheckIn: day(0), CheckOut: day(3)}, 0)
	require.NoError(t, err)
	assertMoney(t, "300", solo)

	shared, err := c.EstimateGuestPrice(room, &models.Guest{CheckIn: day(0), CheckOut: day(3)}, 2)
	require.NoError(t, err)
	assertMoney(t, "100", shared)

	sameDay, err := c.EstimateGuestPrice(room, &models.Guest{CheckIn: day(0), CheckOut: day(0).Add(2 * time.Hour)}, 0)
	require.NoError(t, err)
	assertMoney(t, "100", sameDay)
}

func TestEstimateGuestPrice_RoundsHalfUp(t *testing.T) {
	c := NewCalculator(time.UTC, 30)
	room := &models.Room{Capacity: 4, GrossPrice: money("100")}

	price, err := c.EstimateGuestPrice(room, &models.Guest{CheckIn: day(0), CheckOut: day(1)}, 2)
	require.NoError(t, err)
	assertMoney(t, "33.33", price)

	room.GrossPrice = money("0.05")
	price, err = c.EstimateGuestPrice(room, &models.Guest{CheckIn: day(0), CheckOut: day(1)}, 1)
	require.NoError(t, err)
	assertMoney(t, "0.03", price)
}

func TestEstimateGuestPrice_StayTooLong(t *testing.T) {
	c := NewCalculator(time.UTC, 10)
	room := &models.Room{Capacity: 2, GrossPrice: money("100")}

	_, err := c.EstimateGuestPrice(room, &models.Guest{CheckIn: day(0), CheckOut: day(11)}, 0)
	assert.ErrorIs(t, err, ErrStayTooLong)
}

func TestDailyGuestPrice_SharedRoomAccruesOverTwoDays(t *testing.T) {
	c := NewCalculator(time.UTC, 30)
	room := &models.Room{Capacity: 2, GrossPrice: money("100")}

	x, y := decimal.Zero, decimal.Zero
	for range 2 {
		x = x.Add(c.DailyGuestPrice(room, 2))
		y = y.Add(c.DailyGuestPrice(room, 2))
	}

	assertMoney(t, "50", c.DailyGuestPrice(room, 2))
	assertMoney(t, "100", x)
	assertMoney(t, "100", y)
}

func TestDailyGuestPrice(t *testing.T) {
	c := NewCalculator(time.UTC, 30)

	single := &models.Room{Capacity: 1, GrossPrice: money("80")}
	assertMoney(t, "80", c.DailyGuestPrice(single, 3))

	triple := &models.Room{Capacity: 3, GrossPrice: money("100")}
	assertMoney(t, "33.33", c.DailyGuestPrice(triple, 3))
	assertMoney(t, "100", c.DailyGuestPrice(triple, 0))
}

func TestIndividualOrderCost_OverlapChangesDuringStay(t *testing.T) {
	c := NewCalculator(time.UTC, 30)
	room := &models.Room{ID: 1, Capacity: 3, GrossPrice: money("90")}

	x := models.Guest{ID: 1, Count: 1, Status: models.GuestNew, CheckIn: day(0), CheckOut: day(3)}
	y := models.Guest{ID: 2, Count: 2, Status: models.GuestNew, CheckIn: day(1), CheckOut: day(2)}
	canceled := models.Guest{ID: 3, Count: 1, Status: models.GuestCanceled, CheckIn: day(0), CheckOut: day(3)}
	roomGuests := []models.Guest{x, y, canceled}

	// x: 90 + 30 + 90; y: 60
	costX, err := c.IndividualOrderCost(room, []models.Guest{x}, roomGuests)
	require.NoError(t, err)
	assertMoney(t, "210", costX)

	total, err := c.IndividualOrderCost(room, []models.Guest{x, y}, roomGuests)
	require.NoError(t, err)
	assertMoney(t, "270", total)
}

func TestIndividualOrderCost_RoundsEachGuest(t *testing.T) {
	c := NewCalculator(time.UTC, 30)
	room := &models.Room{ID: 1, Capacity: 3, GrossPrice: money("100")}
	guests := []models.Guest{
		{ID: 1, Count: 1, CheckIn: day(0), CheckOut: day(1)},
		{ID: 2, Count: 1, CheckIn: day(0), CheckOut: day(1)},
		{ID: 3, Count: 1, CheckIn: day(0), CheckOut: day(1)},
	}

	total, err := c.IndividualOrderCost(room, guests, guests)
	require.NoError(t, err)
	assertMoney(t, "99.99", total)
}

func TestIndividualOrderCost_GuestMissingFromRoomList(t *testing.T) {
	c := NewCalculator(time.UTC, 30)
	room := &models.Room{ID: 1, Capacity: 2, GrossPrice: money("100")}
	g := models.Guest{ID: 5, Count: 1, CheckIn: day(0), CheckOut: day(2)}

	total, err := c.IndividualOrderCost(room, []models.Guest{g}, nil)
	require.NoError(t, err)
	assertMoney(t, "200", total)
}

func TestIndividualOrderCost_StayTooLong(t *testing.T) {
	c := NewCalculator(time.UTC, 5)
	room := &models.Room{ID: 1, Capacity: 2, GrossPrice: money("100")}
	g := models.Guest{ID: 1, Count: 1, CheckIn: day(0), CheckOut: day(9)}

	_, err := c.IndividualOrderCost(room, []models.Guest{g}, nil)
	assert.ErrorIs(t, err, ErrStayTooLong)
}

func TestGroupOrderCost(t *testing.T) {
	c := NewCalculator(time.UTC, 30)
	order := &models.HotelOrder{
		GuestType: models.GuestTypeGroup,
		CheckIn:   day(0),
		CheckOut:  day(3),
		Rooms: []models.Room{
			{ID: 1, GrossPrice: money("100")},
			{ID: 2, GrossPrice: money("250.50")},
		},
	}

	cost, err := c.GroupOrderCost(order)
	require.NoError(t, err)
	assertMoney(t, "1051.50", cost)
}

func TestOrderCost_Dispatch(t *testing.T) {
	c := NewCalculator(time.UTC, 30)
	groupID := uint(4)
	room := &models.Room{ID: 1, Capacity: 2, GrossPrice: money("100")}
	guest := models.Guest{ID: 1, Count: 1, CheckIn: day(0), CheckOut: day(1)}

	individual := &models.HotelOrder{GuestType: models.GuestTypeIndividual, Room: room, Guests: []models.Guest{guest}}
	cost, err := c.OrderCost(individual, []models.Guest{guest})
	require.NoError(t, err)
	assertMoney(t, "100", cost)

	group := &models.HotelOrder{
		GuestType:    models.GuestTypeGroup,
		GuestGroupID: &groupID,
		CheckIn:      day(0),
		CheckOut:     day(2),
		Rooms:        []models.Room{*room},
	}
	cost, err = c.OrderCost(group, nil)
	require.NoError(t, err)
	assertMoney(t, "200", cost)
}

func TestOrderCost_Undetermined(t *testing.T) {
	c := NewCalculator(time.UTC, 30)
	room := &models.Room{ID: 1, Capacity: 2}

	cases := map[string]*models.HotelOrder{
		"unknown type":            {GuestType: "VIP", Room: room},
		"individual no guests":    {GuestType: models.GuestTypeIndividual, Room: room},
		"group without guest set": {GuestType: models.GuestTypeGroup, Rooms: []models.Room{*room}},
	}
	for name, order := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.OrderCost(order, nil)
			assert.ErrorIs(t, err, ErrGuestTypeUndetermined)
		})
	}
}
