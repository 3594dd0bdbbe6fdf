package pricing

import (
	"fmt"
	"time"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/shopspring/decimal"
)

const DefaultMaxStayNights = 365

// Calculator prices guest stays and hotel orders. It works on rows the
// caller has already loaded and never touches the database.
type Calculator struct {
	loc       *time.Location
	maxNights int
}

func NewCalculator(loc *time.Location, maxNights int) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	if maxNights <= 0 {
		maxNights = DefaultMaxStayNights
	}
	return &Calculator{loc: loc, maxNights: maxNights}
}

func (c *Calculator) Location() *time.Location {
	return c.loc
}

// CheckStay rejects stays longer than the configured cap.
func (c *Calculator) CheckStay(checkIn, checkOut time.Time) error {
	if StayDays(checkIn, checkOut) > c.maxNights {
		return ErrStayTooLong
	}
	return nil
}

// EstimateGuestPrice is the creation-time price of a stay: the room's gross
// price for every day of the stay (at least one), split evenly between the
// guest and the completed guests who overlapped it.
func (c *Calculator) EstimateGuestPrice(room *models.Room, guest *models.Guest, completedOverlaps int) (decimal.Decimal, error) {
	if err := c.CheckStay(guest.CheckIn, guest.CheckOut); err != nil {
		return decimal.Zero, err
	}
	days := max(StayDays(guest.CheckIn, guest.CheckOut), 1)
	sharers := 1 + max(completedOverlaps, 0)

	price := room.GrossPrice.
		Mul(decimal.NewFromInt(int64(days))).
		Div(decimal.NewFromInt(int64(sharers)))
	return price.Round(2), nil
}

// DailyGuestPrice is one day's charge for a guest. Single rooms bill the full
// gross price; shared rooms split it by the NEW guests staying that day.
func (c *Calculator) DailyGuestPrice(room *models.Room, coGuests int) decimal.Decimal {
	if room.Capacity == 1 {
		return room.GrossPrice
	}
	if coGuests <= 0 {
		coGuests = 1
	}
	return room.GrossPrice.Div(decimal.NewFromInt(int64(coGuests))).Round(2)
}

// IndividualOrderCost walks every billed day of each order guest. A day's
// room price is divided by the headcount of all guests in the room billed
// that day and charged in proportion to the guest's own headcount. Each guest
// total is rounded to cents before summing.
func (c *Calculator) IndividualOrderCost(room *models.Room, orderGuests, roomGuests []models.Guest) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, g := range orderGuests {
		if g.Status == models.GuestCanceled {
			continue
		}
		days, err := billedDays(g.CheckIn, g.CheckOut, c.loc, c.maxNights)
		if err != nil {
			return decimal.Zero, fmt.Errorf("guest %d: %w", g.ID, err)
		}

		cost := decimal.Zero
		for _, d := range days {
			headcount := 0
			self := false
			for _, other := range roomGuests {
				if other.Status == models.GuestCanceled || !billedOn(other.CheckIn, other.CheckOut, d, c.loc) {
					continue
				}
				if other.ID == g.ID {
					self = true
				}
				headcount += other.Count
			}
			if !self {
				headcount += g.Count
			}
			if headcount == 0 {
				headcount = 1
			}
			share := room.GrossPrice.Div(decimal.NewFromInt(int64(headcount)))
			cost = cost.Add(share.Mul(decimal.NewFromInt(int64(g.Count))))
		}
		total = total.Add(cost.Round(2))
	}
	return total, nil
}

// GroupOrderCost bills every room of the order at its gross price per night.
func (c *Calculator) GroupOrderCost(order *models.HotelOrder) (decimal.Decimal, error) {
	if err := c.CheckStay(order.CheckIn, order.CheckOut); err != nil {
		return decimal.Zero, err
	}
	nights := decimal.NewFromInt(int64(StayDays(order.CheckIn, order.CheckOut)))
	total := decimal.Zero
	for _, r := range order.Rooms {
		total = total.Add(r.GrossPrice.Mul(nights))
	}
	return total.Round(2), nil
}

// OrderCost dispatches on the order's guest type. roomGuests are the
// non-canceled guests of an INDIVIDUAL order's room over the order window.
func (c *Calculator) OrderCost(order *models.HotelOrder, roomGuests []models.Guest) (decimal.Decimal, error) {
	switch {
	case order.GuestType == models.GuestTypeIndividual && order.Room != nil && len(order.Guests) > 0:
		return c.IndividualOrderCost(order.Room, order.Guests, roomGuests)
	case order.GuestType == models.GuestTypeGroup && len(order.Rooms) > 0 && order.GuestGroupID != nil:
		return c.GroupOrderCost(order)
	default:
		return decimal.Zero, ErrGuestTypeUndetermined
	}
}
