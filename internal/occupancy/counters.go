package occupancy

import (
	"errors"
	"math/big"
	"time"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
)

var ErrRoomMisconfigured = errors.New("room capacity and count must be positive")

// Counters are the derived occupancy columns of a room.
type Counters struct {
	OccupiedCount     int
	AvailableCount    int
	RemainingCapacity int
	IsBusy            bool
}

func (c Counters) Apply(room *models.Room) {
	room.OccupiedCount = c.OccupiedCount
	room.AvailableCount = c.AvailableCount
	room.RemainingCapacity = c.RemainingCapacity
	room.IsBusy = c.IsBusy
}

// Compute derives the counters of a room bucket holding the given guest weight.
// Fractional weight is rounded up, as is the number of rooms it fills.
func Compute(capacity, count int, weight *big.Rat) (Counters, error) {
	if capacity <= 0 || count <= 0 {
		return Counters{}, ErrRoomMisconfigured
	}

	totalGuests := Ceil(weight)
	slots := capacity * count

	occupied, remaining := 0, slots
	if totalGuests > 0 {
		occupied = (totalGuests + capacity - 1) / capacity
		remaining = max(slots-totalGuests, 0)
	}
	occupied = min(occupied, count)

	return Counters{
		OccupiedCount:     occupied,
		AvailableCount:    max(count-occupied, 0),
		RemainingCapacity: remaining,
		IsBusy:            remaining == 0,
	}, nil
}

// Ceil rounds a non-negative weight up to whole guests.
func Ceil(weight *big.Rat) int {
	if weight == nil || weight.Sign() <= 0 {
		return 0
	}
	q, m := new(big.Int).QuoRem(weight.Num(), weight.Denom(), new(big.Int))
	if m.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return int(q.Int64())
}

// PeopleInOrder is the order's headcount, falling back to its guest group.
func PeopleInOrder(order *models.HotelOrder) int {
	if order.CountOfPeople > 0 {
		return order.CountOfPeople
	}
	if order.GuestGroup != nil {
		return order.GuestGroup.Headcount
	}
	return 0
}

// GroupShare is the part of a group order's population allocated to room,
// proportional to the room's slots among all slots the order spans. The room
// argument overrides the order's copy of the same row.
func GroupShare(room *models.Room, order *models.HotelOrder) *big.Rat {
	people := PeopleInOrder(order)
	if people <= 0 {
		return new(big.Rat)
	}

	var total int64
	member := false
	for i := range order.Rooms {
		r := &order.Rooms[i]
		if r.ID == room.ID {
			r = room
			member = true
		}
		total += int64(r.Capacity) * int64(r.Count)
	}
	if !member || total <= 0 {
		return new(big.Rat)
	}

	return big.NewRat(int64(people)*int64(room.Capacity)*int64(room.Count), total)
}

// Load sums the weight of guests and group orders on the room without any
// date filtering.
func Load(room *models.Room, guests []models.Guest, orders []models.HotelOrder) *big.Rat {
	weight := new(big.Rat)
	for _, g := range guests {
		weight.Add(weight, big.NewRat(int64(g.Count), 1))
	}
	for i := range orders {
		weight.Add(weight, GroupShare(room, &orders[i]))
	}
	return weight
}

// covers reports whether the half-open stay [in, out) contains at.
func covers(in, out, at time.Time) bool {
	return !at.Before(in) && at.Before(out)
}

// LoadAt is the weight present at the instant at.
func LoadAt(room *models.Room, guests []models.Guest, orders []models.HotelOrder, at time.Time) *big.Rat {
	var present []models.Guest
	for _, g := range guests {
		if covers(g.CheckIn, g.CheckOut, at) {
			present = append(present, g)
		}
	}
	var active []models.HotelOrder
	for _, o := range orders {
		if covers(o.CheckIn, o.CheckOut, at) {
			active = append(active, o)
		}
	}
	return Load(room, present, active)
}

// PeakLoad is the largest weight present at any instant of [start, end).
// Weight only grows at a check-in, so it is enough to look at start and at
// every check-in inside the window.
func PeakLoad(room *models.Room, guests []models.Guest, orders []models.HotelOrder, start, end time.Time) *big.Rat {
	instants := []time.Time{start}
	for _, g := range guests {
		if g.CheckIn.After(start) && g.CheckIn.Before(end) {
			instants = append(instants, g.CheckIn)
		}
	}
	for _, o := range orders {
		if o.CheckIn.After(start) && o.CheckIn.Before(end) {
			instants = append(instants, o.CheckIn)
		}
	}

	peak := new(big.Rat)
	for _, at := range instants {
		if w := LoadAt(room, guests, orders, at); w.Cmp(peak) > 0 {
			peak = w
		}
	}
	return peak
}
