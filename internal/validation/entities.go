package validation

import (
	"fmt"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
)

// Guest checks a guest against the room it is booked into.
func Guest(g *models.Guest, room *models.Room) error {
	errs := Errors{}
	if g.FullName == "" {
		errs.Add("full_name", "is required")
	}
	if g.Gender != "" && g.Gender != models.GenderMale && g.Gender != models.GenderFemale {
		errs.Add("gender", "must be one of [MALE FEMALE]")
	}
	if !g.CheckOut.After(g.CheckIn) {
		errs.Add("check_out", "must be after check_in")
	}
	if g.Count < 1 {
		errs.Add("count", "must be at least 1")
	}
	if room != nil && g.Count > room.Capacity {
		errs.Add("count", fmt.Sprintf("must be at most the room capacity %d", room.Capacity))
	}
	return errs.Err()
}

// HotelOrder checks the shape of an order: its guest type decides whether an
// explicit guest list with one room or a guest group with a room set is
// required, and the headcount must fit the slots it books.
func HotelOrder(o *models.HotelOrder) error {
	errs := Errors{}
	if !o.CheckOut.After(o.CheckIn) {
		errs.Add("check_out", "must be after check_in")
	}
	if o.CountOfPeople < 0 {
		errs.Add("count_of_people", "must be at least 0")
	}

	switch o.GuestType {
	case models.GuestTypeIndividual:
		if o.Room == nil {
			errs.Add("room_id", "is required for INDIVIDUAL orders")
		}
		if len(o.Guests) == 0 {
			errs.Add("guests", "is required for INDIVIDUAL orders")
		}
		if o.GuestGroupID != nil {
			errs.Add("guest_group_id", "must be empty for INDIVIDUAL orders")
		}
		if len(o.Rooms) > 0 {
			errs.Add("room_ids", "must be empty for INDIVIDUAL orders")
		}
		if o.Room != nil && o.CountOfPeople > o.Room.TotalSlots() {
			errs.Add("count_of_people", fmt.Sprintf("must be at most %d", o.Room.TotalSlots()))
		}
	case models.GuestTypeGroup:
		if len(o.Rooms) == 0 {
			errs.Add("room_ids", "is required for GROUP orders")
		}
		if o.GuestGroupID == nil {
			errs.Add("guest_group_id", "is required for GROUP orders")
		}
		if len(o.Guests) > 0 {
			errs.Add("guests", "must be empty for GROUP orders")
		}
		if o.RoomID != nil {
			errs.Add("room_id", "must be empty for GROUP orders")
		}
		people := o.CountOfPeople
		if people == 0 && o.GuestGroup != nil {
			people = o.GuestGroup.Headcount
		}
		slots := 0
		for _, r := range o.Rooms {
			slots += r.TotalSlots()
		}
		if len(o.Rooms) > 0 && people > slots {
			errs.Add("count_of_people", fmt.Sprintf("must be at most %d", slots))
		}
		if people <= 0 {
			errs.Add("count_of_people", "must be at least 1")
		}
	default:
		errs.Add("guest_type", "must be one of [INDIVIDUAL GROUP]")
	}
	return errs.Err()
}
