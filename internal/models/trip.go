package models

import "strings"

// TripClass determines the seat layout and the service level of a trip.
type TripClass string

const (
	ClassACSleeper    TripClass = "AC Sleeper"
	ClassNonACSleeper TripClass = "Non-AC Sleeper"
	ClassACSeater     TripClass = "AC Seater"
	ClassNonACSeater  TripClass = "Non-AC Seater"
)

// IsSleeper reports whether the class uses the berth layout.
func (c TripClass) IsSleeper() bool {
	return strings.Contains(string(c), "Sleeper")
}

// Trip is a generated journey offering. Trips are synthesized by the
// planner and never persisted; the booking store only records the trip
// name, route and date as free text.
type Trip struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Class         TripClass `json:"type"`
	Price         float64   `json:"price"`
	Rating        string    `json:"rating"`
	DepartureTime string    `json:"departureTime"`
	ArrivalTime   string    `json:"arrivalTime"`
	TravelHours   string    `json:"travelHours"`
	Seats         []Seat    `json:"seats"`
}

// AvailableSeats counts seats a passenger could still pick.
func (t *Trip) AvailableSeats() int {
	n := 0
	for _, seat := range t.Seats {
		if seat.Status == SeatAvailable {
			n++
		}
	}
	return n
}

// SeatByNumber returns the seat with the given number, or nil.
func (t *Trip) SeatByNumber(number SeatNumber) *Seat {
	for i := range t.Seats {
		if t.Seats[i].Number == number {
			return &t.Seats[i]
		}
	}
	return nil
}
