package planner

import (
	"bus-booking/internal/models"
)

// Session is the whole state of one planning flow, from search to
// payment. It is persisted after every step so a client can resume
// mid-flow, and wiped in full when a payment succeeds.
type Session struct {
	ID string `json:"id"`

	From string `json:"from"`
	To   string `json:"to"`
	Date string `json:"date"`

	Trips          []models.Trip `json:"trips,omitempty"`
	SelectedTripID int           `json:"selectedTripId,omitempty"`

	SelectedSeats []models.SeatNumber `json:"selectedSeats,omitempty"`
	BoardingPoint string              `json:"boardingPoint,omitempty"`
	DroppingPoint string              `json:"droppingPoint,omitempty"`
	Passengers    []models.Passenger  `json:"passengers,omitempty"`

	// StaleAvailability marks that the last booked-seat refresh failed
	// and the seat map may show seats already taken elsewhere.
	StaleAvailability bool `json:"staleAvailability,omitempty"`

	History []models.Booking `json:"history,omitempty"`
}

// SelectedTrip returns the currently selected trip, or nil.
func (s *Session) SelectedTrip() *models.Trip {
	if s.SelectedTripID == 0 {
		return nil
	}
	for i := range s.Trips {
		if s.Trips[i].ID == s.SelectedTripID {
			return &s.Trips[i]
		}
	}
	return nil
}

// clearSelection resets everything downstream of the trip list. Called
// when the search criteria change and when a payment completes.
func (s *Session) clearSelection() {
	s.SelectedTripID = 0
	s.SelectedSeats = nil
	s.BoardingPoint = ""
	s.DroppingPoint = ""
	s.Passengers = nil
	s.StaleAvailability = false
}

// clearFlow wipes the full planning state, keeping only the session
// identity and booking history.
func (s *Session) clearFlow() {
	s.From = ""
	s.To = ""
	s.Date = ""
	s.Trips = nil
	s.clearSelection()
}

// SeatSelected reports whether n is in the current selection.
func (s *Session) SeatSelected(n models.SeatNumber) bool {
	for _, seat := range s.SelectedSeats {
		if seat == n {
			return true
		}
	}
	return false
}
