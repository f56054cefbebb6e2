package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	StatusConfirmed = "Confirmed"
	StatusCancelled = "Cancelled"
	StatusCompleted = "Completed"
)

// ValidStatuses lists every status a booking may carry.
func ValidStatuses() []string {
	return []string{StatusConfirmed, StatusCancelled, StatusCompleted}
}

// IsValidStatus reports whether s is a recognized booking status.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

type Passenger struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Age    string `json:"age"`
	Gender string `json:"gender"`
}

type PaymentDetails struct {
	Method        string `json:"method"`
	TransactionID string `json:"transactionId"`
}

// Booking is the persisted record of a seat purchase. The trip descriptors
// (bus, route, date, time) are free text and not foreign-keyed to any trip
// catalog. Cancellation is a status transition; rows are never deleted.
type Booking struct {
	bun.BaseModel `bun:"table:bookings" json:"-"`

	ID            string         `bun:"id,pk" json:"id"`
	Bus           string         `bun:"bus" json:"bus"`
	Route         string         `bun:"route" json:"route"`
	Date          string         `bun:"date" json:"date"`
	Time          string         `bun:"time" json:"time"`
	Seats         []SeatNumber   `bun:"seats" json:"seats"`
	Passengers    []Passenger    `bun:"passengers" json:"passengers"`
	BoardingPoint string         `bun:"boarding_point" json:"boardingPoint"`
	DroppingPoint string         `bun:"dropping_point" json:"droppingPoint"`
	Amount        float64        `bun:"amount" json:"amount"`
	Status        string         `bun:"status" json:"status"`
	BookingDate   string         `bun:"booking_date" json:"bookingDate"`
	Payment       PaymentDetails `bun:"payment_details" json:"paymentDetails"`
	CreatedAt     time.Time      `bun:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `bun:"updated_at" json:"updatedAt"`
}

// StatusUpdate is the body of a booking status change request.
type StatusUpdate struct {
	Status string `json:"status"`
}

// BookedSeats is the result of the booked-seat aggregation for one
// (bus, route, date) combination.
type BookedSeats struct {
	Bus              string       `json:"bus"`
	Route            string       `json:"route"`
	Date             string       `json:"date"`
	BookedSeats      []SeatNumber `json:"bookedSeats"`
	TotalBookedSeats int          `json:"totalBookedSeats"`
}
