package booking

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bus-booking/internal/models"
	"bus-booking/internal/utils"
)

type DBLayer interface {
	CreateBooking(booking models.Booking) error
	GetBookingByID(id string) (*models.Booking, error)
	BookingExists(id string) (bool, error)
	UpdateBooking(booking models.Booking) error
	ListBookings() ([]models.Booking, error)
	GetConfirmedBookings(bus, route, date string) ([]models.Booking, error)
}

type EventPublisher interface {
	PublishBookingCreated(booking models.Booking) error
	PublishBookingStatusChanged(booking models.Booking) error
}

// SeatCache is an advisory cache for booked-seat aggregations. It only
// bounds staleness; the database scan stays the source of truth.
type SeatCache interface {
	GetBookedSeats(bus, route, date string) ([]models.SeatNumber, bool, error)
	SetBookedSeats(bus, route, date string, seats []models.SeatNumber) error
	InvalidateBookedSeats(bus, route, date string) error
}

type TicketEncoder interface {
	GenerateBookingQR(booking models.Booking) ([]byte, error)
}

type BookingService struct {
	DB     DBLayer
	Cache  SeatCache
	Events EventPublisher
	QR     TicketEncoder
}

func NewBookingService(db DBLayer, cache SeatCache, events EventPublisher, qr TicketEncoder) *BookingService {
	return &BookingService{DB: db, Cache: cache, Events: events, QR: qr}
}

// requiredFields is the field list reported back on validation failure,
// in the order the API documents them.
var requiredFields = []string{
	"id", "bus", "route", "date", "time", "seats", "passengers",
	"boardingPoint", "droppingPoint", "amount", "bookingDate",
}

// RequiredFields lists every field a booking draft must carry, in the
// order the API reports them.
func RequiredFields() []string {
	return append([]string(nil), requiredFields...)
}

func missingFields(b models.Booking) []string {
	present := map[string]bool{
		"id":            b.ID != "",
		"bus":           b.Bus != "",
		"route":         b.Route != "",
		"date":          b.Date != "",
		"time":          b.Time != "",
		"seats":         len(b.Seats) > 0,
		"passengers":    len(b.Passengers) > 0,
		"boardingPoint": b.BoardingPoint != "",
		"droppingPoint": b.DroppingPoint != "",
		"amount":        b.Amount != 0,
		"bookingDate":   b.BookingDate != "",
	}
	var missing []string
	for _, field := range requiredFields {
		if !present[field] {
			missing = append(missing, field)
		}
	}
	return missing
}

// Create validates and persists a new booking. The amount is taken as
// submitted and never recomputed; existence checking is check-then-act,
// so the primary key is the only defense against a racing duplicate.
func (s *BookingService) Create(booking models.Booking) (*models.Booking, error) {
	if missing := missingFields(booking); len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	exists, err := s.DB.BookingExists(booking.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check booking id %s: %w", booking.ID, err)
	}
	if exists {
		return nil, ErrDuplicateID
	}

	if booking.Status == "" {
		booking.Status = models.StatusConfirmed
	}
	if booking.Payment.Method == "" {
		booking.Payment.Method = "Card"
	}
	if booking.Payment.TransactionID == "" {
		booking.Payment.TransactionID = utils.GenerateTransactionID()
	}

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if err := s.DB.CreateBooking(booking); err != nil {
		return nil, fmt.Errorf("failed to create booking %s: %w", booking.ID, err)
	}

	if s.Events != nil {
		if err := s.Events.PublishBookingCreated(booking); err != nil {
			fmt.Printf("Kafka publish error (booking created): %v\n", err)
		}
	}
	s.invalidateSeats(booking)

	return &booking, nil
}

// ListFilter narrows List results; empty fields match everything. Email
// and phone match any passenger on the booking exactly.
type ListFilter struct {
	Email     string
	Phone     string
	BookingID string
}

func (f ListFilter) matches(b models.Booking) bool {
	if f.BookingID != "" && b.ID != f.BookingID {
		return false
	}
	if f.Email != "" && !anyPassenger(b, func(p models.Passenger) bool { return p.Email == f.Email }) {
		return false
	}
	if f.Phone != "" && !anyPassenger(b, func(p models.Passenger) bool { return p.Phone == f.Phone }) {
		return false
	}
	return true
}

func anyPassenger(b models.Booking, match func(models.Passenger) bool) bool {
	for _, p := range b.Passengers {
		if match(p) {
			return true
		}
	}
	return false
}

// List returns bookings newest first, optionally filtered. Passenger
// fields live inside a JSON column, so filtering happens here rather than
// in SQL.
func (s *BookingService) List(filter ListFilter) ([]models.Booking, error) {
	bookings, err := s.DB.ListBookings()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	result := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if filter.matches(b) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (s *BookingService) Get(id string) (*models.Booking, error) {
	booking, err := s.DB.GetBookingByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking %s: %w", id, err)
	}
	return booking, nil
}

// UpdateStatus moves a booking to one of the recognized statuses. The
// seat cache for the affected trip is dropped so a freed seat shows up on
// the next availability query.
func (s *BookingService) UpdateStatus(id, status string) (*models.Booking, error) {
	if !models.IsValidStatus(status) {
		return nil, fmt.Errorf("%w: %s, valid statuses are: %v", ErrInvalidStatus, status, models.ValidStatuses())
	}

	booking, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	booking.Status = status
	booking.UpdatedAt = time.Now()
	if err := s.DB.UpdateBooking(*booking); err != nil {
		return nil, fmt.Errorf("failed to update booking %s: %w", id, err)
	}

	if s.Events != nil {
		if err := s.Events.PublishBookingStatusChanged(*booking); err != nil {
			fmt.Printf("Kafka publish error (booking status): %v\n", err)
		}
	}
	s.invalidateSeats(*booking)

	return booking, nil
}

// Cancel is a status transition, never a row delete. The record remains
// queryable in history; it simply stops counting toward booked seats.
func (s *BookingService) Cancel(id string) (*models.Booking, error) {
	return s.UpdateStatus(id, models.StatusCancelled)
}

// BookedSeats aggregates the seats of every Confirmed booking for one
// (bus, route, date), deduplicated and sorted. The result is advisory:
// nothing prevents two clients from booking the same seat between a read
// and a submission.
func (s *BookingService) BookedSeats(bus, route, date string) (*models.BookedSeats, error) {
	if s.Cache != nil {
		if seats, ok, err := s.Cache.GetBookedSeats(bus, route, date); err == nil && ok {
			return bookedSeatsResult(bus, route, date, seats), nil
		}
	}

	bookings, err := s.DB.GetConfirmedBookings(bus, route, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings for %s / %s / %s: %w", bus, route, date, err)
	}

	seen := make(map[models.SeatNumber]bool)
	var seats []models.SeatNumber
	for _, b := range bookings {
		for _, seat := range b.Seats {
			if !seen[seat] {
				seen[seat] = true
				seats = append(seats, seat)
			}
		}
	}
	models.SortSeatNumbers(seats)

	if s.Cache != nil {
		if err := s.Cache.SetBookedSeats(bus, route, date, seats); err != nil {
			fmt.Printf("Seat cache write error: %v\n", err)
		}
	}

	return bookedSeatsResult(bus, route, date, seats), nil
}

func bookedSeatsResult(bus, route, date string, seats []models.SeatNumber) *models.BookedSeats {
	if seats == nil {
		seats = []models.SeatNumber{}
	}
	return &models.BookedSeats{
		Bus:              bus,
		Route:            route,
		Date:             date,
		BookedSeats:      seats,
		TotalBookedSeats: len(seats),
	}
}

// TicketQR renders the encrypted e-ticket QR for an existing booking.
func (s *BookingService) TicketQR(id string) ([]byte, error) {
	booking, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if s.QR == nil {
		return nil, errors.New("qr generation is not configured")
	}
	return s.QR.GenerateBookingQR(*booking)
}

func (s *BookingService) invalidateSeats(b models.Booking) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.InvalidateBookedSeats(b.Bus, b.Route, b.Date); err != nil {
		fmt.Printf("Seat cache invalidation error: %v\n", err)
	}
}
