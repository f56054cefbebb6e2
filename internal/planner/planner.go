// Package planner implements the client-side booking flow: searching
// trips, picking seats against live availability, and submitting the
// final booking to the store.
package planner

import (
	"context"
	"errors"
	"fmt"
	"math"

	"bus-booking/internal/logger"
	"bus-booking/internal/models"
	"bus-booking/internal/seatmap"
	"bus-booking/internal/utils"
)

var (
	ErrNoTripSelected = errors.New("no trip selected")
	ErrSeatBooked     = errors.New("seat is already booked")
	ErrSeatUnknown    = errors.New("seat does not exist on this trip")
	ErrNoSeats        = errors.New("no seats selected")
)

// ServiceTaxRate is applied to the seat total at payment; the tax itself
// is rounded to the nearest rupee before adding.
const ServiceTaxRate = 0.05

type Planner struct {
	Store  SessionStore
	API    BookingAPI
	Logger *logger.Logger
}

func NewPlanner(store SessionStore, api BookingAPI, log *logger.Logger) *Planner {
	return &Planner{Store: store, API: api, Logger: log}
}

// StartSession creates and persists an empty session.
func (p *Planner) StartSession() (*Session, error) {
	session := &Session{ID: utils.GenerateSessionID()}
	if err := p.Store.Save(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Resume loads an existing session by ID.
func (p *Planner) Resume(id string) (*Session, error) {
	return p.Store.Load(id)
}

// Search validates the criteria, generates the trip catalog and resets
// any previous selection. Changing the search always invalidates
// downstream choices.
func (p *Planner) Search(session *Session, from, to, date string) error {
	if from == "" || to == "" || date == "" {
		return errors.New("from, to and date are required")
	}
	if from == to {
		return errors.New("origin and destination must differ")
	}
	if !IsCity(from) {
		return fmt.Errorf("unknown city: %s", from)
	}
	if !IsCity(to) {
		return fmt.Errorf("unknown city: %s", to)
	}

	session.From = from
	session.To = to
	session.Date = date
	session.Trips = GenerateTrips()
	session.clearSelection()

	p.Logger.Info("PLANNER", fmt.Sprintf("Search %s to %s on %s: %d trips", from, to, date, len(session.Trips)))
	return p.Store.Save(session)
}

// SelectTrip picks a trip from the current results, clears the seat
// selection and refreshes availability from the store.
func (p *Planner) SelectTrip(ctx context.Context, session *Session, tripID int) error {
	var found bool
	for i := range session.Trips {
		if session.Trips[i].ID == tripID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("trip %d is not in the current results", tripID)
	}

	session.SelectedTripID = tripID
	session.SelectedSeats = nil
	session.Passengers = nil

	if err := p.RefreshAvailability(ctx, session); err != nil {
		return err
	}
	return p.Store.Save(session)
}

// RefreshAvailability fetches the booked-seat set for the selected trip
// and merges it into the seat map. When the store is unreachable the
// local map is kept and the session is flagged stale instead of failing
// the flow.
func (p *Planner) RefreshAvailability(ctx context.Context, session *Session) error {
	trip := session.SelectedTrip()
	if trip == nil {
		return ErrNoTripSelected
	}

	booked, err := p.API.BookedSeats(ctx, trip.Name, session.Route(), session.Date)
	if err != nil {
		p.Logger.Warn("PLANNER", "Booked seats unavailable, showing possibly stale data: "+err.Error())
		session.StaleAvailability = true
		return p.Store.Save(session)
	}

	seatmap.ApplyBookedSeats(trip.Seats, booked.BookedSeats)
	session.StaleAvailability = false

	// Drop selected seats that turned out to be booked elsewhere
	kept := session.SelectedSeats[:0]
	for _, n := range session.SelectedSeats {
		if seat := trip.SeatByNumber(n); seat != nil && seat.Status == models.SeatAvailable {
			kept = append(kept, n)
		}
	}
	session.SelectedSeats = kept

	return p.Store.Save(session)
}

// ToggleSeat adds or removes a seat from the selection. Booked seats and
// the driver seat are rejected; there is no upper bound on how many
// seats one session may select.
func (p *Planner) ToggleSeat(session *Session, n models.SeatNumber) error {
	trip := session.SelectedTrip()
	if trip == nil {
		return ErrNoTripSelected
	}

	seat := trip.SeatByNumber(n)
	if seat == nil {
		return ErrSeatUnknown
	}
	if seat.Status == models.SeatBooked || seat.Status == models.SeatDriver {
		return ErrSeatBooked
	}

	if session.SeatSelected(n) {
		kept := session.SelectedSeats[:0]
		for _, s := range session.SelectedSeats {
			if s != n {
				kept = append(kept, s)
			}
		}
		session.SelectedSeats = kept
	} else {
		session.SelectedSeats = append(session.SelectedSeats, n)
	}

	return p.Store.Save(session)
}

// SetPoints records the boarding and dropping choices. Both must be
// valid catalog entries.
func (p *Planner) SetPoints(session *Session, boardingPoint, droppingPoint string) error {
	if !ValidBoardingPoint(boardingPoint) {
		return fmt.Errorf("unknown boarding point: %s", boardingPoint)
	}
	if !ValidDroppingPoint(droppingPoint) {
		return fmt.Errorf("unknown dropping point: %s", droppingPoint)
	}

	session.BoardingPoint = boardingPoint
	session.DroppingPoint = droppingPoint
	return p.Store.Save(session)
}

// SetPassengers records passenger details, one per selected seat.
func (p *Planner) SetPassengers(session *Session, passengers []models.Passenger) error {
	if len(session.SelectedSeats) == 0 {
		return ErrNoSeats
	}
	if len(passengers) != len(session.SelectedSeats) {
		return fmt.Errorf("expected %d passengers for %d seats, got %d",
			len(session.SelectedSeats), len(session.SelectedSeats), len(passengers))
	}
	for i, passenger := range passengers {
		if passenger.Name == "" || passenger.Email == "" || passenger.Phone == "" ||
			passenger.Age == "" || passenger.Gender == "" {
			return fmt.Errorf("passenger %d: name, email, phone, age and gender are required", i+1)
		}
	}

	session.Passengers = passengers
	return p.Store.Save(session)
}

// TotalAmount is the payable sum: seat total plus service tax, the tax
// rounded to the nearest rupee.
func (p *Planner) TotalAmount(session *Session) (float64, error) {
	trip := session.SelectedTrip()
	if trip == nil {
		return 0, ErrNoTripSelected
	}
	if len(session.SelectedSeats) == 0 {
		return 0, ErrNoSeats
	}

	base := float64(len(session.SelectedSeats)) * trip.Price
	tax := math.Round(base * ServiceTaxRate)
	return base + tax, nil
}

// Pay assembles the booking from the session, submits it to the store
// and, on success, wipes the flow state and appends the booking to the
// session's history.
func (p *Planner) Pay(ctx context.Context, session *Session) (*models.Booking, error) {
	trip := session.SelectedTrip()
	if trip == nil {
		return nil, ErrNoTripSelected
	}
	if len(session.SelectedSeats) == 0 {
		return nil, ErrNoSeats
	}
	if session.BoardingPoint == "" || session.DroppingPoint == "" {
		return nil, errors.New("boarding and dropping points must be selected")
	}
	if len(session.Passengers) != len(session.SelectedSeats) {
		return nil, errors.New("passenger details are incomplete")
	}

	amount, err := p.TotalAmount(session)
	if err != nil {
		return nil, err
	}

	booking := models.Booking{
		ID:            utils.GenerateBookingID(),
		Bus:           trip.Name,
		Route:         session.Route(),
		Date:          session.Date,
		Time:          trip.DepartureTime,
		Seats:         append([]models.SeatNumber(nil), session.SelectedSeats...),
		Passengers:    session.Passengers,
		BoardingPoint: session.BoardingPoint,
		DroppingPoint: session.DroppingPoint,
		Amount:        amount,
		Status:        models.StatusConfirmed,
		BookingDate:   utils.Today(),
		Payment: models.PaymentDetails{
			Method:        "Card",
			TransactionID: utils.GenerateTransactionID(),
		},
	}

	created, err := p.API.CreateBooking(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("payment failed: %w", err)
	}

	p.Logger.LogBooking("PAY", created.ID, fmt.Sprintf("Paid %.0f for %d seats", amount, len(booking.Seats)))

	session.History = append(session.History, *created)
	session.clearFlow()
	if err := p.Store.Save(session); err != nil {
		p.Logger.Warn("PLANNER", "Failed to persist session after payment: "+err.Error())
	}

	return created, nil
}

// Route renders the session's search as the route string stored on
// bookings.
func (s *Session) Route() string {
	return s.From + " → " + s.To
}
