package booking_test

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	"bus-booking/internal/booking"
	"bus-booking/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock implementations for testing

type MockBookingDB struct {
	bookings     map[string]*models.Booking
	order        []string
	shouldFailOn string
	errorMsg     string
}

func NewMockBookingDB() *MockBookingDB {
	return &MockBookingDB{bookings: make(map[string]*models.Booking)}
}

func (m *MockBookingDB) CreateBooking(b models.Booking) error {
	if m.shouldFailOn == "CreateBooking" {
		return errors.New(m.errorMsg)
	}
	m.bookings[b.ID] = &b
	m.order = append(m.order, b.ID)
	return nil
}

func (m *MockBookingDB) GetBookingByID(id string) (*models.Booking, error) {
	if m.shouldFailOn == "GetBookingByID" {
		return nil, errors.New(m.errorMsg)
	}
	b, exists := m.bookings[id]
	if !exists {
		return nil, sql.ErrNoRows
	}
	return b, nil
}

func (m *MockBookingDB) BookingExists(id string) (bool, error) {
	if m.shouldFailOn == "BookingExists" {
		return false, errors.New(m.errorMsg)
	}
	_, exists := m.bookings[id]
	return exists, nil
}

func (m *MockBookingDB) UpdateBooking(b models.Booking) error {
	if m.shouldFailOn == "UpdateBooking" {
		return errors.New(m.errorMsg)
	}
	if _, exists := m.bookings[b.ID]; !exists {
		return sql.ErrNoRows
	}
	m.bookings[b.ID] = &b
	return nil
}

func (m *MockBookingDB) ListBookings() ([]models.Booking, error) {
	if m.shouldFailOn == "ListBookings" {
		return nil, errors.New(m.errorMsg)
	}
	result := []models.Booking{}
	for i := len(m.order) - 1; i >= 0; i-- {
		result = append(result, *m.bookings[m.order[i]])
	}
	return result, nil
}

func (m *MockBookingDB) GetConfirmedBookings(bus, route, date string) ([]models.Booking, error) {
	if m.shouldFailOn == "GetConfirmedBookings" {
		return nil, errors.New(m.errorMsg)
	}
	var result []models.Booking
	for _, id := range m.order {
		b := m.bookings[id]
		if b.Bus == bus && b.Route == route && b.Date == date && b.Status == models.StatusConfirmed {
			result = append(result, *b)
		}
	}
	return result, nil
}

type MockPublisher struct {
	created []string
	status  []string
}

func (m *MockPublisher) PublishBookingCreated(b models.Booking) error {
	m.created = append(m.created, b.ID)
	return nil
}

func (m *MockPublisher) PublishBookingStatusChanged(b models.Booking) error {
	m.status = append(m.status, b.ID+":"+b.Status)
	return nil
}

type MockSeatCache struct {
	entries     map[string][]models.SeatNumber
	invalidated []string
}

func NewMockSeatCache() *MockSeatCache {
	return &MockSeatCache{entries: make(map[string][]models.SeatNumber)}
}

func cacheKey(bus, route, date string) string {
	return strings.Join([]string{bus, route, date}, "|")
}

func (m *MockSeatCache) GetBookedSeats(bus, route, date string) ([]models.SeatNumber, bool, error) {
	seats, ok := m.entries[cacheKey(bus, route, date)]
	return seats, ok, nil
}

func (m *MockSeatCache) SetBookedSeats(bus, route, date string, seats []models.SeatNumber) error {
	m.entries[cacheKey(bus, route, date)] = seats
	return nil
}

func (m *MockSeatCache) InvalidateBookedSeats(bus, route, date string) error {
	delete(m.entries, cacheKey(bus, route, date))
	m.invalidated = append(m.invalidated, cacheKey(bus, route, date))
	return nil
}

func validBooking(id string) models.Booking {
	return models.Booking{
		ID:    id,
		Bus:   "KPN Travels - AC Sleeper",
		Route: "Chennai to Coimbatore",
		Date:  "2025-03-15",
		Time:  "21:00",
		Seats: []models.SeatNumber{models.SeatNum(1), models.SeatNum(3)},
		Passengers: []models.Passenger{
			{Name: "Arun Kumar", Email: "arun@example.com", Phone: "9876543210", Age: "28", Gender: "Male"},
		},
		BoardingPoint: "bp1",
		DroppingPoint: "dp2",
		Amount:        1995,
		BookingDate:   "2025-03-10",
	}
}

func setupService() (*booking.BookingService, *MockBookingDB, *MockSeatCache, *MockPublisher) {
	db := NewMockBookingDB()
	cache := NewMockSeatCache()
	events := &MockPublisher{}
	svc := booking.NewBookingService(db, cache, events, nil)
	return svc, db, cache, events
}

func TestCreateBooking(t *testing.T) {
	svc, db, _, events := setupService()

	created, err := svc.Create(validBooking("BK001"))
	require.NoError(t, err)
	require.NotNil(t, created)

	// Defaults are filled in
	assert.Equal(t, models.StatusConfirmed, created.Status)
	assert.Equal(t, "Card", created.Payment.Method)
	assert.True(t, strings.HasPrefix(created.Payment.TransactionID, "TXN"))
	assert.False(t, created.CreatedAt.IsZero())

	// Persisted and announced
	assert.Contains(t, db.bookings, "BK001")
	assert.Equal(t, []string{"BK001"}, events.created)
}

func TestCreateBookingKeepsSubmittedFields(t *testing.T) {
	svc, _, _, _ := setupService()

	b := validBooking("BK002")
	b.Status = models.StatusCompleted
	b.Payment = models.PaymentDetails{Method: "UPI", TransactionID: "TXN123"}
	b.Amount = 42 // trusted as submitted, never recomputed

	created, err := svc.Create(b)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, created.Status)
	assert.Equal(t, "UPI", created.Payment.Method)
	assert.Equal(t, "TXN123", created.Payment.TransactionID)
	assert.Equal(t, float64(42), created.Amount)
}

func TestCreateBookingMissingFields(t *testing.T) {
	svc, _, _, _ := setupService()

	b := validBooking("")
	b.Seats = nil
	b.Amount = 0

	_, err := svc.Create(b)
	require.Error(t, err)

	var missing *booking.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"id", "seats", "amount"}, missing.Fields)
}

func TestCreateBookingDuplicateID(t *testing.T) {
	svc, _, _, _ := setupService()

	_, err := svc.Create(validBooking("BK003"))
	require.NoError(t, err)

	_, err = svc.Create(validBooking("BK003"))
	assert.ErrorIs(t, err, booking.ErrDuplicateID)
}

func TestCreateBookingDBFailure(t *testing.T) {
	svc, db, _, _ := setupService()
	db.shouldFailOn = "CreateBooking"
	db.errorMsg = "connection refused"

	_, err := svc.Create(validBooking("BK004"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestListBookingsFilters(t *testing.T) {
	svc, _, _, _ := setupService()

	first := validBooking("BK010")
	second := validBooking("BK011")
	second.Passengers = []models.Passenger{
		{Name: "Priya", Email: "priya@example.com", Phone: "9000000000", Age: "25", Gender: "Female"},
	}
	_, err := svc.Create(first)
	require.NoError(t, err)
	_, err = svc.Create(second)
	require.NoError(t, err)

	// No filter returns everything, newest first
	all, err := svc.List(booking.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "BK011", all[0].ID)

	// Email filter matches any passenger on the booking
	byEmail, err := svc.List(booking.ListFilter{Email: "priya@example.com"})
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "BK011", byEmail[0].ID)

	byPhone, err := svc.List(booking.ListFilter{Phone: "9876543210"})
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "BK010", byPhone[0].ID)

	byID, err := svc.List(booking.ListFilter{BookingID: "BK010"})
	require.NoError(t, err)
	require.Len(t, byID, 1)

	// A filter that matches nothing returns an empty slice
	none, err := svc.List(booking.ListFilter{Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Len(t, none, 0)
}

func TestGetBooking(t *testing.T) {
	svc, _, _, _ := setupService()

	_, err := svc.Create(validBooking("BK020"))
	require.NoError(t, err)

	b, err := svc.Get("BK020")
	require.NoError(t, err)
	assert.Equal(t, "BK020", b.ID)

	_, err = svc.Get("missing")
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	svc, _, _, events := setupService()

	_, err := svc.Create(validBooking("BK030"))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus("BK030", models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Contains(t, events.status, "BK030:Completed")

	_, err = svc.UpdateStatus("BK030", "Teleported")
	assert.ErrorIs(t, err, booking.ErrInvalidStatus)

	_, err = svc.UpdateStatus("missing", models.StatusCancelled)
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestCancelKeepsRecord(t *testing.T) {
	svc, db, _, _ := setupService()

	_, err := svc.Create(validBooking("BK040"))
	require.NoError(t, err)

	cancelled, err := svc.Cancel("BK040")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	// The row still exists and shows up in history
	assert.Contains(t, db.bookings, "BK040")
	all, err := svc.List(booking.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBookedSeatsAggregation(t *testing.T) {
	svc, _, _, _ := setupService()

	first := validBooking("BK050")
	first.Seats = []models.SeatNumber{models.SeatNum(3), models.SeatNum(1)}
	second := validBooking("BK051")
	second.Seats = []models.SeatNumber{models.SeatNum(3), models.SeatMarker("U2"), models.SeatNum(12)}
	cancelled := validBooking("BK052")
	cancelled.Seats = []models.SeatNumber{models.SeatNum(40)}

	_, err := svc.Create(first)
	require.NoError(t, err)
	_, err = svc.Create(second)
	require.NoError(t, err)
	_, err = svc.Create(cancelled)
	require.NoError(t, err)
	_, err = svc.Cancel("BK052")
	require.NoError(t, err)

	result, err := svc.BookedSeats("KPN Travels - AC Sleeper", "Chennai to Coimbatore", "2025-03-15")
	require.NoError(t, err)

	// Union of confirmed bookings only, deduplicated, numeric seats first
	assert.Equal(t, 4, result.TotalBookedSeats)
	assert.Equal(t, []models.SeatNumber{
		models.SeatNum(1), models.SeatNum(3), models.SeatNum(12), models.SeatMarker("U2"),
	}, result.BookedSeats)
}

func TestBookedSeatsEmpty(t *testing.T) {
	svc, _, _, _ := setupService()

	result, err := svc.BookedSeats("No Such Bus", "Nowhere to Nowhere", "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalBookedSeats)
	assert.NotNil(t, result.BookedSeats)
	assert.Len(t, result.BookedSeats, 0)
}

func TestBookedSeatsUsesCache(t *testing.T) {
	svc, db, cache, _ := setupService()

	_, err := svc.Create(validBooking("BK060"))
	require.NoError(t, err)

	// First read fills the cache
	result, err := svc.BookedSeats("KPN Travels - AC Sleeper", "Chennai to Coimbatore", "2025-03-15")
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalBookedSeats)
	assert.Len(t, cache.entries, 1)

	// Second read is served from the cache even if the DB fails
	db.shouldFailOn = "GetConfirmedBookings"
	db.errorMsg = "connection refused"
	result, err = svc.BookedSeats("KPN Travels - AC Sleeper", "Chennai to Coimbatore", "2025-03-15")
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalBookedSeats)
}

func TestCacheInvalidationOnWrite(t *testing.T) {
	svc, _, cache, _ := setupService()

	_, err := svc.Create(validBooking("BK070"))
	require.NoError(t, err)

	_, err = svc.BookedSeats("KPN Travels - AC Sleeper", "Chennai to Coimbatore", "2025-03-15")
	require.NoError(t, err)
	require.Len(t, cache.entries, 1)

	// Cancelling drops the cached entry so freed seats reappear promptly
	_, err = svc.Cancel("BK070")
	require.NoError(t, err)
	assert.Len(t, cache.entries, 0)

	result, err := svc.BookedSeats("KPN Travels - AC Sleeper", "Chennai to Coimbatore", "2025-03-15")
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalBookedSeats)
}
