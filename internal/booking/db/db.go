package db

import (
	"context"

	"bus-booking/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- BOOKINGS ----------------

// CreateBooking → insert new booking
func (d *DB) CreateBooking(booking models.Booking) error {
	_, err := d.Bun.NewInsert().Model(&booking).Exec(context.Background())
	return err
}

// GetBookingByID → fetch one booking by its ID
func (d *DB) GetBookingByID(id string) (*models.Booking, error) {
	var booking models.Booking
	err := d.Bun.NewSelect().
		Model(&booking).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// BookingExists → check whether a booking ID is already taken
func (d *DB) BookingExists(id string) (bool, error) {
	count, err := d.Bun.NewSelect().
		Model((*models.Booking)(nil)).
		Where("id = ?", id).
		Count(context.Background())
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateBooking → update mutable fields
func (d *DB) UpdateBooking(booking models.Booking) error {
	_, err := d.Bun.NewUpdate().
		Model(&booking).
		Column("status", "payment_details", "updated_at").
		Where("id = ?", booking.ID).
		Exec(context.Background())
	return err
}

// ListBookings → fetch every booking, newest first
func (d *DB) ListBookings() ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

// GetConfirmedBookings → fetch confirmed bookings for one bus, route and
// travel date. Cancelled and completed bookings do not hold seats.
func (d *DB) GetConfirmedBookings(bus, route, date string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("bus = ?", bus).
		Where("route = ?", route).
		Where("date = ?", date).
		Where("status = ?", models.StatusConfirmed).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
