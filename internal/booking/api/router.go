package api

import (
	"github.com/go-chi/chi/v5"
)

// Routes builds the full route tree for the booking API.
func (h *Handler) Routes(devMode bool) chi.Router {
	r := chi.NewRouter()

	r.Use(h.RequestLogger)
	r.Use(h.Recoverer(devMode))

	r.Get("/", h.Health)
	r.Get("/api/booked-seats", h.GetBookedSeats)

	r.Route("/api/bookings", func(r chi.Router) {
		r.Post("/", h.CreateBooking)
		r.Get("/", h.ListBookings)
		r.Get("/{bookingId}", h.GetBooking)
		r.Put("/{bookingId}", h.UpdateBookingStatus)
		r.Delete("/{bookingId}", h.CancelBooking)
		r.Get("/{bookingId}/qr", h.GetTicketQR)
	})

	r.NotFound(h.NotFound)

	return r
}
