package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"bus-booking/internal/booking"
	"bus-booking/internal/logger"
	"bus-booking/internal/models"
	"bus-booking/internal/utils"

	"github.com/go-chi/chi/v5"
)

// BookingService is the surface the HTTP layer needs from the booking
// domain. Declared here so handler tests can substitute a fake.
type BookingService interface {
	Create(b models.Booking) (*models.Booking, error)
	List(filter booking.ListFilter) ([]models.Booking, error)
	Get(id string) (*models.Booking, error)
	UpdateStatus(id, status string) (*models.Booking, error)
	Cancel(id string) (*models.Booking, error)
	BookedSeats(bus, route, date string) (*models.BookedSeats, error)
	TicketQR(id string) ([]byte, error)
}

type Handler struct {
	Service BookingService
	Logger  *logger.Logger
	Name    string
	Version string
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, resp utils.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// Health reports service liveness along with name and version.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse(
		h.Name+" is running",
		map[string]string{
			"name":    h.Name,
			"version": h.Version,
			"time":    time.Now().Format(time.RFC3339),
		},
	))
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.Booking
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, utils.ErrorResponse(
			"Invalid request body", err.Error()))
		return
	}

	created, err := h.Service.Create(req)
	if err != nil {
		var missing *booking.MissingFieldsError
		switch {
		case errors.As(err, &missing):
			h.writeJSON(w, http.StatusBadRequest, utils.ErrorResponseWithData(
				"Missing required fields",
				"The following fields are missing: "+strings.Join(missing.Fields, ", "),
				booking.RequiredFields()))
		case errors.Is(err, booking.ErrDuplicateID):
			h.writeJSON(w, http.StatusConflict, utils.ErrorResponse(
				"Booking with this ID already exists", err.Error()))
		default:
			h.Logger.Error("API", "Failed to create booking: "+err.Error())
			h.writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse(
				"Failed to create booking", err.Error()))
		}
		return
	}

	h.Logger.LogBooking("CREATE", created.ID, "Booking created")
	h.writeJSON(w, http.StatusCreated, utils.SuccessResponse(
		"Booking created successfully", created))
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	filter := booking.ListFilter{
		Email:     r.URL.Query().Get("email"),
		Phone:     r.URL.Query().Get("phone"),
		BookingID: r.URL.Query().Get("bookingId"),
	}

	bookings, err := h.Service.List(filter)
	if err != nil {
		h.Logger.Error("API", "Failed to list bookings: "+err.Error())
		h.writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse(
			"Failed to retrieve bookings", err.Error()))
		return
	}

	h.writeJSON(w, http.StatusOK, utils.ListResponse(
		"Bookings fetched successfully", len(bookings), bookings))
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	b, err := h.Service.Get(bookingID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, utils.ErrorResponse(
				"Booking not found", "No booking exists with ID "+bookingID))
			return
		}
		h.Logger.Error("API", "Failed to get booking: "+err.Error())
		h.writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse(
			"Failed to retrieve booking", err.Error()))
		return
	}

	h.writeJSON(w, http.StatusOK, utils.SuccessResponse(
		"Booking fetched successfully", b))
}

func (h *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	var req models.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, utils.ErrorResponse(
			"Invalid request body", err.Error()))
		return
	}

	updated, err := h.Service.UpdateStatus(bookingID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidStatus):
			h.writeJSON(w, http.StatusBadRequest, utils.ErrorResponse(
				"Invalid status. Valid statuses are: "+strings.Join(models.ValidStatuses(), ", "),
				err.Error()))
		case errors.Is(err, booking.ErrNotFound):
			h.writeJSON(w, http.StatusNotFound, utils.ErrorResponse(
				"Booking not found", "No booking exists with ID "+bookingID))
		default:
			h.Logger.Error("API", "Failed to update booking status: "+err.Error())
			h.writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse(
				"Failed to update booking status", err.Error()))
		}
		return
	}

	h.Logger.LogBooking("STATUS", bookingID, "Status changed to "+updated.Status)
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse(
		"Booking updated successfully", updated))
}

// CancelBooking handles DELETE but performs a status transition. The
// record survives and stays visible in booking history.
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	cancelled, err := h.Service.Cancel(bookingID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, utils.ErrorResponse(
				"Booking not found", "No booking exists with ID "+bookingID))
			return
		}
		h.Logger.Error("API", "Failed to cancel booking: "+err.Error())
		h.writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse(
			"Failed to cancel booking", err.Error()))
		return
	}

	h.Logger.LogBooking("CANCEL", bookingID, "Booking cancelled")
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse(
		"Booking cancelled successfully", cancelled))
}

func (h *Handler) GetBookedSeats(w http.ResponseWriter, r *http.Request) {
	bus := r.URL.Query().Get("bus")
	route := r.URL.Query().Get("route")
	date := r.URL.Query().Get("date")

	if bus == "" || route == "" || date == "" {
		h.writeJSON(w, http.StatusBadRequest, utils.ErrorResponse(
			"Missing required parameters: bus, route, and date are required", ""))
		return
	}

	result, err := h.Service.BookedSeats(bus, route, date)
	if err != nil {
		h.Logger.Error("API", "Failed to get booked seats: "+err.Error())
		h.writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse(
			"Failed to retrieve booked seats", err.Error()))
		return
	}

	h.writeJSON(w, http.StatusOK, utils.SuccessResponse(
		"Booked seats fetched successfully", result))
}

// GetTicketQR streams the e-ticket QR code as a PNG image.
func (h *Handler) GetTicketQR(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	png, err := h.Service.TicketQR(bookingID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, utils.ErrorResponse(
				"Booking not found", "No booking exists with ID "+bookingID))
			return
		}
		h.Logger.Error("API", "Failed to generate ticket QR: "+err.Error())
		h.writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse(
			"Failed to generate ticket", err.Error()))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// NotFound is the catch-all for unknown routes, kept inside the envelope
// like every other response.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusNotFound, utils.ErrorResponse(
		"Route not found", r.Method+" "+r.URL.Path+" is not a valid endpoint"))
}
