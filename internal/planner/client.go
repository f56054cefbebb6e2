package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"bus-booking/internal/models"
)

// BookingAPI is what the planner needs from the booking store.
type BookingAPI interface {
	CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error)
	BookedSeats(ctx context.Context, bus, route, date string) (*models.BookedSeats, error)
}

// Client talks to the booking service REST API and unwraps its response
// envelope.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// apiEnvelope mirrors the server's response shape with raw data so each
// call can decode its own payload type.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("invalid response from booking service: %w", err)
	}

	if !envelope.Success {
		if envelope.Error != "" {
			return fmt.Errorf("%s: %s", envelope.Message, envelope.Error)
		}
		return fmt.Errorf("%s", envelope.Message)
	}

	if out != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("invalid response payload: %w", err)
		}
	}
	return nil
}

func (c *Client) CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	var created models.Booking
	if err := c.do(ctx, http.MethodPost, "/api/bookings", booking, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) BookedSeats(ctx context.Context, bus, route, date string) (*models.BookedSeats, error) {
	query := url.Values{}
	query.Set("bus", bus)
	query.Set("route", route)
	query.Set("date", date)

	var result models.BookedSeats
	if err := c.do(ctx, http.MethodGet, "/api/booked-seats?"+query.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
