package kafka

import (
	"context"
	"encoding/json"
	"time"

	"bus-booking/internal/models"

	"github.com/segmentio/kafka-go"
)

// Producer streams booking lifecycle events. Creation and status changes
// go to separate topics so downstream consumers can subscribe to either
// independently.
type Producer struct {
	CreatedWriter *kafka.Writer
	StatusWriter  *kafka.Writer
}

func NewProducer(brokers []string, createdTopic, statusTopic string) *Producer {
	return &Producer{
		CreatedWriter: kafka.NewWriter(kafka.WriterConfig{
			Brokers: brokers,
			Topic:   createdTopic,
		}),
		StatusWriter: kafka.NewWriter(kafka.WriterConfig{
			Brokers: brokers,
			Topic:   statusTopic,
		}),
	}
}

type bookingCreatedEvent struct {
	BookingID string    `json:"bookingId"`
	Bus       string    `json:"bus"`
	Route     string    `json:"route"`
	Date      string    `json:"date"`
	SeatCount int       `json:"seatCount"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

type bookingStatusEvent struct {
	BookingID string    `json:"bookingId"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// PublishBookingCreated streams the new booking event to Kafka
func (p *Producer) PublishBookingCreated(booking models.Booking) error {
	event := bookingCreatedEvent{
		BookingID: booking.ID,
		Bus:       booking.Bus,
		Route:     booking.Route,
		Date:      booking.Date,
		SeatCount: len(booking.Seats),
		Amount:    booking.Amount,
		Timestamp: time.Now(),
	}
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.CreatedWriter.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(booking.ID),
			Value: msgBytes,
		},
	)
}

// PublishBookingStatusChanged streams a status transition to Kafka
func (p *Producer) PublishBookingStatusChanged(booking models.Booking) error {
	event := bookingStatusEvent{
		BookingID: booking.ID,
		Status:    booking.Status,
		Timestamp: time.Now(),
	}
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.StatusWriter.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(booking.ID),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	if err := p.CreatedWriter.Close(); err != nil {
		return err
	}
	return p.StatusWriter.Close()
}
