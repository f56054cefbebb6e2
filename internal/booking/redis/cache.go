package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bus-booking/internal/models"

	"github.com/go-redis/redis/v8"
)

// SeatCache caches booked-seat aggregations per (bus, route, date). It is
// purely advisory: entries expire after TTL and are dropped eagerly on any
// write to a booking for the same trip, so a stale read only lasts until
// the next refresh.
type SeatCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSeatCache(client *redis.Client, ttl time.Duration) *SeatCache {
	return &SeatCache{Client: client, TTL: ttl}
}

func seatKey(bus, route, date string) string {
	return fmt.Sprintf("booked_seats:%s|%s|%s", bus, route, date)
}

// GetBookedSeats returns the cached seat set and whether it was present.
func (c *SeatCache) GetBookedSeats(bus, route, date string) ([]models.SeatNumber, bool, error) {
	val, err := c.Client.Get(context.Background(), seatKey(bus, route, date)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var seats []models.SeatNumber
	if err := json.Unmarshal([]byte(val), &seats); err != nil {
		return nil, false, err
	}
	return seats, true, nil
}

func (c *SeatCache) SetBookedSeats(bus, route, date string, seats []models.SeatNumber) error {
	if seats == nil {
		seats = []models.SeatNumber{}
	}
	data, err := json.Marshal(seats)
	if err != nil {
		return err
	}
	return c.Client.Set(context.Background(), seatKey(bus, route, date), data, c.TTL).Err()
}

func (c *SeatCache) InvalidateBookedSeats(bus, route, date string) error {
	return c.Client.Del(context.Background(), seatKey(bus, route, date)).Err()
}
