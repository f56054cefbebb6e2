package redis_test

import (
	"context"
	"testing"
	"time"

	bookingredis "bus-booking/internal/booking/redis"
	"bus-booking/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestSeatCacheIntegration exercises the cache against a real Redis container
func TestSeatCacheIntegration(t *testing.T) {
	// Skip if short test mode
	if testing.Short() {
		t.Skip("Skipping Redis integration test in short mode")
	}

	ctx := context.Background()
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:latest",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}
	defer redisContainer.Terminate(ctx)

	host, err := redisContainer.Host(ctx)
	require.NoError(t, err)

	port, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port.Port(),
		Password: "",
		DB:       0,
	})

	cache := bookingredis.NewSeatCache(client, 30*time.Second)

	bus := "KPN Travels - AC Sleeper"
	route := "Chennai to Coimbatore"
	date := "2025-03-15"

	// Miss before any write
	seats, ok, err := cache.GetBookedSeats(bus, route, date)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, seats)

	// Write and read back, preserving the numeric/label distinction
	stored := []models.SeatNumber{models.SeatNum(1), models.SeatNum(3), models.SeatMarker("D1")}
	err = cache.SetBookedSeats(bus, route, date, stored)
	assert.NoError(t, err)

	seats, ok, err = cache.GetBookedSeats(bus, route, date)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, stored, seats)

	// A different date is a separate key
	_, ok, err = cache.GetBookedSeats(bus, route, "2025-03-16")
	assert.NoError(t, err)
	assert.False(t, ok)

	// Invalidation drops the entry
	err = cache.InvalidateBookedSeats(bus, route, date)
	assert.NoError(t, err)

	_, ok, err = cache.GetBookedSeats(bus, route, date)
	assert.NoError(t, err)
	assert.False(t, ok)

	// An empty set is cached as present, distinct from a miss
	err = cache.SetBookedSeats(bus, route, date, nil)
	assert.NoError(t, err)

	seats, ok, err = cache.GetBookedSeats(bus, route, date)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, seats, 0)

	// Entries expire on their own
	short := bookingredis.NewSeatCache(client, time.Second)
	err = short.SetBookedSeats(bus, route, "2025-04-01", stored)
	assert.NoError(t, err)
	time.Sleep(1500 * time.Millisecond)
	_, ok, err = short.GetBookedSeats(bus, route, "2025-04-01")
	assert.NoError(t, err)
	assert.False(t, ok)
}
