// Command trip-planner drives the booking API through a complete
// planning flow: search, trip and seat selection, passenger details and
// payment. Useful as a smoke test against a running booking service.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"bus-booking/internal/config"
	"bus-booking/internal/logger"
	"bus-booking/internal/models"
	"bus-booking/internal/planner"
)

func main() {
	log := logger.NewLogger()
	defer log.Close()

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	baseURL := os.Getenv("BOOKING_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost" + cfg.Server.Port
	}

	// Sessions go to Redis when it is reachable, memory otherwise.
	var store planner.SessionStore
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("REDIS", "Redis unavailable, keeping sessions in memory")
		store = planner.NewMemorySessionStore()
	} else {
		store = planner.NewRedisSessionStore(redisClient, cfg.Redis.SessionTTL)
		defer redisClient.Close()
	}

	p := planner.NewPlanner(store, planner.NewClient(baseURL), log)

	session, err := p.StartSession()
	if err != nil {
		log.Fatal("PLANNER", fmt.Sprintf("Failed to start session: %v", err))
	}
	log.Info("PLANNER", "Session "+session.ID)

	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	if err := p.Search(session, "Chennai", "Coimbatore", date); err != nil {
		log.Fatal("PLANNER", fmt.Sprintf("Search failed: %v", err))
	}

	for _, trip := range session.Trips {
		log.Info("PLANNER", fmt.Sprintf("  [%d] %s (%s) ₹%.0f, %s - %s, %d seats free",
			trip.ID, trip.Name, trip.Class, trip.Price,
			trip.DepartureTime, trip.ArrivalTime, trip.AvailableSeats()))
	}

	if err := p.SelectTrip(ctx, session, 1); err != nil {
		log.Fatal("PLANNER", fmt.Sprintf("Trip selection failed: %v", err))
	}
	trip := session.SelectedTrip()
	if session.StaleAvailability {
		log.Warn("PLANNER", "Showing possibly stale availability for "+trip.Name)
	}
	log.Info("PLANNER", fmt.Sprintf("Selected %s, %d seats free", trip.Name, trip.AvailableSeats()))

	// Grab the first two free berths
	picked := 0
	for _, seat := range trip.Seats {
		if seat.Status != models.SeatAvailable {
			continue
		}
		if err := p.ToggleSeat(session, seat.Number); err != nil {
			log.Warn("PLANNER", fmt.Sprintf("Seat %s: %v", seat.Number, err))
			continue
		}
		picked++
		if picked == 2 {
			break
		}
	}
	if picked < 2 {
		log.Fatal("PLANNER", "Could not find two free seats")
	}
	log.Info("PLANNER", fmt.Sprintf("Selected seats %v", session.SelectedSeats))

	if err := p.SetPoints(session, "bp1", "dp2"); err != nil {
		log.Fatal("PLANNER", fmt.Sprintf("Point selection failed: %v", err))
	}

	passengers := []models.Passenger{
		{Name: "Arun Kumar", Email: "arun.kumar@example.com", Phone: "9876543210", Age: "28", Gender: "Male"},
		{Name: "Priya Raman", Email: "priya.raman@example.com", Phone: "9123456780", Age: "26", Gender: "Female"},
	}
	if err := p.SetPassengers(session, passengers); err != nil {
		log.Fatal("PLANNER", fmt.Sprintf("Passenger details rejected: %v", err))
	}

	amount, err := p.TotalAmount(session)
	if err != nil {
		log.Fatal("PLANNER", fmt.Sprintf("Amount calculation failed: %v", err))
	}
	log.Info("PLANNER", fmt.Sprintf("Paying ₹%.0f (includes service tax)", amount))

	booking, err := p.Pay(ctx, session)
	if err != nil {
		log.Fatal("PLANNER", fmt.Sprintf("Payment failed: %v", err))
	}

	log.Info("PLANNER", fmt.Sprintf("✅ Booked! ID %s, transaction %s", booking.ID, booking.Payment.TransactionID))
	log.Info("PLANNER", fmt.Sprintf("History now holds %d booking(s)", len(session.History)))
}
