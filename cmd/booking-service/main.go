package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"bus-booking/internal/booking"
	"bus-booking/internal/booking/api"
	bookingdb "bus-booking/internal/booking/db"
	bookingkafka "bus-booking/internal/booking/kafka"
	"bus-booking/internal/booking/qr"
	bookingredis "bus-booking/internal/booking/redis"
	"bus-booking/internal/config"
	"bus-booking/internal/database/migrations"
	"bus-booking/internal/kafka"
	"bus-booking/internal/logger"
)

func connectPostgres(dsn string, log *logger.Logger) *bun.DB {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", dsn)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	log.Info("DATABASE", "✅ PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting Booking Service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	bunDB := connectPostgres(cfg.Database.DSN, log)
	defer bunDB.Close()

	if cfg.Database.AutoMigrate {
		runner := migrations.NewRunner(bunDB, cfg.Database.MigrationsDir)
		if err := runner.Up(); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Migration failed: %v", err))
		}
		if version, err := runner.Version(); err == nil {
			log.Info("DATABASE", fmt.Sprintf("Schema at version %d", version))
		}
	}

	// Redis is optional: without it the booked-seats aggregation just
	// hits the database on every request.
	var seatCache booking.SeatCache
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("REDIS", fmt.Sprintf("Redis unavailable, running without seat cache: %v", err))
	} else {
		log.Info("REDIS", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Redis.Addr))
		seatCache = bookingredis.NewSeatCache(redisClient, cfg.Redis.BookedSeatsTTL)
		defer redisClient.Close()
	}

	var events booking.EventPublisher
	if cfg.Kafka.Enabled {
		requiredTopics := []string{cfg.Kafka.Topics.BookingCreated, cfg.Kafka.Topics.BookingStatus}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}

		producer := bookingkafka.NewProducer(cfg.Kafka.Brokers,
			cfg.Kafka.Topics.BookingCreated, cfg.Kafka.Topics.BookingStatus)
		defer producer.Close()
		events = producer
		log.Info("KAFKA", "Kafka producer initialized successfully")
	} else {
		log.Info("KAFKA", "Kafka disabled, booking events will not be published")
	}

	service := booking.NewBookingService(
		&bookingdb.DB{Bun: bunDB},
		seatCache,
		events,
		qr.NewQRGenerator(cfg.App.QRSecret),
	)

	handler := &api.Handler{
		Service: service,
		Logger:  log,
		Name:    cfg.App.Name,
		Version: cfg.App.Version,
	}

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      handler.Routes(cfg.App.DevMode),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 %s running on %s", cfg.App.Name, cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("APP", "Shutdown signal received. Cleaning up...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("HTTP", fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	log.Info("APP", "✅ Server exited gracefully")
}
