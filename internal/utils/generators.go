package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// GenerateTransactionID returns a payment transaction reference in the
// TXN<unix-millis><random> form recorded on bookings.
func GenerateTransactionID() string {
	timestamp := time.Now().UnixMilli()
	randomNum, _ := rand.Int(rand.Reader, big.NewInt(999999999))
	return fmt.Sprintf("TXN%d%09d", timestamp, randomNum.Int64())
}

// GenerateBookingID returns a fresh caller-side booking identifier.
func GenerateBookingID() string {
	return uuid.NewString()
}

// GenerateSessionID returns an identifier for a planner session.
func GenerateSessionID() string {
	return uuid.NewString()
}

// Today returns the current date in the YYYY-MM-DD form used for the
// bookingDate field and for trip dates.
func Today() string {
	return time.Now().Format("2006-01-02")
}
