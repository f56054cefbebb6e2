package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"

	"bus-booking/internal/models"

	"github.com/skip2/go-qrcode"
)

type QRGenerator struct {
	secret []byte
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &QRGenerator{secret: hashed[:]}
}

// ticketPayload is the portion of a booking embedded in the e-ticket QR.
// Passenger contact details stay out of it.
type ticketPayload struct {
	BookingID     string              `json:"bookingId"`
	Bus           string              `json:"bus"`
	Route         string              `json:"route"`
	Date          string              `json:"date"`
	Time          string              `json:"time"`
	Seats         []models.SeatNumber `json:"seats"`
	BoardingPoint string              `json:"boardingPoint"`
	Status        string              `json:"status"`
	TransactionID string              `json:"transactionId"`
}

// GenerateBookingQR renders an encrypted e-ticket QR code as a PNG.
func (q *QRGenerator) GenerateBookingQR(booking models.Booking) ([]byte, error) {
	payload := ticketPayload{
		BookingID:     booking.ID,
		Bus:           booking.Bus,
		Route:         booking.Route,
		Date:          booking.Date,
		Time:          booking.Time,
		Seats:         booking.Seats,
		BoardingPoint: booking.BoardingPoint,
		Status:        booking.Status,
		TransactionID: booking.Payment.TransactionID,
	}
	encrypted, err := encodePayload(payload, q.secret)
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(encrypted, qrcode.Medium, 256)
}

func encodePayload(payload ticketPayload, key []byte) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return encryptAES(data, key)
}

// DecodeTicket decrypts a scanned QR payload back into the embedded ticket
// fields. Used by gate validation tooling.
func (q *QRGenerator) DecodeTicket(encoded string) (*models.Booking, error) {
	data, err := decryptAES(encoded, q.secret)
	if err != nil {
		return nil, err
	}

	var payload ticketPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	return &models.Booking{
		ID:            payload.BookingID,
		Bus:           payload.Bus,
		Route:         payload.Route,
		Date:          payload.Date,
		Time:          payload.Time,
		Seats:         payload.Seats,
		BoardingPoint: payload.BoardingPoint,
		Status:        payload.Status,
		Payment:       models.PaymentDetails{TransactionID: payload.TransactionID},
	}, nil
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]

	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

func decryptAES(encoded string, key []byte) ([]byte, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aes.BlockSize {
		return nil, errors.New("ciphertext too short")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	iv := ciphertext[:aes.BlockSize]
	data := make([]byte, len(ciphertext)-aes.BlockSize)
	stream := cipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(data, ciphertext[aes.BlockSize:])

	return data, nil
}
