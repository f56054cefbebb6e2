// Package seatmap generates the deterministic seat layout of a trip class
// and reconciles it with the booked-seat set reported by the booking store.
package seatmap

import (
	"bus-booking/internal/models"
)

const (
	SeaterRows    = 10
	SeaterPerRow  = 4
	SleeperRows   = 5
	SleeperPerRow = 6
)

// Generate produces the full seat list for a trip class, every passenger
// seat available and exactly one driver seat. The layout is a pure
// function of the class; both supported classes are handled and anything
// else falls back to the seater layout.
func Generate(class models.TripClass) []models.Seat {
	if class.IsSleeper() {
		return generateSleeper()
	}
	return generateSeater()
}

func driverSeat() models.Seat {
	return models.Seat{
		Number: models.DriverSeat(),
		Status: models.SeatDriver,
		Row:    0,
	}
}

// generateSeater lays out 10 rows of 4 in a 2+2 configuration. Seats 1,2
// of each row sit left of the aisle, 3,4 right. The first two rows keep
// seats 1, 2, 5 and 6 for ladies.
func generateSeater() []models.Seat {
	seats := make([]models.Seat, 0, SeaterRows*SeaterPerRow+1)
	seats = append(seats, driverSeat())

	for row := 1; row <= SeaterRows; row++ {
		for seatInRow := 1; seatInRow <= SeaterPerRow; seatInRow++ {
			number := (row-1)*SeaterPerRow + seatInRow

			side := models.SideLeft
			if seatInRow > 2 {
				side = models.SideRight
			}

			category := models.CategoryRegular
			if row <= 2 && (number == 1 || number == 2 || number == 5 || number == 6) {
				category = models.CategoryLadies
			}

			seats = append(seats, models.Seat{
				Number:   models.SeatNum(number),
				Status:   models.SeatAvailable,
				Category: category,
				Row:      row,
				Side:     side,
			})
		}
	}
	return seats
}

// generateSleeper lays out 5 rows of 6 berths in a 1+2 configuration: one
// single berth column on the left and two berth columns on the right, each
// with an upper and a lower tier. Within the first two rows the two left
// berths of the row are ladies berths.
func generateSleeper() []models.Seat {
	seats := make([]models.Seat, 0, SleeperRows*SleeperPerRow+1)
	seats = append(seats, driverSeat())

	for row := 1; row <= SleeperRows; row++ {
		base := (row - 1) * SleeperPerRow
		for k := 1; k <= SleeperPerRow; k++ {
			number := base + k

			var side models.Side
			var berth models.BerthTier
			var slot models.BerthSlot
			switch k {
			case 1:
				side, berth, slot = models.SideLeft, models.BerthUpper, models.SlotSingle
			case 2:
				side, berth, slot = models.SideLeft, models.BerthLower, models.SlotSingle
			case 3:
				side, berth, slot = models.SideRight, models.BerthUpper, models.SlotFirst
			case 4:
				side, berth, slot = models.SideRight, models.BerthLower, models.SlotFirst
			case 5:
				side, berth, slot = models.SideRight, models.BerthUpper, models.SlotSecond
			case 6:
				side, berth, slot = models.SideRight, models.BerthLower, models.SlotSecond
			}

			category := models.CategoryRegular
			if row <= 2 && k <= 2 {
				category = models.CategoryLadies
			}

			seats = append(seats, models.Seat{
				Number:   models.SeatNum(number),
				Status:   models.SeatAvailable,
				Category: category,
				Row:      row,
				Side:     side,
				Berth:    berth,
				Slot:     slot,
			})
		}
	}
	return seats
}

// ApplyBookedSeats reconciles a generated seat map with the booked-seat
// set reported by the store. Seats in the set become booked; seats marked
// booked locally but absent from the set revert to available, which is how
// a cancellation frees a seat between refreshes. The merge is idempotent
// and safe to re-run on every poll.
func ApplyBookedSeats(seats []models.Seat, booked []models.SeatNumber) {
	bookedSet := make(map[models.SeatNumber]bool, len(booked))
	for _, n := range booked {
		bookedSet[n] = true
	}

	for i := range seats {
		if seats[i].Status == models.SeatDriver {
			continue
		}
		switch {
		case bookedSet[seats[i].Number]:
			seats[i].Status = models.SeatBooked
		case seats[i].Status == models.SeatBooked:
			seats[i].Status = models.SeatAvailable
		}
	}
}
