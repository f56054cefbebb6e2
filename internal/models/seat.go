package models

import (
	"encoding/json"
	"sort"
	"strconv"
)

// SeatNumber identifies one seat in a trip layout or in a booking's seat
// list. It is either a numeric seat/berth number or a textual marker (the
// driver seat, or whatever free-text label a client sends). The wire format
// is a plain JSON number for numeric seats and a JSON string otherwise;
// numeric-looking strings are normalized to numeric on decode.
type SeatNumber struct {
	num     int
	label   string
	numeric bool
}

// SeatNum returns a numeric seat number.
func SeatNum(n int) SeatNumber {
	return SeatNumber{num: n, numeric: true}
}

// SeatMarker returns a textual seat marker.
func SeatMarker(label string) SeatNumber {
	return SeatNumber{label: label}
}

// DriverSeat is the marker used for the single driver seat of every trip.
func DriverSeat() SeatNumber {
	return SeatMarker("D1")
}

func (s SeatNumber) IsNumeric() bool {
	return s.numeric
}

// Int returns the numeric value; ok is false for textual markers.
func (s SeatNumber) Int() (int, bool) {
	return s.num, s.numeric
}

func (s SeatNumber) String() string {
	if s.numeric {
		return strconv.Itoa(s.num)
	}
	return s.label
}

// Less is a total order over seat numbers: numeric entries sort first,
// by value, then textual markers, lexicographically.
func (s SeatNumber) Less(other SeatNumber) bool {
	switch {
	case s.numeric && other.numeric:
		return s.num < other.num
	case s.numeric != other.numeric:
		return s.numeric
	default:
		return s.label < other.label
	}
}

func (s SeatNumber) MarshalJSON() ([]byte, error) {
	if s.numeric {
		return []byte(strconv.Itoa(s.num)), nil
	}
	return json.Marshal(s.label)
}

func (s *SeatNumber) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return err
		}
		if n, err := strconv.Atoi(label); err == nil {
			*s = SeatNum(n)
		} else {
			*s = SeatMarker(label)
		}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = SeatNum(n)
	return nil
}

// SortSeatNumbers sorts in place using the total order of Less.
func SortSeatNumbers(seats []SeatNumber) {
	sort.Slice(seats, func(i, j int) bool {
		return seats[i].Less(seats[j])
	})
}

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatBooked    SeatStatus = "booked"
	SeatDriver    SeatStatus = "driver"
)

type SeatCategory string

const (
	CategoryRegular SeatCategory = "regular"
	CategoryLadies  SeatCategory = "ladies"
)

type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

type BerthTier string

const (
	BerthUpper BerthTier = "upper"
	BerthLower BerthTier = "lower"
)

// BerthSlot distinguishes the berth columns of a sleeper row: the single
// left berth, and the first and second berths on the right side.
type BerthSlot string

const (
	SlotSingle BerthSlot = "single"
	SlotFirst  BerthSlot = "first"
	SlotSecond BerthSlot = "second"
)

// Seat is one addressable unit of a trip layout. Berth and Slot are only
// set for sleeper trips.
type Seat struct {
	Number   SeatNumber   `json:"number"`
	Status   SeatStatus   `json:"status"`
	Category SeatCategory `json:"category"`
	Row      int          `json:"row"`
	Side     Side         `json:"side,omitempty"`
	Berth    BerthTier    `json:"berth,omitempty"`
	Slot     BerthSlot    `json:"berthPosition,omitempty"`
}
