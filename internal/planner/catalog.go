package planner

import (
	"bus-booking/internal/models"
	"bus-booking/internal/seatmap"
)

// Cities is the fixed set of towns the planner offers as origins and
// destinations.
var Cities = []string{
	"Chennai", "Coimbatore", "Madurai", "Trichy", "Salem", "Tirunelveli",
	"Erode", "Vellore", "Thoothukudi", "Dindigul", "Thanjavur", "Karur",
	"Cuddalore", "Kanchipuram", "Tiruvannamalai", "Nagapattinam",
}

// Point is a boarding or dropping location on a route.
type Point struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Time string `json:"time"`
}

var BoardingPoints = []Point{
	{ID: "bp1", Name: "Central Bus Stand", Time: "15 mins before departure"},
	{ID: "bp2", Name: "Airport Bus Stop", Time: "20 mins before departure"},
	{ID: "bp3", Name: "Railway Station", Time: "10 mins before departure"},
	{ID: "bp4", Name: "City Center", Time: "25 mins before departure"},
}

var DroppingPoints = []Point{
	{ID: "dp1", Name: "Central Bus Stand", Time: "On arrival"},
	{ID: "dp2", Name: "Airport Bus Stop", Time: "5 mins after arrival"},
	{ID: "dp3", Name: "Railway Station", Time: "10 mins after arrival"},
	{ID: "dp4", Name: "City Center", Time: "15 mins after arrival"},
}

// IsCity reports whether name is in the served city list.
func IsCity(name string) bool {
	for _, c := range Cities {
		if c == name {
			return true
		}
	}
	return false
}

func ValidBoardingPoint(id string) bool {
	for _, p := range BoardingPoints {
		if p.ID == id {
			return true
		}
	}
	return false
}

func ValidDroppingPoint(id string) bool {
	for _, p := range DroppingPoints {
		if p.ID == id {
			return true
		}
	}
	return false
}

type tripSpec struct {
	id        int
	name      string
	class     models.TripClass
	price     float64
	rating    string
	departure string
	arrival   string
}

// The operator fleet is fixed; every search returns the same eight
// services with freshly generated seat maps.
var fleet = []tripSpec{
	{1, "KPN Travels AC Sleeper", models.ClassACSleeper, 950, "4.2", "6:00", "12:30"},
	{2, "SRS Travels Non-AC Sleeper", models.ClassNonACSleeper, 650, "4.0", "7:30", "14:00"},
	{3, "VRL Travels AC Seater", models.ClassACSeater, 750, "4.3", "8:00", "14:30"},
	{4, "Orange Tours Non-AC Seater", models.ClassNonACSeater, 450, "3.8", "9:15", "15:45"},
	{5, "KPN Travels Non-AC Seater", models.ClassNonACSeater, 500, "4.1", "10:00", "16:30"},
	{6, "SRS Travels AC Sleeper", models.ClassACSleeper, 1050, "4.4", "11:30", "18:00"},
	{7, "VRL Travels Non-AC Sleeper", models.ClassNonACSleeper, 700, "4.0", "13:00", "19:30"},
	{8, "Orange Tours AC Seater", models.ClassACSeater, 800, "3.9", "14:45", "21:15"},
}

// GenerateTrips builds the catalog for one search, every seat map fresh
// and fully available.
func GenerateTrips() []models.Trip {
	trips := make([]models.Trip, 0, len(fleet))
	for _, spec := range fleet {
		trips = append(trips, models.Trip{
			ID:            spec.id,
			Name:          spec.name,
			Class:         spec.class,
			Price:         spec.price,
			Rating:        spec.rating,
			DepartureTime: spec.departure,
			ArrivalTime:   spec.arrival,
			TravelHours:   "6h 30m",
			Seats:         seatmap.Generate(spec.class),
		})
	}
	return trips
}
