package domain

import "time"

// ReservationRecord is one booking event from the reservations snapshot.
// Pointer fields are dimensions the upstream export may leave empty.
type ReservationRecord struct {
	Organization string
	ReservedAt   time.Time
	RoomType     *string
	Channel      *string
	Package      *string
	Country      *string
	Agency       *string
	Segment      *string
	Status       *string
	Nights       int
	TotalFare    float64
	Completed    bool // false = cancellation
}

// ClientFeatureRecord is one customer's aggregated behavioral snapshot,
// one row per (organization, client, reservation date).
type ClientFeatureRecord struct {
	Organization         string
	ClientID             int64
	ReservedAt           time.Time
	TotalExpense         float64
	AvgDaysBetweenVisits float64
	StayDays             float64
	RoomsReserved        float64
}

// ChurnRecord is a ClientFeatureRecord with the recency metric and churn
// flag derived from a reference date and lookback window. Recomputed on
// every selection change, never persisted.
type ChurnRecord struct {
	ClientFeatureRecord
	DaysSinceLast int // may be negative for future-dated rows
	Churned       bool
}
