package analytics

import (
	"sort"

	"tca_dashboard/internal/domain"
)

// UnknownBucket collects rows whose grouping dimension is absent.
// Dropping them would silently understate totals.
const UnknownBucket = "Unknown"

// AggregateRow is one grouping key with its summed measure.
type AggregateRow struct {
	Key   string
	Value float64
}

// Dimension selects one categorical grouping column of a reservation.
type Dimension func(domain.ReservationRecord) *string

var (
	ByRoomType Dimension = func(r domain.ReservationRecord) *string { return r.RoomType }
	ByChannel  Dimension = func(r domain.ReservationRecord) *string { return r.Channel }
	ByPackage  Dimension = func(r domain.ReservationRecord) *string { return r.Package }
	ByCountry  Dimension = func(r domain.ReservationRecord) *string { return r.Country }
	ByAgency   Dimension = func(r domain.ReservationRecord) *string { return r.Agency }
	BySegment  Dimension = func(r domain.ReservationRecord) *string { return r.Segment }
)

// CountCancellations counts records with the completion flag unset.
func CountCancellations(recs []domain.ReservationRecord) int {
	n := 0
	for _, r := range recs {
		if !r.Completed {
			n++
		}
	}
	return n
}

// CountSuccessful counts records with the completion flag set.
func CountSuccessful(recs []domain.ReservationRecord) int {
	n := 0
	for _, r := range recs {
		if r.Completed {
			n++
		}
	}
	return n
}

// SumTotalFare sums the fare over ALL filtered records, cancellations
// included. The grouped roll-ups below exclude cancellations; this
// asymmetry mirrors the reference dashboard and is kept on purpose.
func SumTotalFare(recs []domain.ReservationRecord) float64 {
	total := 0.0
	for _, r := range recs {
		total += r.TotalFare
	}
	return total
}

// RevenueBy sums fares of successful reservations per dimension value,
// in first-seen order. Missing values land in the UnknownBucket group.
func RevenueBy(recs []domain.ReservationRecord, dim Dimension) []AggregateRow {
	idx := map[string]int{}
	var rows []AggregateRow
	for _, r := range recs {
		if !r.Completed {
			continue
		}
		key := UnknownBucket
		if v := dim(r); v != nil {
			key = *v
		}
		i, ok := idx[key]
		if !ok {
			i = len(rows)
			idx[key] = i
			rows = append(rows, AggregateRow{Key: key})
		}
		rows[i].Value += r.TotalFare
	}
	return rows
}

// MonthlyRevenue sums successful-reservation fares per calendar month,
// keyed "YYYY-MM", ascending. Lexicographic order on the key is
// chronological order by construction.
func MonthlyRevenue(recs []domain.ReservationRecord) []domain.SeriesPoint {
	sums := map[string]float64{}
	for _, r := range recs {
		if !r.Completed {
			continue
		}
		sums[r.ReservedAt.Format("2006-01")] += r.TotalFare
	}
	out := make([]domain.SeriesPoint, 0, len(sums))
	for k, v := range sums {
		out = append(out, domain.SeriesPoint{Month: k, Revenue: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// StatusCounts tallies successful reservations per status value,
// descending by count (ties by first occurrence).
func StatusCounts(recs []domain.ReservationRecord) []domain.StatusRow {
	idx := map[string]int{}
	var rows []domain.StatusRow
	for _, r := range recs {
		if !r.Completed {
			continue
		}
		key := UnknownBucket
		if r.Status != nil {
			key = *r.Status
		}
		i, ok := idx[key]
		if !ok {
			i = len(rows)
			idx[key] = i
			rows = append(rows, domain.StatusRow{Status: key})
		}
		rows[i].Count++
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows
}

// StayRows extracts (nights, fare) pairs of successful reservations with
// fewer than maxNights nights, for the scatter and histogram views.
func StayRows(recs []domain.ReservationRecord, maxNights int) []domain.StayRow {
	var out []domain.StayRow
	for _, r := range recs {
		if !r.Completed || r.Nights >= maxNights {
			continue
		}
		out = append(out, domain.StayRow{Nights: r.Nights, TotalFare: r.TotalFare})
	}
	return out
}
