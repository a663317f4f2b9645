// Package analytics is the filter-and-aggregate pipeline behind the
// dashboard: pure functions from record snapshots to derived views.
// Nothing here does I/O or mutates its input.
package analytics

import (
	"sort"
	"time"

	"tca_dashboard/internal/domain"
)

// FilterReservations narrows recs to one organization and, optionally,
// one year or one (year, month) pair. Year = domain.YearAll bypasses the
// date filter entirely; an unknown organization yields an empty slice.
func FilterReservations(recs []domain.ReservationRecord, org string, year int, month time.Month) []domain.ReservationRecord {
	out := make([]domain.ReservationRecord, 0, len(recs))
	for _, r := range recs {
		if r.Organization != org {
			continue
		}
		if !dateMatches(r.ReservedAt, year, month) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterFeatures is FilterReservations for the churn-feature snapshot.
func FilterFeatures(feats []domain.ClientFeatureRecord, org string, year int, month time.Month) []domain.ClientFeatureRecord {
	out := make([]domain.ClientFeatureRecord, 0, len(feats))
	for _, f := range feats {
		if f.Organization != org {
			continue
		}
		if !dateMatches(f.ReservedAt, year, month) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func dateMatches(d time.Time, year int, month time.Month) bool {
	if year == domain.YearAll {
		return true
	}
	if d.Year() != year {
		return false
	}
	return month == domain.MonthAll || d.Month() == month
}

// Years lists the calendar years present for org, ascending.
func Years(recs []domain.ReservationRecord, org string) []int {
	seen := map[int]bool{}
	for _, r := range recs {
		if r.Organization == org {
			seen[r.ReservedAt.Year()] = true
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// MonthChoices lists the English month names present in the selected
// year's data for org (all years when year = YearAll), in calendar order
// regardless of input order.
func MonthChoices(recs []domain.ReservationRecord, org string, year int) []string {
	var seen [13]bool
	for _, r := range recs {
		if r.Organization != org {
			continue
		}
		if year != domain.YearAll && r.ReservedAt.Year() != year {
			continue
		}
		seen[int(r.ReservedAt.Month())] = true
	}
	months := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		if seen[int(m)] {
			months = append(months, m.String())
		}
	}
	return months
}

// ParseMonth maps an English month name back to its calendar month.
func ParseMonth(name string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return 0, false
}
