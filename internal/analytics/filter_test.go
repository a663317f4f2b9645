package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tca_dashboard/internal/analytics"
	"tca_dashboard/internal/domain"
)

func res(org string, y int, m time.Month, d int, fare float64, completed bool) domain.ReservationRecord {
	return domain.ReservationRecord{
		Organization: org,
		ReservedAt:   time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		TotalFare:    fare,
		Completed:    completed,
	}
}

func TestFilterReservations_ByOrgYearMonth(t *testing.T) {
	recs := []domain.ReservationRecord{
		res("H1", 2019, time.May, 2, 100, true),
		res("H1", 2020, time.May, 3, 200, true),
		res("H1", 2020, time.June, 4, 300, false),
		res("H2", 2020, time.May, 5, 400, true),
	}

	assert.Len(t, analytics.FilterReservations(recs, "H1", domain.YearAll, domain.MonthAll), 3)
	assert.Len(t, analytics.FilterReservations(recs, "H1", 2020, domain.MonthAll), 2)

	got := analytics.FilterReservations(recs, "H1", 2020, time.May)
	require.Len(t, got, 1)
	assert.Equal(t, 200.0, got[0].TotalFare)

	assert.Empty(t, analytics.FilterReservations(recs, "NOPE", domain.YearAll, domain.MonthAll))
}

func TestFilterReservations_Idempotent(t *testing.T) {
	recs := []domain.ReservationRecord{
		res("H1", 2020, time.May, 1, 10, true),
		res("H1", 2020, time.June, 1, 20, true),
		res("H2", 2020, time.May, 1, 30, true),
	}
	once := analytics.FilterReservations(recs, "H1", 2020, time.May)
	twice := analytics.FilterReservations(once, "H1", 2020, time.May)
	assert.Equal(t, once, twice)
}

func TestMonthChoices_CalendarOrder(t *testing.T) {
	// insertion order March, January, February must not leak through
	recs := []domain.ReservationRecord{
		res("H1", 2020, time.March, 1, 0, true),
		res("H1", 2020, time.January, 1, 0, true),
		res("H1", 2020, time.February, 1, 0, true),
		res("H1", 2019, time.December, 1, 0, true),
	}
	assert.Equal(t, []string{"January", "February", "March"}, analytics.MonthChoices(recs, "H1", 2020))
	assert.Equal(t, []string{"January", "February", "March", "December"}, analytics.MonthChoices(recs, "H1", domain.YearAll))
}

func TestYears(t *testing.T) {
	recs := []domain.ReservationRecord{
		res("H1", 2020, time.March, 1, 0, true),
		res("H1", 2019, time.March, 1, 0, true),
		res("H1", 2020, time.July, 1, 0, true),
		res("H2", 2018, time.March, 1, 0, true),
	}
	assert.Equal(t, []int{2019, 2020}, analytics.Years(recs, "H1"))
}

func TestParseMonth(t *testing.T) {
	m, ok := analytics.ParseMonth("September")
	require.True(t, ok)
	assert.Equal(t, time.September, m)

	_, ok = analytics.ParseMonth("Septiembre")
	assert.False(t, ok)
}
