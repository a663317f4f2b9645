package analytics

import (
	"sort"

	"tca_dashboard/internal/domain"
)

// TopClients returns the n highest-spending labeled clients, descending
// by total historical expense. The sort is stable so ties keep their
// original relative order.
func TopClients(labeled []domain.ChurnRecord, n int) []domain.ChurnRecord {
	ranked := make([]domain.ChurnRecord, len(labeled))
	copy(ranked, labeled)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalExpense > ranked[j].TotalExpense
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TopAgencies takes the n largest revenue groups, then re-sorts that
// subset ascending so a horizontal bar chart renders largest-at-top.
func TopAgencies(rows []AggregateRow, n int) []AggregateRow {
	top := SortByValueDesc(rows)
	if len(top) > n {
		top = top[:n]
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Value < top[j].Value })
	return top
}

// SortByValueDesc returns a copy of rows sorted descending by measure,
// stable on ties.
func SortByValueDesc(rows []AggregateRow) []AggregateRow {
	out := make([]AggregateRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// Head returns at most the first n rows.
func Head(rows []AggregateRow, n int) []AggregateRow {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
