package app

import (
	"context"
	"fmt"
	"time"

	"tca_dashboard/internal/analytics"
	"tca_dashboard/internal/domain"
)

// DashboardService runs the full render pipeline for one selection:
// filter, churn labeling, aggregation, ranking. Rendered views are
// cached per selection so repeat renders skip the pipeline entirely.
type DashboardService struct {
	loader   domain.DatasetLoader
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewDashboardService(l domain.DatasetLoader, c domain.Cache, ttl time.Duration) *DashboardService {
	return &DashboardService{loader: l, cache: c, cacheTTL: ttl}
}

func dashKey(sel domain.Selection) string {
	return fmt.Sprintf("dash:%s:%d:%d:%s:%d",
		sel.Organization, sel.Year, int(sel.Month),
		sel.ChurnDate.Format("2006-01-02"), int(sel.Window))
}

func (s *DashboardService) Dashboard(ctx context.Context, sel domain.Selection) (domain.DashboardView, error) {
	key := dashKey(sel)
	var v domain.DashboardView
	if ok, _ := s.cache.Get(ctx, key, &v); ok {
		return v, nil
	}

	recs, err := s.loader.Reservations(ctx)
	if err != nil {
		return domain.DashboardView{}, fmt.Errorf("load reservations: %w", err)
	}
	feats, err := s.loader.ClientFeatures(ctx)
	if err != nil {
		return domain.DashboardView{}, fmt.Errorf("load client features: %w", err)
	}

	filtered := analytics.FilterReservations(recs, sel.Organization, sel.Year, sel.Month)
	features := analytics.FilterFeatures(feats, sel.Organization, sel.Year, sel.Month)
	labeled := analytics.LabelChurn(features, sel.ChurnDate, sel.Window)

	totalFare := analytics.SumTotalFare(filtered)
	cards := domain.KPICards{
		Cancellations:     analytics.CountCancellations(filtered),
		Successful:        analytics.CountSuccessful(filtered),
		TotalFare:         totalFare,
		TotalFareText:     "$" + analytics.Compact(totalFare),
		ChurnRate:         analytics.ChurnRate(labeled),
	}
	cards.CancellationsText = analytics.Compact(float64(cards.Cancellations))
	cards.SuccessfulText = analytics.Compact(float64(cards.Successful))

	v = domain.DashboardView{
		Organization:      sel.Organization,
		Cards:             cards,
		MonthlyRevenue:    analytics.MonthlyRevenue(filtered),
		RevenueByRoomType: revenueRows(analytics.RevenueBy(filtered, analytics.ByRoomType), ""),
		RevenueByChannel:  revenueRows(analytics.RevenueBy(filtered, analytics.ByChannel), ""),
		RevenueBySegment:  revenueRows(analytics.RevenueBy(filtered, analytics.BySegment), ""),
		TopPackages: revenueRows(
			analytics.Head(analytics.SortByValueDesc(analytics.RevenueBy(filtered, analytics.ByPackage)), 5), ""),
		TopCountries: revenueRows(
			analytics.Head(analytics.SortByValueDesc(analytics.RevenueBy(filtered, analytics.ByCountry)), 5), "$"),
		TopAgencies:     revenueRows(analytics.TopAgencies(analytics.RevenueBy(filtered, analytics.ByAgency), 10), ""),
		StatusBreakdown: analytics.StatusCounts(filtered),
		TopClients:      clientRows(analytics.TopClients(labeled, 10)),
		ScatterRows:     analytics.StayRows(filtered, 100),
		NightsHistogram: analytics.StayRows(filtered, 20),
	}

	_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
	return v, nil
}

// Selectors reports which years and months actually carry data for the
// organization, so the UI never offers an empty month.
func (s *DashboardService) Selectors(ctx context.Context, org string, year int) (domain.SelectorsView, error) {
	key := fmt.Sprintf("selectors:%s:%d", org, year)
	var v domain.SelectorsView
	if ok, _ := s.cache.Get(ctx, key, &v); ok {
		return v, nil
	}

	recs, err := s.loader.Reservations(ctx)
	if err != nil {
		return domain.SelectorsView{}, fmt.Errorf("load reservations: %w", err)
	}
	windows := domain.ChurnWindows()
	labels := make([]string, len(windows))
	for i, w := range windows {
		labels[i] = w.Label()
	}
	v = domain.SelectorsView{
		Years:            analytics.Years(recs, org),
		Months:           analytics.MonthChoices(recs, org, year),
		ChurnWindows:     labels,
		DefaultChurnDate: "2020-04-30",
	}
	_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
	return v, nil
}

func revenueRows(rows []analytics.AggregateRow, prefix string) []domain.RevenueRow {
	out := make([]domain.RevenueRow, len(rows))
	for i, r := range rows {
		out[i] = domain.RevenueRow{
			Key:     r.Key,
			Revenue: r.Value,
			Display: prefix + analytics.Compact(r.Value),
		}
	}
	return out
}

func clientRows(clients []domain.ChurnRecord) []domain.ClientRow {
	out := make([]domain.ClientRow, len(clients))
	for i, c := range clients {
		out[i] = domain.ClientRow{
			ClientID:             fmt.Sprintf("%d", c.ClientID),
			LastReservation:      c.ReservedAt.Format("2006-01-02"),
			TotalExpense:         c.TotalExpense,
			TotalExpenseText:     analytics.Compact(c.TotalExpense),
			AvgDaysBetweenVisits: c.AvgDaysBetweenVisits,
			StayDays:             c.StayDays,
			RoomsReserved:        c.RoomsReserved,
			DaysSinceLast:        c.DaysSinceLast,
			Churned:              c.Churned,
		}
	}
	return out
}
