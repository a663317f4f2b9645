package app_test

import (
	"context"
	"testing"
	"time"

	"tca_dashboard/internal/app"
	"tca_dashboard/internal/domain"
)

// ---- fakes ----

type fakeLoader struct {
	recs   []domain.ReservationRecord
	feats  []domain.ClientFeatureRecord
	mfeats []domain.ModelFeatureRecord
	bundle domain.ModelBundle

	reservationCalls int
}

func (f *fakeLoader) Reservations(ctx context.Context) ([]domain.ReservationRecord, error) {
	f.reservationCalls++
	return f.recs, nil
}
func (f *fakeLoader) ClientFeatures(ctx context.Context) ([]domain.ClientFeatureRecord, error) {
	return f.feats, nil
}
func (f *fakeLoader) ModelFeatures(ctx context.Context) ([]domain.ModelFeatureRecord, error) {
	return f.mfeats, nil
}
func (f *fakeLoader) ModelBundle(ctx context.Context) (domain.ModelBundle, error) {
	return f.bundle, nil
}

type fakeCache struct {
	store map[string]any
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.DashboardView:
		*d = v.(domain.DashboardView)
	case *domain.SelectorsView:
		*d = v.(domain.SelectorsView)
	case *domain.ModelReportView:
		*d = v.(domain.ModelReportView)
	}
	return true, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error { return nil }

// ---- helpers ----

func utc(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strp(s string) *string { return &s }

func baseSelection() domain.Selection {
	return domain.Selection{
		Organization: "H1",
		Year:         domain.YearAll,
		Month:        domain.MonthAll,
		ChurnDate:    utc(2020, 4, 30),
		Window:       domain.WindowOneMonth,
	}
}

// ---- tests ----

func TestDashboard_EndToEnd(t *testing.T) {
	loader := &fakeLoader{
		recs: []domain.ReservationRecord{
			{Organization: "H1", ReservedAt: utc(2024, 1, 5), Agency: strp("A"), TotalFare: 100, Nights: 2, Completed: true},
			{Organization: "H1", ReservedAt: utc(2024, 2, 5), Agency: strp("B"), TotalFare: 200, Nights: 3, Completed: true},
			{Organization: "H1", ReservedAt: utc(2024, 1, 9), Agency: strp("A"), TotalFare: 50, Nights: 1, Completed: false},
		},
		feats: []domain.ClientFeatureRecord{
			{Organization: "H1", ClientID: 7, ReservedAt: utc(2020, 3, 1), TotalExpense: 1500},
			{Organization: "H1", ClientID: 8, ReservedAt: utc(2020, 4, 15), TotalExpense: 900},
		},
	}
	q := app.NewDashboardService(loader, &fakeCache{}, 10*time.Minute)

	v, err := q.Dashboard(context.Background(), baseSelection())
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if v.Cards.Successful != 2 || v.Cards.Cancellations != 1 {
		t.Fatalf("unexpected counts: %+v", v.Cards)
	}
	if v.Cards.TotalFare != 350 {
		t.Fatalf("total fare includes cancellations: got %v want 350", v.Cards.TotalFare)
	}
	if v.Cards.TotalFareText != "$350" {
		t.Fatalf("total fare text: %q", v.Cards.TotalFareText)
	}
	if !v.Cards.ChurnRate.Valid || v.Cards.ChurnRate.Value != 50 {
		t.Fatalf("churn rate: %+v", v.Cards.ChurnRate)
	}

	if len(v.MonthlyRevenue) != 2 ||
		v.MonthlyRevenue[0] != (domain.SeriesPoint{Month: "2024-01", Revenue: 100}) ||
		v.MonthlyRevenue[1] != (domain.SeriesPoint{Month: "2024-02", Revenue: 200}) {
		t.Fatalf("monthly series: %+v", v.MonthlyRevenue)
	}

	// cancelled fare excluded from the agency roll-up
	if len(v.TopAgencies) != 2 || v.TopAgencies[0].Revenue != 100 || v.TopAgencies[1].Revenue != 200 {
		t.Fatalf("agencies: %+v", v.TopAgencies)
	}

	if len(v.TopClients) != 2 || v.TopClients[0].ClientID != "7" {
		t.Fatalf("top clients: %+v", v.TopClients)
	}
	if !v.TopClients[0].Churned || v.TopClients[1].Churned {
		t.Fatalf("churn flags: %+v", v.TopClients)
	}

	if len(v.ScatterRows) != 2 || len(v.NightsHistogram) != 2 {
		t.Fatalf("stay rows: %d scatter, %d histogram", len(v.ScatterRows), len(v.NightsHistogram))
	}
}

func TestDashboard_EmptySelection(t *testing.T) {
	loader := &fakeLoader{
		recs: []domain.ReservationRecord{
			{Organization: "H1", ReservedAt: utc(2024, 1, 5), TotalFare: 100, Completed: true},
		},
	}
	q := app.NewDashboardService(loader, &fakeCache{}, 10*time.Minute)

	sel := baseSelection()
	sel.Organization = "UNKNOWN"
	v, err := q.Dashboard(context.Background(), sel)
	if err != nil {
		t.Fatalf("empty selection must not error: %v", err)
	}
	if v.Cards.Successful != 0 || v.Cards.TotalFare != 0 {
		t.Fatalf("expected zero KPIs: %+v", v.Cards)
	}
	if v.Cards.ChurnRate.Valid {
		t.Fatalf("churn rate over empty set must be undefined")
	}
}

func TestDashboard_CacheMissThenHit(t *testing.T) {
	loader := &fakeLoader{
		recs: []domain.ReservationRecord{
			{Organization: "H1", ReservedAt: utc(2024, 1, 5), TotalFare: 100, Completed: true},
		},
	}
	cache := &fakeCache{}
	q := app.NewDashboardService(loader, cache, 10*time.Minute)

	sel := baseSelection()
	v1, err := q.Dashboard(context.Background(), sel)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	// mutate the loader; the second render must come from cache
	loader.recs[0].TotalFare = 999999
	v2, err := q.Dashboard(context.Background(), sel)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if v2.Cards.TotalFare != v1.Cards.TotalFare {
		t.Fatalf("expected cached view, got %v", v2.Cards.TotalFare)
	}

	// a different selection is a different key
	sel.Window = domain.WindowOneYear
	v3, err := q.Dashboard(context.Background(), sel)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if v3.Cards.TotalFare != 999999 {
		t.Fatalf("expected fresh render for new selection, got %v", v3.Cards.TotalFare)
	}
}

func TestSelectors(t *testing.T) {
	loader := &fakeLoader{
		recs: []domain.ReservationRecord{
			{Organization: "H1", ReservedAt: utc(2020, 3, 1), Completed: true},
			{Organization: "H1", ReservedAt: utc(2020, 1, 1), Completed: true},
			{Organization: "H1", ReservedAt: utc(2019, 7, 1), Completed: true},
		},
	}
	q := app.NewDashboardService(loader, &fakeCache{}, 10*time.Minute)

	v, err := q.Selectors(context.Background(), "H1", 2020)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(v.Years) != 2 || v.Years[0] != 2019 || v.Years[1] != 2020 {
		t.Fatalf("years: %+v", v.Years)
	}
	if len(v.Months) != 2 || v.Months[0] != "January" || v.Months[1] != "March" {
		t.Fatalf("months: %+v", v.Months)
	}
	if len(v.ChurnWindows) != 4 || v.ChurnWindows[0] != "1 year" {
		t.Fatalf("windows: %+v", v.ChurnWindows)
	}
}

func TestModelReport(t *testing.T) {
	loader := &fakeLoader{
		bundle: domain.ModelBundle{
			ModelName:    "GradientBoostingClassifier",
			FeatureNames: []string{"total_expense", "stay_days"},
			Importances:  []float64{0.3, 0.7},
			TestLabels:   []int{0, 0, 1, 1},
			Predicted:    []int{0, 0, 1, 1},
			Scores:       []float64{0.1, 0.2, 0.8, 0.9},
		},
		mfeats: []domain.ModelFeatureRecord{
			{Churned: true, AvgDaysBetweenVisits: 40},
			{Churned: false, AvgDaysBetweenVisits: 10},
		},
	}
	s := app.NewModelReportService(loader, &fakeCache{}, 10*time.Minute)

	v, err := s.Report(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if v.Accuracy != 100 || v.AccuracyText != "100.00%" {
		t.Fatalf("accuracy: %v %q", v.Accuracy, v.AccuracyText)
	}
	if v.AUC != 1 {
		t.Fatalf("auc: %v", v.AUC)
	}
	if len(v.Features) != 2 || v.Features[0].Name != "stay_days" {
		t.Fatalf("features: %+v", v.Features)
	}
	if len(v.Distributions) != 3 {
		t.Fatalf("distributions: %+v", v.Distributions)
	}
}
