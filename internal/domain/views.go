package domain

import "time"

// Sentinels for the year/month selectors ("Todos" in the UI).
const (
	YearAll  = 0
	MonthAll = time.Month(0)
)

// Selection is one set of dashboard filter inputs.
type Selection struct {
	Organization string
	Year         int        // YearAll bypasses year/month filtering
	Month        time.Month // MonthAll filters by year only
	ChurnDate    time.Time
	Window       ChurnWindow
}

// KPICards are the four scalar cards at the top of the dashboard.
// Text fields carry the compact-formatted rendering.
type KPICards struct {
	Cancellations     int     `json:"cancellations"`
	Successful        int     `json:"successful"`
	TotalFare         float64 `json:"total_fare"`
	CancellationsText string  `json:"cancellations_text"`
	SuccessfulText    string  `json:"successful_text"`
	TotalFareText     string  `json:"total_fare_text"`
	ChurnRate         Rate    `json:"churn_rate"` // null when the churn set is empty
}

// SeriesPoint is one month of the revenue time series, keyed "YYYY-MM".
type SeriesPoint struct {
	Month   string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// RevenueRow is one bucket of a grouped revenue roll-up.
type RevenueRow struct {
	Key     string  `json:"key"`
	Revenue float64 `json:"revenue"`
	Display string  `json:"display"`
}

// StatusRow is one slice of the reservation-status donut.
type StatusRow struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// ClientRow is one row of the top-clients table.
type ClientRow struct {
	ClientID             string  `json:"client_id"`
	LastReservation      string  `json:"last_reservation"`
	TotalExpense         float64 `json:"total_expense"`
	TotalExpenseText     string  `json:"total_expense_text"`
	AvgDaysBetweenVisits float64 `json:"avg_days_between_visits"`
	StayDays             float64 `json:"stay_days"`
	RoomsReserved        float64 `json:"rooms_reserved"`
	DaysSinceLast        int     `json:"days_since_last_reservation"`
	Churned              bool    `json:"churned"`
}

// StayRow is one successful reservation for the nights-vs-fare views.
type StayRow struct {
	Nights    int     `json:"nights"`
	TotalFare float64 `json:"total_fare"`
}

// DashboardView is everything one dashboard render needs.
type DashboardView struct {
	Organization      string        `json:"organization"`
	Cards             KPICards      `json:"cards"`
	MonthlyRevenue    []SeriesPoint `json:"monthly_revenue"`
	RevenueByRoomType []RevenueRow  `json:"revenue_by_room_type"`
	RevenueByChannel  []RevenueRow  `json:"revenue_by_channel"`
	RevenueBySegment  []RevenueRow  `json:"revenue_by_segment"`
	TopPackages       []RevenueRow  `json:"top_packages"`       // first 5, descending
	TopCountries      []RevenueRow  `json:"top_countries"`      // first 5, descending
	TopAgencies       []RevenueRow  `json:"top_agencies"`       // top 10, ascending for display
	StatusBreakdown   []StatusRow   `json:"status_breakdown"`
	TopClients        []ClientRow   `json:"top_clients"`
	ScatterRows       []StayRow     `json:"scatter_rows"`       // nights < 100
	NightsHistogram   []StayRow     `json:"nights_histogram"`   // nights < 20
}

// SelectorsView drives the sidebar widgets: which years/months actually
// have data, plus the fixed churn-window choices.
type SelectorsView struct {
	Years            []int    `json:"years"`
	Months           []string `json:"months"`
	ChurnWindows     []string `json:"churn_windows"`
	DefaultChurnDate string   `json:"default_churn_date"`
}

// DistributionPair is one churned-vs-retained covariate comparison.
type DistributionPair struct {
	Covariate string    `json:"covariate"`
	Churned   []float64 `json:"churned"`
	Retained  []float64 `json:"retained"`
}

// ModelReportView is the classifier report page.
type ModelReportView struct {
	ModelName       string             `json:"model_name"`
	Accuracy        float64            `json:"accuracy"`
	F1              float64            `json:"f1"`
	Recall          float64            `json:"recall"`
	AccuracyText    string             `json:"accuracy_text"`
	F1Text          string             `json:"f1_text"`
	RecallText      string             `json:"recall_text"`
	ROC             []CurvePoint       `json:"roc"`
	AUC             float64            `json:"auc"`
	PrecisionRecall []CurvePoint       `json:"precision_recall"`
	Features        []FeatureWeight    `json:"features"`
	Distributions   []DistributionPair `json:"distributions"`
}
