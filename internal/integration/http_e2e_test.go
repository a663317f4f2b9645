//go:build integration || !unit

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"golang.org/x/crypto/bcrypt"

	httpserver "tca_dashboard/internal/adapters/http_server"
	redisad "tca_dashboard/internal/adapters/redis"
	"tca_dashboard/internal/adapters/snapshot"
	"tca_dashboard/internal/app"
	"tca_dashboard/internal/domain"
)

// ---- fixture loader ----

type fixtureLoader struct{}

func strp(s string) *string { return &s }

func utc(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func (fixtureLoader) Reservations(ctx context.Context) ([]domain.ReservationRecord, error) {
	return []domain.ReservationRecord{
		{Organization: "HOTEL 1", ReservedAt: utc(2024, 1, 5), Agency: strp("Viajes Sol"),
			Status: strp("Checked out"), Nights: 2, TotalFare: 100, Completed: true},
		{Organization: "HOTEL 1", ReservedAt: utc(2024, 2, 5), Agency: strp("Andes Tours"),
			Status: strp("Checked out"), Nights: 3, TotalFare: 200, Completed: true},
		{Organization: "HOTEL 1", ReservedAt: utc(2024, 1, 9), Agency: strp("Viajes Sol"),
			Status: strp("Cancelled"), Nights: 1, TotalFare: 50, Completed: false},
	}, nil
}

func (fixtureLoader) ClientFeatures(ctx context.Context) ([]domain.ClientFeatureRecord, error) {
	return []domain.ClientFeatureRecord{
		{Organization: "HOTEL 1", ClientID: 7, ReservedAt: utc(2024, 1, 5), TotalExpense: 1500},
		{Organization: "HOTEL 1", ClientID: 8, ReservedAt: utc(2024, 2, 5), TotalExpense: 900},
	}, nil
}

func (fixtureLoader) ModelFeatures(ctx context.Context) ([]domain.ModelFeatureRecord, error) {
	return []domain.ModelFeatureRecord{
		{Churned: true, AvgDaysBetweenVisits: 40, StayDays: 2, RoomsReserved: 1},
		{Churned: false, AvgDaysBetweenVisits: 10, StayDays: 4, RoomsReserved: 2},
	}, nil
}

func (fixtureLoader) ModelBundle(ctx context.Context) (domain.ModelBundle, error) {
	return domain.ModelBundle{
		ModelName:    "GradientBoostingClassifier",
		FeatureNames: []string{"total_expense", "dias_estancia"},
		Importances:  []float64{0.6, 0.4},
		TestLabels:   []int{0, 0, 1, 1},
		Predicted:    []int{0, 0, 1, 1},
		Scores:       []float64{0.1, 0.2, 0.8, 0.9},
	}, nil
}

// ---- wiring ----

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)

	cached := app.NewCachedLoader(fixtureLoader{}, snapshot.New(24*time.Hour, nil))
	dash := app.NewDashboardService(cached, cache, 10*time.Minute)
	report := app.NewModelReportService(cached, cache, 10*time.Minute)

	hash, err := bcrypt.GenerateFromPassword([]byte("secreto"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	auth := app.NewAuthService(domain.AuthConfig{
		JWTSecret:       "e2e-signing-key",
		TokenTTLMinutes: 5,
		Users:           []domain.UserCredential{{Username: "ana", Name: "Ana", PasswordHash: string(hash)}},
	})

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Dash: dash, Report: report, Auth: auth})

	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func login(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	body := bytes.NewBufferString(`{"username":"ana","password":"secreto"}`)
	resp, err := http.Post(ts.URL+"/v1/login", "application/json", body)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return out.Token
}

func get(t *testing.T, ts *httptest.Server, token, path string, extra http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	return resp
}

// ---- tests ----

func TestE2E_AuthRequired(t *testing.T) {
	ts := newTestServer(t)

	resp := get(t, ts, "", "/v1/hotels/HOTEL%201/dashboard", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status without token: %d", resp.StatusCode)
	}

	resp = get(t, ts, "garbage", "/v1/hotels/HOTEL%201/dashboard", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status with bad token: %d", resp.StatusCode)
	}
}

func TestE2E_Dashboard(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts)

	resp := get(t, ts, token,
		"/v1/hotels/HOTEL%201/dashboard?year=ALL&churn_date=2024-02-20&churn_window=1+month", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}

	var v domain.DashboardView
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if v.Cards.Successful != 2 || v.Cards.Cancellations != 1 {
		t.Fatalf("counts: %+v", v.Cards)
	}
	if v.Cards.TotalFare != 350 {
		t.Fatalf("fare: %v", v.Cards.TotalFare)
	}
	if len(v.MonthlyRevenue) != 2 || v.MonthlyRevenue[0].Month != "2024-01" || v.MonthlyRevenue[0].Revenue != 100 {
		t.Fatalf("series: %+v", v.MonthlyRevenue)
	}
	// client 7 (2024-01-05) is 46 days before the reference date: churned
	if !v.Cards.ChurnRate.Valid || v.Cards.ChurnRate.Value != 50 {
		t.Fatalf("churn rate: %+v", v.Cards.ChurnRate)
	}
	if len(v.TopClients) != 2 || v.TopClients[0].ClientID != "7" {
		t.Fatalf("clients: %+v", v.TopClients)
	}

	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	resp2 := get(t, ts, token,
		"/v1/hotels/HOTEL%201/dashboard?year=ALL&churn_date=2024-02-20&churn_window=1+month",
		http.Header{"If-None-Match": []string{etag}})
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", resp2.StatusCode)
	}
}

func TestE2E_Selectors(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts)

	resp := get(t, ts, token, "/v1/hotels/HOTEL%201/selectors?year=2024", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}

	var v domain.SelectorsView
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(v.Years) != 1 || v.Years[0] != 2024 {
		t.Fatalf("years: %+v", v.Years)
	}
	if fmt.Sprint(v.Months) != "[January February]" {
		t.Fatalf("months: %+v", v.Months)
	}
}

func TestE2E_ModelReport(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts)

	resp := get(t, ts, token, "/v1/hotels/HOTEL%201/model-report", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}

	var v domain.ModelReportView
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Accuracy != 100 || v.AUC != 1 {
		t.Fatalf("metrics: acc=%v auc=%v", v.Accuracy, v.AUC)
	}
	if len(v.Features) != 2 || v.Features[0].Name != "total_expense" {
		t.Fatalf("features: %+v", v.Features)
	}
	if len(v.Distributions) != 3 {
		t.Fatalf("distributions: %d", len(v.Distributions))
	}
}

func TestE2E_BadQuery(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts)

	resp := get(t, ts, token, "/v1/hotels/HOTEL%201/dashboard?year=nineteen", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type: %s", ct)
	}
}
