package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tca_dashboard/internal/analytics"
	"tca_dashboard/internal/app"
	"tca_dashboard/internal/domain"
)

type Handlers struct {
	Dash   *app.DashboardService
	Report *app.ModelReportService
	Auth   *app.AuthService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/login", h.login)
	s.mux.Group(func(r chi.Router) {
		r.Use(Authenticate(h.Auth))
		r.Get("/v1/hotels/{org}/selectors", h.selectors)
		r.Get("/v1/hotels/{org}/dashboard", h.dashboard)
		r.Get("/v1/hotels/{org}/model-report", h.modelReport)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON username/password")
		return
	}
	token, name, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "username/password is incorrect")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"token": token, "name": name})
}

func (h *Handlers) selectors(w http.ResponseWriter, r *http.Request) {
	org := chi.URLParam(r, "org")
	year, ok := parseYear(r.URL.Query().Get("year"))
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid year", `year must be a number or "ALL"`)
		return
	}
	v, err := h.Dash.Selectors(r.Context(), org, year)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, r, v)
}

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := domain.Selection{Organization: chi.URLParam(r, "org")}

	var ok bool
	if sel.Year, ok = parseYear(q.Get("year")); !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid year", `year must be a number or "ALL"`)
		return
	}

	// month is forced to ALL when the year is ALL
	sel.Month = domain.MonthAll
	if m := q.Get("month"); m != "" && m != "ALL" && sel.Year != domain.YearAll {
		if sel.Month, ok = analytics.ParseMonth(m); !ok {
			writeProblem(w, http.StatusBadRequest, "Invalid month", `month must be an English month name or "ALL"`)
			return
		}
	}

	sel.ChurnDate = time.Date(2020, 4, 30, 0, 0, 0, 0, time.UTC)
	if d := q.Get("churn_date"); d != "" {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid churn_date", "churn_date must be YYYY-MM-DD")
			return
		}
		sel.ChurnDate = t
	}

	sel.Window = domain.WindowOneYear
	if wl := q.Get("churn_window"); wl != "" {
		win, err := domain.ParseChurnWindow(wl)
		if err != nil {
			if n, aerr := strconv.Atoi(wl); aerr == nil && domain.ChurnWindow(n).Valid() {
				win = domain.ChurnWindow(n)
			} else {
				writeProblem(w, http.StatusBadRequest, "Invalid churn_window", "churn_window must be one of the offered periods")
				return
			}
		}
		sel.Window = win
	}

	v, err := h.Dash.Dashboard(r.Context(), sel)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, r, v)
}

func (h *Handlers) modelReport(w http.ResponseWriter, r *http.Request) {
	v, err := h.Report.Report(r.Context())
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, r, v)
}

// parseYear maps "" and "ALL" to the all-years sentinel.
func parseYear(s string) (int, bool) {
	if s == "" || s == "ALL" {
		return domain.YearAll, true
	}
	y, err := strconv.Atoi(s)
	if err != nil || y <= 0 {
		return 0, false
	}
	return y, true
}

// writeLoadError distinguishes malformed upstream artifacts (bad gateway,
// never silently approximated) from internal failures.
func writeLoadError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("render failed")
	if errors.Is(err, domain.ErrMalformedDataset) {
		writeProblem(w, http.StatusBadGateway, "Bad Upstream Data", err.Error())
		return
	}
	writeProblem(w, http.StatusInternalServerError, "Internal Error", "render failed")
}
