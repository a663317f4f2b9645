package domain

import (
	"encoding/json"
	"fmt"
)

// ChurnWindow is the lookback day-count beyond which a client with no
// newer reservation counts as lapsed. Only the four enumerated values
// offered by the dashboard are valid.
type ChurnWindow int

const (
	WindowOneMonth   ChurnWindow = 30
	WindowThreeMonth ChurnWindow = 90
	WindowSixMonth   ChurnWindow = 180
	WindowOneYear    ChurnWindow = 365
)

var windowLabels = map[string]ChurnWindow{
	"1 month":  WindowOneMonth,
	"3 months": WindowThreeMonth,
	"6 months": WindowSixMonth,
	"1 year":   WindowOneYear,
}

// ParseChurnWindow maps the human-readable selector label to a window.
func ParseChurnWindow(label string) (ChurnWindow, error) {
	if w, ok := windowLabels[label]; ok {
		return w, nil
	}
	return 0, fmt.Errorf("unknown churn window %q", label)
}

func (w ChurnWindow) Label() string {
	switch w {
	case WindowOneMonth:
		return "1 month"
	case WindowThreeMonth:
		return "3 months"
	case WindowSixMonth:
		return "6 months"
	case WindowOneYear:
		return "1 year"
	}
	return fmt.Sprintf("%d days", int(w))
}

// Valid reports whether w is one of the enumerated selector values.
func (w ChurnWindow) Valid() bool {
	switch w {
	case WindowOneMonth, WindowThreeMonth, WindowSixMonth, WindowOneYear:
		return true
	}
	return false
}

// ChurnWindows lists the selector choices in display order.
func ChurnWindows() []ChurnWindow {
	return []ChurnWindow{WindowOneYear, WindowSixMonth, WindowThreeMonth, WindowOneMonth}
}

// Rate is a percentage that may be undefined (zero-row denominator).
// An undefined rate marshals as JSON null so the UI decides display text.
type Rate struct {
	Value float64
	Valid bool
}

func DefinedRate(v float64) Rate { return Rate{Value: v, Valid: true} }

func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

func (r *Rate) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = Rate{}
		return nil
	}
	r.Valid = true
	return json.Unmarshal(b, &r.Value)
}
