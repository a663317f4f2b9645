package s3

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tca_dashboard/internal/domain"
)

// Column names as the upstream export writes them. A missing column is
// fatal (the pipeline never substitutes defaults for financial figures);
// a missing value in an optional dimension column becomes a nil pointer.
const (
	colOrganization = "empresa"
	colReservedAt   = "fecha_reservacion"
	colRoomType     = "tipo_habitacion"
	colChannel      = "canal"
	colPackage      = "paquete"
	colCountry      = "pais"
	colAgency       = "agencia"
	colSegment      = "segmento"
	colStatus       = "estatus_reservacion"
	colNights       = "num_noches"
	colTotalFare    = "tfa_total"
	colCompleted    = "reservacion"

	colClientID     = "id_cliente"
	colTotalExpense = "total_expense"
	colAvgDays      = "avg_days_between_visits"
	colStayDays     = "dias_estancia"
	colRooms        = "total_rooms_reserved"
	colChurn        = "churn"
)

type table struct {
	idx  map[string]int
	rows [][]string
}

func readTable(b []byte, required ...string) (table, error) {
	r := csv.NewReader(bytes.NewReader(b))
	r.TrimLeadingSpace = true
	all, err := r.ReadAll()
	if err != nil {
		return table{}, fmt.Errorf("parse csv: %v: %w", err, domain.ErrMalformedDataset)
	}
	if len(all) == 0 {
		return table{}, fmt.Errorf("empty csv: %w", domain.ErrMalformedDataset)
	}
	idx := make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		idx[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return table{}, fmt.Errorf("missing column %q: %w", name, domain.ErrMalformedDataset)
		}
	}
	return table{idx: idx, rows: all[1:]}, nil
}

func (t table) str(row []string, col string) string {
	return strings.TrimSpace(row[t.idx[col]])
}

// optStr returns nil for empty cells so they can land in the Unknown bucket.
func (t table) optStr(row []string, col string) *string {
	s := t.str(row, col)
	if s == "" {
		return nil
	}
	return &s
}

func (t table) date(row []string, col string) (time.Time, error) {
	s := t.str(row, col)
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad date %q in %s: %w", s, col, domain.ErrMalformedDataset)
}

func (t table) float(row []string, col string) (float64, error) {
	s := t.str(row, col)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q in %s: %w", s, col, domain.ErrMalformedDataset)
	}
	return v, nil
}

func (t table) boolean(row []string, col string) (bool, error) {
	s := t.str(row, col)
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("bad flag %q in %s: %w", s, col, domain.ErrMalformedDataset)
	}
	return v, nil
}

func decodeReservations(b []byte) ([]domain.ReservationRecord, error) {
	t, err := readTable(b,
		colOrganization, colReservedAt, colRoomType, colChannel, colPackage,
		colCountry, colAgency, colSegment, colStatus, colNights, colTotalFare, colCompleted)
	if err != nil {
		return nil, fmt.Errorf("reservations: %w", err)
	}
	out := make([]domain.ReservationRecord, 0, len(t.rows))
	for _, row := range t.rows {
		reservedAt, err := t.date(row, colReservedAt)
		if err != nil {
			return nil, fmt.Errorf("reservations: %w", err)
		}
		nights, err := t.float(row, colNights)
		if err != nil {
			return nil, fmt.Errorf("reservations: %w", err)
		}
		fare, err := t.float(row, colTotalFare)
		if err != nil {
			return nil, fmt.Errorf("reservations: %w", err)
		}
		completed, err := t.boolean(row, colCompleted)
		if err != nil {
			return nil, fmt.Errorf("reservations: %w", err)
		}
		out = append(out, domain.ReservationRecord{
			Organization: t.str(row, colOrganization),
			ReservedAt:   reservedAt,
			RoomType:     t.optStr(row, colRoomType),
			Channel:      t.optStr(row, colChannel),
			Package:      t.optStr(row, colPackage),
			Country:      t.optStr(row, colCountry),
			Agency:       t.optStr(row, colAgency),
			Segment:      t.optStr(row, colSegment),
			Status:       t.optStr(row, colStatus),
			Nights:       int(nights),
			TotalFare:    fare,
			Completed:    completed,
		})
	}
	return out, nil
}

func decodeClientFeatures(b []byte) ([]domain.ClientFeatureRecord, error) {
	t, err := readTable(b,
		colOrganization, colClientID, colReservedAt, colTotalExpense,
		colAvgDays, colStayDays, colRooms)
	if err != nil {
		return nil, fmt.Errorf("client features: %w", err)
	}
	out := make([]domain.ClientFeatureRecord, 0, len(t.rows))
	for _, row := range t.rows {
		reservedAt, err := t.date(row, colReservedAt)
		if err != nil {
			return nil, fmt.Errorf("client features: %w", err)
		}
		// the export writes client ids as floats
		idF, err := t.float(row, colClientID)
		if err != nil {
			return nil, fmt.Errorf("client features: %w", err)
		}
		expense, err := t.float(row, colTotalExpense)
		if err != nil {
			return nil, fmt.Errorf("client features: %w", err)
		}
		avgDays, err := t.float(row, colAvgDays)
		if err != nil {
			return nil, fmt.Errorf("client features: %w", err)
		}
		stay, err := t.float(row, colStayDays)
		if err != nil {
			return nil, fmt.Errorf("client features: %w", err)
		}
		rooms, err := t.float(row, colRooms)
		if err != nil {
			return nil, fmt.Errorf("client features: %w", err)
		}
		out = append(out, domain.ClientFeatureRecord{
			Organization:         t.str(row, colOrganization),
			ClientID:             int64(idF),
			ReservedAt:           reservedAt,
			TotalExpense:         expense,
			AvgDaysBetweenVisits: avgDays,
			StayDays:             stay,
			RoomsReserved:        rooms,
		})
	}
	return out, nil
}

func decodeModelFeatures(b []byte) ([]domain.ModelFeatureRecord, error) {
	t, err := readTable(b, colChurn, colAvgDays, colStayDays, colRooms)
	if err != nil {
		return nil, fmt.Errorf("model features: %w", err)
	}
	out := make([]domain.ModelFeatureRecord, 0, len(t.rows))
	for _, row := range t.rows {
		churned, err := t.boolean(row, colChurn)
		if err != nil {
			return nil, fmt.Errorf("model features: %w", err)
		}
		avgDays, err := t.float(row, colAvgDays)
		if err != nil {
			return nil, fmt.Errorf("model features: %w", err)
		}
		stay, err := t.float(row, colStayDays)
		if err != nil {
			return nil, fmt.Errorf("model features: %w", err)
		}
		rooms, err := t.float(row, colRooms)
		if err != nil {
			return nil, fmt.Errorf("model features: %w", err)
		}
		out = append(out, domain.ModelFeatureRecord{
			Churned:              churned,
			AvgDaysBetweenVisits: avgDays,
			StayDays:             stay,
			RoomsReserved:        rooms,
		})
	}
	return out, nil
}
