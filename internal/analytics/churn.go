package analytics

import (
	"time"

	"tca_dashboard/internal/domain"
)

const day = 24 * time.Hour

// LabelChurn derives the recency metric and churn flag for every feature
// row. DaysSinceLast may be negative for rows dated after the reference
// date; those are simply not churned.
func LabelChurn(feats []domain.ClientFeatureRecord, ref time.Time, window domain.ChurnWindow) []domain.ChurnRecord {
	out := make([]domain.ChurnRecord, 0, len(feats))
	for _, f := range feats {
		days := int(ref.Sub(f.ReservedAt) / day)
		out = append(out, domain.ChurnRecord{
			ClientFeatureRecord: f,
			DaysSinceLast:       days,
			Churned:             days > int(window),
		})
	}
	return out
}

// ChurnRate is the share of churned rows as a percentage. The rate over
// an empty set is undefined, not zero: duplicate client rows notwithstanding,
// the denominator is the row count of the labeled set.
func ChurnRate(labeled []domain.ChurnRecord) domain.Rate {
	if len(labeled) == 0 {
		return domain.Rate{}
	}
	churned := 0
	for _, c := range labeled {
		if c.Churned {
			churned++
		}
	}
	return domain.DefinedRate(float64(churned) / float64(len(labeled)) * 100)
}
