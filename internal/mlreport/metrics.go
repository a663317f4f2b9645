// Package mlreport computes the classifier report: scalar metrics,
// ROC / precision-recall curves and the feature-importance ranking over
// a pre-trained model's held-out predictions. No training happens here.
package mlreport

import (
	"fmt"
	"sort"

	"tca_dashboard/internal/domain"
)

// Accuracy is the share of correct predictions as a percentage (0-100).
func Accuracy(yTrue, yPred []int) (float64, error) {
	if err := sameLen(yTrue, yPred); err != nil {
		return 0, err
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)) * 100, nil
}

// classCounts tallies per-class true positives, predicted counts and
// support over the label classes present in yTrue or yPred.
func classCounts(yTrue, yPred []int) (classes []int, tp, predicted, support map[int]int) {
	tp = map[int]int{}
	predicted = map[int]int{}
	support = map[int]int{}
	for i := range yTrue {
		support[yTrue[i]]++
		predicted[yPred[i]]++
		if yTrue[i] == yPred[i] {
			tp[yTrue[i]]++
		}
	}
	seen := map[int]bool{}
	for c := range support {
		seen[c] = true
	}
	for c := range predicted {
		seen[c] = true
	}
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	return classes, tp, predicted, support
}

// WeightedRecall averages per-class recall weighted by class support,
// as a percentage.
func WeightedRecall(yTrue, yPred []int) (float64, error) {
	if err := sameLen(yTrue, yPred); err != nil {
		return 0, err
	}
	classes, tp, _, support := classCounts(yTrue, yPred)
	total := float64(len(yTrue))
	var sum float64
	for _, c := range classes {
		if support[c] == 0 {
			continue
		}
		recall := float64(tp[c]) / float64(support[c])
		sum += float64(support[c]) / total * recall
	}
	return sum * 100, nil
}

// WeightedF1 averages per-class F1 weighted by class support, as a
// percentage. Classes with zero precision+recall contribute zero.
func WeightedF1(yTrue, yPred []int) (float64, error) {
	if err := sameLen(yTrue, yPred); err != nil {
		return 0, err
	}
	classes, tp, predicted, support := classCounts(yTrue, yPred)
	total := float64(len(yTrue))
	var sum float64
	for _, c := range classes {
		if support[c] == 0 {
			continue
		}
		var precision, recall float64
		if predicted[c] > 0 {
			precision = float64(tp[c]) / float64(predicted[c])
		}
		recall = float64(tp[c]) / float64(support[c])
		var f1 float64
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		sum += float64(support[c]) / total * f1
	}
	return sum * 100, nil
}

// ROC computes the receiver operating characteristic curve (false
// positive rate vs true positive rate at every distinct score threshold,
// highest first) and its area under curve by trapezoidal rule.
func ROC(yTrue []int, scores []float64) ([]domain.CurvePoint, float64, error) {
	pos, neg, order, err := scoreOrder(yTrue, scores)
	if err != nil {
		return nil, 0, err
	}

	points := []domain.CurvePoint{{X: 0, Y: 0}}
	tp, fp := 0, 0
	for i := 0; i < len(order); {
		// consume the whole tie group before emitting a point
		j := i
		for j < len(order) && scores[order[j]] == scores[order[i]] {
			if yTrue[order[j]] == 1 {
				tp++
			} else {
				fp++
			}
			j++
		}
		points = append(points, domain.CurvePoint{
			X: float64(fp) / float64(neg),
			Y: float64(tp) / float64(pos),
		})
		i = j
	}

	auc := 0.0
	for i := 1; i < len(points); i++ {
		auc += (points[i].X - points[i-1].X) * (points[i].Y + points[i-1].Y) / 2
	}
	return points, auc, nil
}

// PrecisionRecall computes the precision-recall curve as (recall,
// precision) points at every distinct score threshold, highest first,
// ending at the conventional (0, 1) anchor.
func PrecisionRecall(yTrue []int, scores []float64) ([]domain.CurvePoint, error) {
	pos, _, order, err := scoreOrder(yTrue, scores)
	if err != nil {
		return nil, err
	}

	var points []domain.CurvePoint
	tp, fp := 0, 0
	for i := 0; i < len(order); {
		j := i
		for j < len(order) && scores[order[j]] == scores[order[i]] {
			if yTrue[order[j]] == 1 {
				tp++
			} else {
				fp++
			}
			j++
		}
		points = append(points, domain.CurvePoint{
			X: float64(tp) / float64(pos),
			Y: float64(tp) / float64(tp+fp),
		})
		i = j
	}
	points = append(points, domain.CurvePoint{X: 0, Y: 1})
	return points, nil
}

// scoreOrder validates binary inputs and returns indices sorted by score
// descending (stable, so ties keep input order).
func scoreOrder(yTrue []int, scores []float64) (pos, neg int, order []int, err error) {
	if len(yTrue) != len(scores) || len(yTrue) == 0 {
		return 0, 0, nil, fmt.Errorf("labels/scores length mismatch: %w", domain.ErrMalformedDataset)
	}
	for _, y := range yTrue {
		switch y {
		case 1:
			pos++
		case 0:
			neg++
		default:
			return 0, 0, nil, fmt.Errorf("non-binary label %d: %w", y, domain.ErrMalformedDataset)
		}
	}
	if pos == 0 || neg == 0 {
		return 0, 0, nil, fmt.Errorf("held-out labels are single-class: %w", domain.ErrMalformedDataset)
	}
	order = make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	return pos, neg, order, nil
}

// RankFeatures pairs names with importances and sorts descending by
// importance, stable on ties.
func RankFeatures(names []string, importances []float64) ([]domain.FeatureWeight, error) {
	if len(names) != len(importances) {
		return nil, fmt.Errorf("feature names/importances length mismatch: %w", domain.ErrMalformedDataset)
	}
	out := make([]domain.FeatureWeight, len(names))
	for i := range names {
		out[i] = domain.FeatureWeight{Name: names[i], Weight: importances[i]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out, nil
}

// SplitByChurn extracts the three churned-vs-retained covariate
// comparisons the report page plots.
func SplitByChurn(rows []domain.ModelFeatureRecord) []domain.DistributionPair {
	pairs := []domain.DistributionPair{
		{Covariate: "avg_days_between_visits"},
		{Covariate: "stay_days"},
		{Covariate: "rooms_reserved"},
	}
	for _, r := range rows {
		vals := [3]float64{r.AvgDaysBetweenVisits, r.StayDays, r.RoomsReserved}
		for i := range pairs {
			if r.Churned {
				pairs[i].Churned = append(pairs[i].Churned, vals[i])
			} else {
				pairs[i].Retained = append(pairs[i].Retained, vals[i])
			}
		}
	}
	return pairs
}

func sameLen(yTrue, yPred []int) error {
	if len(yTrue) != len(yPred) || len(yTrue) == 0 {
		return fmt.Errorf("labels/predictions length mismatch: %w", domain.ErrMalformedDataset)
	}
	return nil
}
