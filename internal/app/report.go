package app

import (
	"context"
	"fmt"
	"time"

	"tca_dashboard/internal/domain"
	"tca_dashboard/internal/mlreport"
)

// ModelReportService assembles the classifier report page from the
// pre-trained model bundle and the model-side feature snapshot.
type ModelReportService struct {
	loader   domain.DatasetLoader
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewModelReportService(l domain.DatasetLoader, c domain.Cache, ttl time.Duration) *ModelReportService {
	return &ModelReportService{loader: l, cache: c, cacheTTL: ttl}
}

const reportKey = "model-report"

func (s *ModelReportService) Report(ctx context.Context) (domain.ModelReportView, error) {
	var v domain.ModelReportView
	if ok, _ := s.cache.Get(ctx, reportKey, &v); ok {
		return v, nil
	}

	bundle, err := s.loader.ModelBundle(ctx)
	if err != nil {
		return domain.ModelReportView{}, fmt.Errorf("load model bundle: %w", err)
	}
	rows, err := s.loader.ModelFeatures(ctx)
	if err != nil {
		return domain.ModelReportView{}, fmt.Errorf("load model features: %w", err)
	}

	accuracy, err := mlreport.Accuracy(bundle.TestLabels, bundle.Predicted)
	if err != nil {
		return domain.ModelReportView{}, err
	}
	f1, err := mlreport.WeightedF1(bundle.TestLabels, bundle.Predicted)
	if err != nil {
		return domain.ModelReportView{}, err
	}
	recall, err := mlreport.WeightedRecall(bundle.TestLabels, bundle.Predicted)
	if err != nil {
		return domain.ModelReportView{}, err
	}
	roc, auc, err := mlreport.ROC(bundle.TestLabels, bundle.Scores)
	if err != nil {
		return domain.ModelReportView{}, err
	}
	pr, err := mlreport.PrecisionRecall(bundle.TestLabels, bundle.Scores)
	if err != nil {
		return domain.ModelReportView{}, err
	}
	features, err := mlreport.RankFeatures(bundle.FeatureNames, bundle.Importances)
	if err != nil {
		return domain.ModelReportView{}, err
	}

	v = domain.ModelReportView{
		ModelName:       bundle.ModelName,
		Accuracy:        accuracy,
		F1:              f1,
		Recall:          recall,
		AccuracyText:    fmt.Sprintf("%.2f%%", accuracy),
		F1Text:          fmt.Sprintf("%.2f%%", f1),
		RecallText:      fmt.Sprintf("%.2f%%", recall),
		ROC:             roc,
		AUC:             auc,
		PrecisionRecall: pr,
		Features:        features,
		Distributions:   mlreport.SplitByChurn(rows),
	}
	_ = s.cache.Set(ctx, reportKey, v, int(s.cacheTTL.Seconds()))
	return v, nil
}
