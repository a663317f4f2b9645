package domain

// ModelBundle is the pre-trained classifier artifact as exported by the
// training job: held-out truth, held-out predictions, class-1 scores and
// the per-feature importance vector. The model itself stays opaque; this
// service only reports over the arrays.
type ModelBundle struct {
	ModelName    string    `json:"model_name"`
	FeatureNames []string  `json:"feature_names"`
	Importances  []float64 `json:"importances"`
	TestLabels   []int     `json:"y_test"`
	Predicted    []int     `json:"y_pred"`
	Scores       []float64 `json:"y_score"` // class-1 probabilities
}

// ModelFeatureRecord is one row of the model-side feature snapshot,
// labeled with the training-time churn flag. Used for the churned vs
// retained distribution comparisons.
type ModelFeatureRecord struct {
	Churned              bool
	AvgDaysBetweenVisits float64
	StayDays             float64
	RoomsReserved        float64
}

// CurvePoint is one (x, y) sample of a ROC or precision-recall curve.
type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FeatureWeight is one row of the feature-importance ranking.
type FeatureWeight struct {
	Name   string  `json:"feature"`
	Weight float64 `json:"importance"`
}
