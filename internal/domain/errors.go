package domain

import "errors"

var (
	// ErrMalformedDataset means an upstream snapshot or model bundle is
	// missing expected columns/fields. Fatal to the render: the pipeline
	// never substitutes defaults for financial or model figures.
	ErrMalformedDataset = errors.New("malformed upstream dataset")

	// ErrUnauthorized covers bad credentials and invalid tokens.
	ErrUnauthorized = errors.New("unauthorized")
)
