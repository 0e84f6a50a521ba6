package portfolio

import "errors"

var (
	ErrNoHoldings       = errors.New("error portfolio has no holdings")
	ErrWeights          = errors.New("error portfolio weights are inconsistent")
	ErrNegativeValue    = errors.New("error invested value must be non-negative")
	ErrInsufficientData = errors.New("error not enough overlapping points for correlation")
)
