// Package readiness runs the placement readiness test: per-test
// classification thresholds, submissions and the placement cell's insights.
package readiness

import (
	"errors"
	"fmt"
)

// Classification buckets a readiness result.
type Classification string

const (
	PlacementReady   Classification = "placement_ready"
	NeedsImprovement Classification = "needs_improvement"
	AtRisk           Classification = "at_risk"
)

// ParseClassification accepts the three known values.
func ParseClassification(raw string) (Classification, error) {
	switch c := Classification(raw); c {
	case PlacementReady, NeedsImprovement, AtRisk:
		return c, nil
	}
	return "", fmt.Errorf("unknown classification %q", raw)
}

var ErrInvalidThresholds = errors.New("invalid thresholds")

// Thresholds are percentage floors for each classification.
type Thresholds struct {
	PlacementReady   float64 `json:"placement_ready_threshold"`
	NeedsImprovement float64 `json:"needs_improvement_threshold"`
	AtRisk           float64 `json:"at_risk_threshold"`
}

// DefaultThresholds applies to tests without a stored configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{PlacementReady: 70, NeedsImprovement: 40, AtRisk: 0}
}

// Validate requires every value in [0,100] and ready > needs > at risk.
func (t Thresholds) Validate() error {
	for name, v := range map[string]float64{
		"placement_ready_threshold":   t.PlacementReady,
		"needs_improvement_threshold": t.NeedsImprovement,
		"at_risk_threshold":           t.AtRisk,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: %s must be between 0 and 100", ErrInvalidThresholds, name)
		}
	}
	if t.PlacementReady <= t.NeedsImprovement {
		return fmt.Errorf("%w: ready threshold must be higher than improvement threshold", ErrInvalidThresholds)
	}
	if t.NeedsImprovement <= t.AtRisk {
		return fmt.Errorf("%w: improvement threshold must be higher than at risk floor", ErrInvalidThresholds)
	}
	return nil
}

// Classify maps a percentage onto a classification.
func Classify(pct float64, t Thresholds) Classification {
	switch {
	case pct >= t.PlacementReady:
		return PlacementReady
	case pct >= t.NeedsImprovement:
		return NeedsImprovement
	default:
		return AtRisk
	}
}
