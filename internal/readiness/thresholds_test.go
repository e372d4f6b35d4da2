package readiness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThresholdsValidate(t *testing.T) {
	cases := []struct {
		name string
		in   Thresholds
		ok   bool
	}{
		{"defaults", DefaultThresholds(), true},
		{"custom", Thresholds{PlacementReady: 85, NeedsImprovement: 55, AtRisk: 10}, true},
		{"above hundred", Thresholds{PlacementReady: 101, NeedsImprovement: 40, AtRisk: 0}, false},
		{"negative", Thresholds{PlacementReady: 70, NeedsImprovement: 40, AtRisk: -1}, false},
		{"ready equals improvement", Thresholds{PlacementReady: 50, NeedsImprovement: 50, AtRisk: 0}, false},
		{"improvement below floor", Thresholds{PlacementReady: 70, NeedsImprovement: 20, AtRisk: 30}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidThresholds), "got %v", err)
		})
	}
}

func TestClassifyBoundaries(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, PlacementReady, Classify(70, th))
	assert.Equal(t, PlacementReady, Classify(100, th))
	assert.Equal(t, NeedsImprovement, Classify(69.99, th))
	assert.Equal(t, NeedsImprovement, Classify(40, th))
	assert.Equal(t, AtRisk, Classify(39.99, th))
	assert.Equal(t, AtRisk, Classify(0, th))
}

func TestParseClassification(t *testing.T) {
	c, err := ParseClassification("at_risk")
	assert.NoError(t, err)
	assert.Equal(t, AtRisk, c)

	_, err = ParseClassification("ready")
	assert.Error(t, err)
}
