package analysis

import (
	"testing"

	"github.com/RMahshie/fra-analyzer/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestSeverityOf(t *testing.T) {
	defaults := DefaultThresholds()

	tests := []struct {
		score int
		t     models.Thresholds
		want  models.Severity
	}{
		{score: 95, t: defaults, want: models.SeverityHealthy},
		{score: 71, t: defaults, want: models.SeverityHealthy},
		{score: 70, t: defaults, want: models.SeverityWarning},
		{score: 55, t: defaults, want: models.SeverityWarning},
		{score: 50, t: defaults, want: models.SeverityCritical},
		{score: 30, t: defaults, want: models.SeverityCritical},
		{score: 70, t: models.Thresholds{Warning: 80, Critical: 70}, want: models.SeverityCritical},
		{score: 95, t: models.Thresholds{Warning: 95, Critical: 10}, want: models.SeverityWarning},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SeverityOf(tt.score, tt.t), "score %d with %+v", tt.score, tt.t)
	}
}

func TestValidateThresholds(t *testing.T) {
	assert.NoError(t, ValidateThresholds(DefaultThresholds()))
	assert.NoError(t, ValidateThresholds(models.Thresholds{Warning: 100, Critical: 0}))

	for _, th := range []models.Thresholds{
		{Warning: 50, Critical: 50},
		{Warning: 40, Critical: 60},
		{Warning: 101, Critical: 50},
		{Warning: 70, Critical: -1},
	} {
		assert.ErrorIs(t, ValidateThresholds(th), ErrInvalidThresholds, "%+v", th)
	}
}
