package analysis

import (
	"errors"
	"fmt"

	"github.com/RMahshie/fra-analyzer/pkg/models"
)

// Default score thresholds
const (
	DefaultWarningThreshold  = 70
	DefaultCriticalThreshold = 50
)

// ErrInvalidThresholds is returned for thresholds outside 0 <= critical < warning <= 100.
var ErrInvalidThresholds = errors.New("invalid thresholds")

// DefaultThresholds returns the built-in warning and critical cut-offs.
func DefaultThresholds() models.Thresholds {
	return models.Thresholds{
		Warning:  DefaultWarningThreshold,
		Critical: DefaultCriticalThreshold,
	}
}

// ValidateThresholds checks that critical sits strictly below warning and
// both lie within the score range.
func ValidateThresholds(t models.Thresholds) error {
	if t.Critical < 0 || t.Warning > 100 {
		return fmt.Errorf("%w: values must be within 0..100", ErrInvalidThresholds)
	}
	if t.Critical >= t.Warning {
		return fmt.Errorf("%w: critical (%d) must be below warning (%d)", ErrInvalidThresholds, t.Critical, t.Warning)
	}
	return nil
}

// SeverityOf buckets a score: Critical at or below the critical threshold,
// Warning at or below the warning threshold, Healthy otherwise.
func SeverityOf(score int, t models.Thresholds) models.Severity {
	switch {
	case score <= t.Critical:
		return models.SeverityCritical
	case score <= t.Warning:
		return models.SeverityWarning
	default:
		return models.SeverityHealthy
	}
}
