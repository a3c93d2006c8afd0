// Package safety classifies the live water reading against the acceptable ranges.
package safety

import (
	"math"
	"strings"
	"time"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
)

// DefaultFreshnessWindow is how long a reading counts as live.
const DefaultFreshnessWindow = 5 * time.Minute

// Parameter names as reported in violations, in evaluation order.
const (
	Temperature = "temperature"
	Turbidity   = "turbidity"
	PH          = "pH"
)

const (
	MessageOffline  = "System offline"
	MessageAwaiting = "Awaiting sensor data..."
	MessageSafe     = "Water is safe for fish."
)

// Result is the water condition derived from one reading.
type Result struct {
	Safe       bool     `json:"safe"`
	Violations []string `json:"violations"`
	Message    string   `json:"message"`
}

// Awaiting reports whether the result reflects missing sensor data rather than
// an evaluated reading.
func (r Result) Awaiting() bool { return r.Message == MessageAwaiting }

// IsOnline reports whether a reading observed at observedAt is still fresh at now.
func IsOnline(observedAt *time.Time, now time.Time, window time.Duration) bool {
	if observedAt == nil {
		return false
	}
	return now.Sub(*observedAt) < window
}

// Evaluate classifies reading against ranges. An offline system is never evaluated.
// Turbidity only has an upper bound.
func Evaluate(reading domain.SensorReading, ranges domain.Ranges, online bool) Result {
	if !online {
		return Result{Message: MessageOffline, Violations: []string{}}
	}
	if !present(reading.Temperature) || !present(reading.Turbidity) || !present(reading.PH) {
		return Result{Message: MessageAwaiting, Violations: []string{}}
	}

	violations := []string{}
	if outside(*reading.Temperature, ranges.Temperature) {
		violations = append(violations, Temperature)
	}
	if *reading.Turbidity > ranges.Turbidity.Max {
		violations = append(violations, Turbidity)
	}
	if outside(*reading.PH, ranges.PH) {
		violations = append(violations, PH)
	}

	if len(violations) == 0 {
		return Result{Safe: true, Message: MessageSafe, Violations: violations}
	}
	return Result{
		Violations: violations,
		Message:    "Warning: Unsafe " + strings.Join(violations, ", ") + " level(s).",
	}
}

func present(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

func outside(v float64, r domain.ParameterRange) bool {
	return v < r.Min || v > r.Max
}
