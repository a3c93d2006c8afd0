package analytics

import (
	"github.com/ANIKETSHETTY47/energy-grid-analytics-go/aggregator"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
)

// Averages of the water parameters over a set of daily records.
// A nil field means no record carried that parameter.
type Averages struct {
	Temperature *float64 `json:"temperature"`
	Turbidity   *float64 `json:"turbidity"`
	PH          *float64 `json:"ph"`
	Days        int      `json:"days"`
}

// DailyAverages averages each parameter over the records that report it.
// Missing values are skipped rather than counted as zero.
func DailyAverages(records []domain.DailyRecord) Averages {
	var temp, turb, ph []aggregator.Point
	for _, r := range records {
		if r.Temperature != nil {
			temp = append(temp, aggregator.Point{Value: *r.Temperature, Timestamp: r.RecordedAt})
		}
		if r.Turbidity != nil {
			turb = append(turb, aggregator.Point{Value: *r.Turbidity, Timestamp: r.RecordedAt})
		}
		if r.PH != nil {
			ph = append(ph, aggregator.Point{Value: *r.PH, Timestamp: r.RecordedAt})
		}
	}
	return Averages{
		Temperature: average(temp),
		Turbidity:   average(turb),
		PH:          average(ph),
		Days:        len(records),
	}
}

func average(points []aggregator.Point) *float64 {
	if len(points) == 0 {
		return nil
	}
	v := aggregator.Average(points)
	return &v
}

const (
	PhTriggered    = "Triggered"
	PhNotTriggered = "Not Triggered"
	NotAvailable   = "N/A"
)

// PhActivity tells whether the pH dispenser ran on the day of r, judged by the
// solution level dropping between the start and the end of the day.
func PhActivity(r domain.DailyRecord) string {
	if r.PhLevelStart == nil || r.PhLevelEnd == nil {
		return NotAvailable
	}
	if *r.PhLevelEnd < *r.PhLevelStart {
		return PhTriggered
	}
	return PhNotTriggered
}

// Level bands used to colour the container gauges.
const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

// LevelBand classifies a fill percentage.
func LevelBand(level float64) string {
	switch {
	case level > 50:
		return BandHigh
	case level > 20:
		return BandMedium
	default:
		return BandLow
	}
}
