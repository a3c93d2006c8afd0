package domain

import (
	"math"
	"time"
)

// SensorReading is one snapshot of the live water measurements.
// A nil field means the sensor has not reported that value.
type SensorReading struct {
	Temperature *float64   `db:"temperature" json:"temperature"`
	Turbidity   *float64   `db:"turbidity" json:"turbidity"`
	PH          *float64   `db:"ph" json:"ph"`
	ObservedAt  *time.Time `db:"observed_at" json:"observedAt"`
}

// Complete reports whether every parameter has been reported.
func (r SensorReading) Complete() bool {
	return r.Temperature != nil && r.Turbidity != nil && r.PH != nil
}

// ContainerStatus is the current fill state of the consumable containers, in percent.
type ContainerStatus struct {
	FoodLevel       float64   `db:"food_level" json:"foodLevel"`
	PhSolutionLevel float64   `db:"ph_solution_level" json:"phSolutionLevel"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// Clamped returns the status with both levels clamped to [0,100].
func (s ContainerStatus) Clamped() ContainerStatus {
	s.FoodLevel = ClampLevel(s.FoodLevel)
	s.PhSolutionLevel = ClampLevel(s.PhSolutionLevel)
	return s
}

// DailyRecord is one day of appliance bookkeeping: water quality summary,
// automation state and container levels at the start and end of the day.
type DailyRecord struct {
	ID                 int64     `db:"id" json:"id"`
	RecordedAt         time.Time `db:"recorded_at" json:"recordedAt"`
	Temperature        *float64  `db:"temperature" json:"temperature"`
	Turbidity          *float64  `db:"turbidity" json:"turbidity"`
	PH                 *float64  `db:"ph" json:"ph"`
	FoodLevelStart     *float64  `db:"food_level_start" json:"foodLevelStart"`
	FoodLevelEnd       *float64  `db:"food_level_end" json:"foodLevelEnd"`
	PhLevelStart       *float64  `db:"ph_level_start" json:"phLevelStart"`
	PhLevelEnd         *float64  `db:"ph_level_end" json:"phLevelEnd"`
	AutoFeedingEnabled *bool     `db:"auto_feeding_enabled" json:"autoFeedingEnabled"`
	AutoPhEnabled      *bool     `db:"auto_ph_enabled" json:"autoPhEnabled"`
	FeedingSchedules   []string  `db:"-" json:"feedingSchedules"`
}

// HourlyPoint is one entry of the hourly water quality series.
type HourlyPoint struct {
	RecordedAt  time.Time `db:"recorded_at" json:"recordedAt"`
	Temperature *float64  `db:"temperature" json:"temperature"`
	Turbidity   *float64  `db:"turbidity" json:"turbidity"`
	PH          *float64  `db:"ph" json:"ph"`
}

// ParameterRange is an inclusive acceptable band for one water parameter.
type ParameterRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Ranges holds the acceptable bands for every monitored parameter.
type Ranges struct {
	Temperature ParameterRange `json:"temperature"`
	Turbidity   ParameterRange `json:"turbidity"`
	PH          ParameterRange `json:"ph"`
}

// DefaultRanges are the bands used when nothing else is configured.
var DefaultRanges = Ranges{
	Temperature: ParameterRange{Min: 22, Max: 28},
	Turbidity:   ParameterRange{Min: 0, Max: 10},
	PH:          ParameterRange{Min: 6.5, Max: 7.5},
}

// ScheduleSlots is the number of feeding schedules the feeder supports.
const ScheduleSlots = 2

// FeedingSchedule is one feeder slot. An empty Time means the slot is unset.
type FeedingSchedule struct {
	Slot  int    `json:"slot"`
	Time  string `json:"time"`
	Grams int    `json:"grams"`
}

// Set reports whether the slot holds a schedule.
func (s FeedingSchedule) Set() bool { return s.Time != "" }

// Settings is the automation configuration the appliance follows.
type Settings struct {
	FeedingEnabled    bool                           `json:"feedingEnabled"`
	Schedules         [ScheduleSlots]FeedingSchedule `json:"schedules"`
	PhBalancerEnabled bool                           `json:"phBalancerEnabled"`
	UpdatedAt         time.Time                      `json:"updatedAt"`
}

// NewSettings returns settings with everything disabled and the slots numbered.
func NewSettings() Settings {
	var s Settings
	for i := range s.Schedules {
		s.Schedules[i].Slot = i + 1
	}
	return s
}

// Triggered records when the appliance last ran each automation.
type Triggered struct {
	FeedingLastTriggered *time.Time `db:"feeding_last_triggered" json:"feedingLastTriggered"`
	PhLastTriggered      *time.Time `db:"ph_last_triggered" json:"phLastTriggered"`
}

// Operator is a dashboard user allowed to change settings.
type Operator struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// ClampLevel bounds a fill percentage to [0,100]. NaN is treated as empty.
func ClampLevel(level float64) float64 {
	if math.IsNaN(level) {
		return 0
	}
	return math.Max(0, math.Min(100, level))
}
