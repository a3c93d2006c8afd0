package feed

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
)

// Wire documents published by the appliance. Every field is kept raw so that a
// malformed value only drops that field instead of the whole message.

type readingDoc struct {
	Temperature json.RawMessage `json:"temperature"`
	Turbidity   json.RawMessage `json:"turbidity"`
	PH          json.RawMessage `json:"ph"`
	Timestamp   json.RawMessage `json:"timestamp"`
}

type containersDoc struct {
	FoodLevel       json.RawMessage `json:"foodLevel"`
	PhSolutionLevel json.RawMessage `json:"phSolutionLevel"`
	Timestamp       json.RawMessage `json:"timestamp"`
}

type historyDoc struct {
	Timestamp          json.RawMessage   `json:"timestamp"`
	Temp               json.RawMessage   `json:"temp"`
	Temperature        json.RawMessage   `json:"temperature"`
	Turbidity          json.RawMessage   `json:"turbidity"`
	PH                 json.RawMessage   `json:"ph"`
	FoodLevelStart     json.RawMessage   `json:"foodLevelStartOfDay"`
	FoodLevelEnd       json.RawMessage   `json:"foodLevelEndOfDay"`
	PhLevelStart       json.RawMessage   `json:"phSolutionLevelStartOfDay"`
	PhLevelEnd         json.RawMessage   `json:"phSolutionLevelEndOfDay"`
	AutoFeedingEnabled json.RawMessage   `json:"isAutoFeedingEnabledToday"`
	AutoPhEnabled      json.RawMessage   `json:"isAutoPhEnabledToday"`
	FeedingSchedules   []json.RawMessage `json:"feedingSchedules"`
}

type triggeredDoc struct {
	FeedingLastTriggered json.RawMessage `json:"feedingLastTriggered"`
	PhLastTriggered      json.RawMessage `json:"phLastTriggered"`
}

type settingsDoc struct {
	FeedingEnabled    bool   `json:"feedingEnabled"`
	FeedingTime1      string `json:"feedingTime1"`
	FeedingGrams1     int    `json:"feedingGrams1"`
	FeedingTime2      string `json:"feedingTime2"`
	FeedingGrams2     int    `json:"feedingGrams2"`
	PhBalancerEnabled bool   `json:"phBalancerEnabled"`
}

func DecodeReading(payload []byte) (domain.SensorReading, error) {
	var doc readingDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return domain.SensorReading{}, fmt.Errorf("decode reading: %w", err)
	}
	return domain.SensorReading{
		Temperature: number(doc.Temperature),
		Turbidity:   number(doc.Turbidity),
		PH:          number(doc.PH),
		ObservedAt:  timestamp(doc.Timestamp),
	}, nil
}

// DecodeContainers decodes a container level document. Missing or invalid
// levels count as empty.
func DecodeContainers(payload []byte) (domain.ContainerStatus, error) {
	var doc containersDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return domain.ContainerStatus{}, fmt.Errorf("decode containers: %w", err)
	}
	var out domain.ContainerStatus
	if v := number(doc.FoodLevel); v != nil {
		out.FoodLevel = *v
	}
	if v := number(doc.PhSolutionLevel); v != nil {
		out.PhSolutionLevel = *v
	}
	if ts := timestamp(doc.Timestamp); ts != nil {
		out.UpdatedAt = *ts
	}
	return out, nil
}

func DecodeHistory(payload []byte) (domain.DailyRecord, error) {
	var doc historyDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return domain.DailyRecord{}, fmt.Errorf("decode history: %w", err)
	}
	ts := timestamp(doc.Timestamp)
	if ts == nil {
		return domain.DailyRecord{}, fmt.Errorf("decode history: missing timestamp")
	}
	rec := domain.DailyRecord{
		RecordedAt:         *ts,
		Temperature:        number(doc.Temp),
		Turbidity:          number(doc.Turbidity),
		PH:                 number(doc.PH),
		FoodLevelStart:     number(doc.FoodLevelStart),
		FoodLevelEnd:       number(doc.FoodLevelEnd),
		PhLevelStart:       number(doc.PhLevelStart),
		PhLevelEnd:         number(doc.PhLevelEnd),
		AutoFeedingEnabled: boolean(doc.AutoFeedingEnabled),
		AutoPhEnabled:      boolean(doc.AutoPhEnabled),
		FeedingSchedules:   []string{},
	}
	if rec.Temperature == nil {
		rec.Temperature = number(doc.Temperature)
	}
	for _, raw := range doc.FeedingSchedules {
		if s := scheduleTime(raw); s != "" {
			rec.FeedingSchedules = append(rec.FeedingSchedules, s)
		}
	}
	return rec, nil
}

func DecodeHourly(payload []byte) (domain.HourlyPoint, error) {
	var doc readingDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return domain.HourlyPoint{}, fmt.Errorf("decode hourly: %w", err)
	}
	ts := timestamp(doc.Timestamp)
	if ts == nil {
		return domain.HourlyPoint{}, fmt.Errorf("decode hourly: missing timestamp")
	}
	return domain.HourlyPoint{
		RecordedAt:  *ts,
		Temperature: number(doc.Temperature),
		Turbidity:   number(doc.Turbidity),
		PH:          number(doc.PH),
	}, nil
}

func DecodeTriggered(payload []byte) (domain.Triggered, error) {
	var doc triggeredDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return domain.Triggered{}, fmt.Errorf("decode triggered: %w", err)
	}
	return domain.Triggered{
		FeedingLastTriggered: timestamp(doc.FeedingLastTriggered),
		PhLastTriggered:      timestamp(doc.PhLastTriggered),
	}, nil
}

func EncodeReading(r domain.SensorReading) ([]byte, error) {
	return json.Marshal(map[string]any{
		"temperature": r.Temperature,
		"turbidity":   r.Turbidity,
		"ph":          r.PH,
		"timestamp":   r.ObservedAt,
	})
}

func EncodeContainers(s domain.ContainerStatus) ([]byte, error) {
	return json.Marshal(map[string]any{
		"foodLevel":       s.FoodLevel,
		"phSolutionLevel": s.PhSolutionLevel,
		"timestamp":       s.UpdatedAt,
	})
}

func EncodeHistory(rec domain.DailyRecord) ([]byte, error) {
	schedules := rec.FeedingSchedules
	if schedules == nil {
		schedules = []string{}
	}
	return json.Marshal(map[string]any{
		"timestamp":                 rec.RecordedAt,
		"temp":                      rec.Temperature,
		"turbidity":                 rec.Turbidity,
		"ph":                        rec.PH,
		"foodLevelStartOfDay":       rec.FoodLevelStart,
		"foodLevelEndOfDay":         rec.FoodLevelEnd,
		"phSolutionLevelStartOfDay": rec.PhLevelStart,
		"phSolutionLevelEndOfDay":   rec.PhLevelEnd,
		"isAutoFeedingEnabledToday": rec.AutoFeedingEnabled,
		"isAutoPhEnabledToday":      rec.AutoPhEnabled,
		"feedingSchedules":          schedules,
	})
}

func EncodeHourly(p domain.HourlyPoint) ([]byte, error) {
	return json.Marshal(map[string]any{
		"timestamp":   p.RecordedAt,
		"temperature": p.Temperature,
		"turbidity":   p.Turbidity,
		"ph":          p.PH,
	})
}

func EncodeTriggered(t domain.Triggered) ([]byte, error) {
	return json.Marshal(map[string]any{
		"feedingLastTriggered": t.FeedingLastTriggered,
		"phLastTriggered":      t.PhLastTriggered,
	})
}

func EncodeSettings(s domain.Settings) ([]byte, error) {
	return json.Marshal(settingsDoc{
		FeedingEnabled:    s.FeedingEnabled,
		FeedingTime1:      s.Schedules[0].Time,
		FeedingGrams1:     s.Schedules[0].Grams,
		FeedingTime2:      s.Schedules[1].Time,
		FeedingGrams2:     s.Schedules[1].Grams,
		PhBalancerEnabled: s.PhBalancerEnabled,
	})
}

// number returns nil for absent, null or non-numeric values.
func number(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

func boolean(raw json.RawMessage) *bool {
	if len(raw) == 0 {
		return nil
	}
	var v *bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// timestamp accepts RFC 3339 strings or unix epochs in seconds or milliseconds.
func timestamp(raw json.RawMessage) *time.Time {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil
		}
		return &t
	}
	epoch := number(raw)
	if epoch == nil || *epoch <= 0 {
		return nil
	}
	var t time.Time
	if *epoch > 1e12 {
		t = time.UnixMilli(int64(*epoch)).UTC()
	} else {
		t = time.Unix(int64(*epoch), 0).UTC()
	}
	return &t
}

// scheduleTime renders a fed-at entry. Plain labels pass through, timestamps
// are shown as a 12 hour clock in UTC.
func scheduleTime(raw json.RawMessage) string {
	if ts := timestamp(raw); ts != nil {
		return ts.UTC().Format("03:04 PM")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
