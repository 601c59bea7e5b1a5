package render

import (
	"github.com/i474232898/stratus/internal/icons"
	"github.com/i474232898/stratus/internal/weather"
)

// Default resolution for every optional field the views read. Nothing else in
// this package dereferences an optional value directly.

const defaultIconAlt = "Weather"

func conditionCode(s weather.ConditionSample) string {
	if s.Condition == nil || s.Condition.Code == "" {
		return icons.DefaultCode
	}
	return s.Condition.Code
}

func conditionMain(s weather.ConditionSample) string {
	if s.Condition == nil || s.Condition.Main == "" {
		return defaultIconAlt
	}
	return s.Condition.Main
}

// conditionDescription returns "" when absent; callers render the placeholder.
func conditionDescription(s weather.ConditionSample) string {
	if s.Condition == nil {
		return ""
	}
	return s.Condition.Description
}

func pop(s weather.ConditionSample) float64 {
	if s.Pop == nil {
		return 0
	}
	return *s.Pop
}

func rain1h(s weather.ConditionSample) float64 {
	if s.Rain1h == nil {
		return 0
	}
	return *s.Rain1h
}

func uvi(s weather.ConditionSample) *float64 {
	if s.UVI == nil {
		return weather.Float(0)
	}
	return s.UVI
}

// today is daily[0], or nil when the snapshot has no daily series.
func today(snap *weather.Snapshot) *weather.DailySample {
	if len(snap.Daily) == 0 {
		return nil
	}
	return &snap.Daily[0]
}
