package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/i474232898/stratus/internal/format"
	"github.com/i474232898/stratus/internal/weather"
)

func f(v float64) *float64 { return weather.Float(v) }

func hours(n int, build func(i int) weather.ConditionSample) []weather.ConditionSample {
	out := make([]weather.ConditionSample, n)
	for i := range out {
		out[i] = build(i)
	}
	return out
}

func TestPrecipitationLikely(t *testing.T) {
	withPop := hours(12, func(i int) weather.ConditionSample {
		return weather.ConditionSample{Pop: f(0)}
	})
	withPop[0].Pop = f(0.5)
	if !PrecipitationLikely(withPop) {
		t.Error("expected flag true for pop 0.5 in first 12")
	}

	dry := hours(24, func(i int) weather.ConditionSample {
		return weather.ConditionSample{Pop: f(0), Rain1h: f(0)}
	})
	if PrecipitationLikely(dry) {
		t.Error("expected flag false for all-zero series")
	}

	rain := hours(12, func(i int) weather.ConditionSample { return weather.ConditionSample{} })
	rain[11].Rain1h = f(0.1)
	if !PrecipitationLikely(rain) {
		t.Error("expected flag true for measured rain in hour 12")
	}

	// Exactly at the threshold does not count, and hour 13 is outside the window.
	edge := hours(24, func(i int) weather.ConditionSample { return weather.ConditionSample{Pop: f(0.4)} })
	edge[12].Pop = f(0.9)
	if PrecipitationLikely(edge) {
		t.Error("expected flag false for pop 0.4 and late rain")
	}

	if PrecipitationLikely(nil) {
		t.Error("expected flag false for empty series")
	}
}

func sampleSnapshot() *weather.Snapshot {
	snap := &weather.Snapshot{
		TimezoneOffset: 3600,
		Current: weather.ConditionSample{
			Time:      1700000000,
			Temp:      f(21.4),
			FeelsLike: f(20.6),
			Humidity:  f(64),
			WindSpeed: f(5),
			Condition: &weather.Condition{Code: "02n", Main: "Clouds", Description: "few clouds"},
		},
		Hourly: hours(48, func(i int) weather.ConditionSample {
			return weather.ConditionSample{
				Time:      1700000000 + int64(i)*3600,
				Temp:      f(float64(10 + i%5)),
				Pop:       f(0),
				Condition: &weather.Condition{Code: "10d"},
			}
		}),
	}
	for i := 0; i < 8; i++ {
		snap.Daily = append(snap.Daily, weather.DailySample{
			ConditionSample: weather.ConditionSample{
				Time: 1700000000 + int64(i)*86400,
				Pop:  f(0.25),
			},
			Max: f(23.7),
			Min: f(12.2),
		})
	}
	return snap
}

func TestCurrentView(t *testing.T) {
	snap := sampleSnapshot()
	v := Current(snap, weather.Metric, snap.TimezoneOffset)

	if v.Temperature != "21°" {
		t.Errorf("temperature = %q", v.Temperature)
	}
	if v.FeelsLike != "Feels like 21°" {
		t.Errorf("feels like = %q", v.FeelsLike)
	}
	if v.High != "24°" || v.Low != "12°" {
		t.Errorf("high/low = %q/%q", v.High, v.Low)
	}
	if v.Description != "Few Clouds" {
		t.Errorf("description = %q", v.Description)
	}
	if v.UVIndex != "0" {
		t.Errorf("uv index = %q, want 0 for absent", v.UVIndex)
	}
	if v.Wind != "18 km/h" {
		t.Errorf("wind = %q", v.Wind)
	}
	if v.Humidity != "64%" {
		t.Errorf("humidity = %q", v.Humidity)
	}
	if v.IconID != "partly-cloudy-night" || v.IconPath != "assets/icons/partly-cloudy-night.svg" {
		t.Errorf("icon = %q %q", v.IconID, v.IconPath)
	}
	if v.IconAlt != "Clouds" {
		t.Errorf("icon alt = %q", v.IconAlt)
	}
	// 22:13 UTC + 1h.
	if v.LocalTime != "Tue 23:13" {
		t.Errorf("local time = %q", v.LocalTime)
	}
}

func TestCurrentViewMissingFields(t *testing.T) {
	snap := &weather.Snapshot{}
	v := Current(snap, weather.Imperial, 0)

	if v.Temperature != format.Placeholder || v.High != format.Placeholder || v.Low != format.Placeholder {
		t.Errorf("expected placeholders, got %+v", v)
	}
	if v.Description != format.Placeholder {
		t.Errorf("description = %q", v.Description)
	}
	if v.IconID != "clear-day" || v.IconAlt != "Weather" {
		t.Errorf("icon defaults = %q %q", v.IconID, v.IconAlt)
	}
}

func TestHourlyView(t *testing.T) {
	snap := sampleSnapshot()
	snap.Hourly[3].Pop = f(0.35)

	v := Hourly(snap, weather.Imperial, snap.TimezoneOffset)
	if len(v.Hours) != 24 {
		t.Fatalf("expected 24 hours, got %d", len(v.Hours))
	}
	if v.Hours[0].HourLabel != "23:00" {
		t.Errorf("hour label = %q", v.Hours[0].HourLabel)
	}
	if v.Hours[0].PrecipitationLabel != format.Placeholder {
		t.Errorf("zero pop label = %q", v.Hours[0].PrecipitationLabel)
	}
	if v.Hours[3].PrecipitationLabel != "35%" {
		t.Errorf("pop label = %q", v.Hours[3].PrecipitationLabel)
	}
	if v.Hours[0].IconID != "rain" {
		t.Errorf("icon = %q", v.Hours[0].IconID)
	}
	if v.PrecipitationLikely || v.PrecipitationText != PrecipUnlikelyText {
		t.Errorf("unexpected precipitation summary %v %q", v.PrecipitationLikely, v.PrecipitationText)
	}
}

func TestDailyView(t *testing.T) {
	snap := sampleSnapshot()
	snap.Daily[1].Pop = nil

	v := Daily(snap, weather.Metric, 0)
	if len(v.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(v.Days))
	}
	if v.Days[0].Range != "24° / 12°" {
		t.Errorf("range = %q", v.Days[0].Range)
	}
	if v.Days[0].WeekdayLabel != "Tue" || v.Days[1].WeekdayLabel != "Wed" {
		t.Errorf("weekday labels = %q %q", v.Days[0].WeekdayLabel, v.Days[1].WeekdayLabel)
	}
	if v.Days[0].PrecipitationLabel != "25%" || v.Days[1].PrecipitationLabel != format.Placeholder {
		t.Errorf("pop labels = %q %q", v.Days[0].PrecipitationLabel, v.Days[1].PrecipitationLabel)
	}
}

func TestShortSeriesAreNotPadded(t *testing.T) {
	snap := sampleSnapshot()
	snap.Hourly = snap.Hourly[:5]
	snap.Daily = snap.Daily[:2]

	if got := len(Hourly(snap, weather.Metric, 0).Hours); got != 5 {
		t.Errorf("hours = %d", got)
	}
	if got := len(Daily(snap, weather.Metric, 0).Days); got != 2 {
		t.Errorf("days = %d", got)
	}
}

func TestNilSnapshot(t *testing.T) {
	if Current(nil, weather.Metric, 0) != nil || Hourly(nil, weather.Metric, 0) != nil || Daily(nil, weather.Metric, 0) != nil {
		t.Error("expected nil views for nil snapshot")
	}
	if _, err := Derive(weather.View{Unit: weather.Metric}); !errors.Is(err, weather.ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}

func TestDeriveUsesOneUnit(t *testing.T) {
	place := &weather.Place{Name: "Berlin", Country: "DE", Lat: 52.52, Lon: 13.41}
	views, err := Derive(weather.View{Unit: weather.Imperial, Place: place, Data: sampleSnapshot()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if views.Unit != weather.Imperial {
		t.Errorf("unit = %s", views.Unit)
	}
	if views.Current.Wind != "11 mph" {
		t.Errorf("wind = %q", views.Current.Wind)
	}
	if views.Current.PlaceLabel != "Berlin, DE" {
		t.Errorf("place label = %q", views.Current.PlaceLabel)
	}
}

func TestDeriveFollowsSnapshotUnit(t *testing.T) {
	snap := sampleSnapshot()
	snap.Unit = weather.Metric

	views, err := Derive(weather.View{Unit: weather.Imperial, Data: snap})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if views.Unit != weather.Metric {
		t.Errorf("unit = %s, want metric", views.Unit)
	}
	if strings.HasSuffix(views.Current.Wind, "mph") {
		t.Errorf("wind %q rendered in imperial over a metric snapshot", views.Current.Wind)
	}
}
