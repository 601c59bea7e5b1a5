// Package render derives display-ready view-models from a snapshot. Nothing
// here touches presentation output; the render sink consumes the results.
package render

import (
	"github.com/i474232898/stratus/internal/format"
	"github.com/i474232898/stratus/internal/icons"
	"github.com/i474232898/stratus/internal/weather"
)

const (
	hourlyCount = 24
	dailyCount  = 7

	precipWindow    = 12
	precipPopThresh = 0.4
)

// Precipitation summary texts.
const (
	PrecipLikelyText   = "Possible precipitation in the next hours"
	PrecipUnlikelyText = "No precipitation expected soon"
)

type CurrentView struct {
	PlaceLabel  string `json:"placeLabel"`
	Temperature string `json:"temperature"`
	FeelsLike   string `json:"feelsLike"`
	Description string `json:"description"`
	Humidity    string `json:"humidity"`
	Wind        string `json:"wind"`
	UVIndex     string `json:"uvIndex"`
	High        string `json:"high"`
	Low         string `json:"low"`
	LocalTime   string `json:"localTime"`
	IconID      string `json:"iconId"`
	IconPath    string `json:"iconPath"`
	IconAlt     string `json:"iconAlt"`
}

type HourView struct {
	HourLabel          string `json:"hourLabel"`
	IconID             string `json:"iconId"`
	IconPath           string `json:"iconPath"`
	TemperatureLabel   string `json:"temperatureLabel"`
	PrecipitationLabel string `json:"precipitationLabel"`
}

type HourlyView struct {
	Hours               []HourView `json:"hours"`
	PrecipitationLikely bool       `json:"precipitationLikely"`
	PrecipitationText   string     `json:"precipitationText"`
}

type DayView struct {
	WeekdayLabel       string `json:"weekdayLabel"`
	IconID             string `json:"iconId"`
	IconPath           string `json:"iconPath"`
	Range              string `json:"range"`
	PrecipitationLabel string `json:"precipitationLabel"`
}

type DailyView struct {
	Days []DayView `json:"days"`
}

// Views bundles the three views of one render pass, all in one unit.
type Views struct {
	Unit    weather.UnitSystem `json:"unit"`
	Current *CurrentView       `json:"current"`
	Hourly  *HourlyView        `json:"hourly"`
	Daily   *DailyView         `json:"daily"`
}

// Derive renders all three views from a consistent state read. It returns
// weather.ErrNotLoaded before the first snapshot.
func Derive(v weather.View) (*Views, error) {
	if v.Data == nil {
		return nil, weather.ErrNotLoaded
	}
	// Render in the unit the snapshot was fetched in; the selected unit may
	// be ahead of it while a fetch is pending or after one failed.
	unit := v.Data.Unit
	if unit == "" {
		unit = v.Unit
	}
	tz := v.Data.TimezoneOffset
	cur := Current(v.Data, unit, tz)
	if v.Place != nil {
		cur.PlaceLabel = v.Place.Label()
	}
	return &Views{
		Unit:    unit,
		Current: cur,
		Hourly:  Hourly(v.Data, unit, tz),
		Daily:   Daily(v.Data, unit, tz),
	}, nil
}

// Current returns nil for a nil snapshot.
func Current(snap *weather.Snapshot, unit weather.UnitSystem, tz int) *CurrentView {
	if snap == nil {
		return nil
	}
	c := snap.Current

	high, low := format.Placeholder, format.Placeholder
	if day := today(snap); day != nil {
		high = format.Temperature(day.Max, unit)
		low = format.Temperature(day.Min, unit)
	}

	desc := format.TitleCase(conditionDescription(c))
	if desc == "" {
		desc = format.Placeholder
	}

	iconID := icons.Resolve(conditionCode(c))

	return &CurrentView{
		PlaceLabel:  format.Placeholder,
		Temperature: format.Temperature(c.Temp, unit),
		FeelsLike:   "Feels like " + format.Temperature(c.FeelsLike, unit),
		Description: desc,
		Humidity:    format.Humidity(c.Humidity),
		Wind:        format.WindSpeed(c.WindSpeed, unit),
		UVIndex:     format.UVIndex(uvi(c)),
		High:        high,
		Low:         low,
		LocalTime:   format.DateTimeShort(c.Time, tz),
		IconID:      iconID,
		IconPath:    icons.Path(iconID),
		IconAlt:     conditionMain(c),
	}
}

// Hourly returns nil for a nil snapshot.
func Hourly(snap *weather.Snapshot, unit weather.UnitSystem, tz int) *HourlyView {
	if snap == nil {
		return nil
	}
	hours := firstN(snap.Hourly, hourlyCount)

	out := &HourlyView{Hours: make([]HourView, 0, len(hours))}
	for _, h := range hours {
		iconID := icons.Resolve(conditionCode(h))
		out.Hours = append(out.Hours, HourView{
			HourLabel:          format.HourOfDay(h.Time, tz),
			IconID:             iconID,
			IconPath:           icons.Path(iconID),
			TemperatureLabel:   format.Temperature(h.Temp, unit),
			PrecipitationLabel: popLabel(h),
		})
	}

	out.PrecipitationLikely = PrecipitationLikely(snap.Hourly)
	out.PrecipitationText = PrecipUnlikelyText
	if out.PrecipitationLikely {
		out.PrecipitationText = PrecipLikelyText
	}
	return out
}

// PrecipitationLikely is true when any of the next 12 hours has measured rain
// or a probability above 0.4.
func PrecipitationLikely(hourly []weather.ConditionSample) bool {
	for _, h := range firstN(hourly, precipWindow) {
		if rain1h(h) > 0 || pop(h) > precipPopThresh {
			return true
		}
	}
	return false
}

// Daily returns nil for a nil snapshot.
func Daily(snap *weather.Snapshot, unit weather.UnitSystem, tz int) *DailyView {
	if snap == nil {
		return nil
	}
	days := firstN(snap.Daily, dailyCount)

	out := &DailyView{Days: make([]DayView, 0, len(days))}
	for _, d := range days {
		iconID := icons.Resolve(conditionCode(d.ConditionSample))
		out.Days = append(out.Days, DayView{
			WeekdayLabel:       format.WeekdayShort(d.Time, tz),
			IconID:             iconID,
			IconPath:           icons.Path(iconID),
			Range:              format.Temperature(d.Max, unit) + " / " + format.Temperature(d.Min, unit),
			PrecipitationLabel: popLabel(d.ConditionSample),
		})
	}
	return out
}

func popLabel(s weather.ConditionSample) string {
	p := pop(s)
	if p <= 0 {
		return format.Placeholder
	}
	return format.Percent(&p)
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
