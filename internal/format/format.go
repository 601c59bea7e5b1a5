// Package format turns already unit-converted numbers and UTC epoch times into
// display strings. Every function is total: absent or non-finite input yields
// Placeholder instead of an error.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/i474232898/stratus/internal/weather"
)

// Placeholder is shown wherever a value is missing.
const Placeholder = "—"

const (
	msToKmh = 3.6
	msToMph = 2.237
)

// Layouts for the local wall-clock labels.
const (
	layoutTimeOfDay = "15:04"
	layoutHourOfDay = "15:00"
	layoutWeekday   = "Mon"
	layoutDateTime  = "Mon 15:04"
)

func valid(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

func roundInt(v float64) string {
	return strconv.FormatInt(int64(math.Round(v)), 10)
}

// Temperature rounds to the nearest integer and appends a degree sign. The
// server already converted the value, so metric and imperial share the rule.
func Temperature(v *float64, _ weather.UnitSystem) string {
	if !valid(v) {
		return Placeholder
	}
	return roundInt(*v) + "°"
}

// WindSpeed converts m/s to km/h (metric) or mph (imperial).
func WindSpeed(mps *float64, unit weather.UnitSystem) string {
	if !valid(mps) {
		return Placeholder
	}
	if unit == weather.Imperial {
		return roundInt(*mps*msToMph) + " mph"
	}
	return roundInt(*mps*msToKmh) + " km/h"
}

// Percent renders a 0..1 fraction as a rounded percentage.
func Percent(fraction *float64) string {
	if !valid(fraction) {
		return Placeholder
	}
	return roundInt(*fraction*100) + "%"
}

// Humidity renders a value that is already on the 0..100 scale.
func Humidity(pct *float64) string {
	if !valid(pct) {
		return Placeholder
	}
	return roundInt(*pct) + "%"
}

// UVIndex rounds the index; an absent value counts as 0.
func UVIndex(v *float64) string {
	if !valid(v) {
		return "0"
	}
	return roundInt(*v)
}

// local shifts a UTC epoch by the place's offset and pins the result to UTC so
// the host timezone never leaks into labels.
func local(epoch int64, tzOffset int) time.Time {
	return time.Unix(epoch+int64(tzOffset), 0).UTC()
}

func TimeOfDay(epoch int64, tzOffset int) string {
	return local(epoch, tzOffset).Format(layoutTimeOfDay)
}

func HourOfDay(epoch int64, tzOffset int) string {
	return local(epoch, tzOffset).Format(layoutHourOfDay)
}

func WeekdayShort(epoch int64, tzOffset int) string {
	return local(epoch, tzOffset).Format(layoutWeekday)
}

func DateTimeShort(epoch int64, tzOffset int) string {
	return local(epoch, tzOffset).Format(layoutDateTime)
}

// TitleCase upper-cases the first letter of every word.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	atStart := true
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			if atStart {
				r = unicode.ToUpper(r)
			}
			atStart = false
		} else {
			atStart = true
		}
		b.WriteRune(r)
	}
	return b.String()
}
