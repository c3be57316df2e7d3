// Package timeutil converts the date and time-of-day representations found
// in schedule exports (native timestamps, spreadsheet serial numbers, ISO
// strings, 12-hour clock text) into canonical dates and minute-of-day
// offsets, and builds the interval keys the engines join on.
package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Spreadsheet serial day 0 per the 1899-12-30 epoch convention.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serials at or below 60 fall in the fictitious 1900 leap-period and are
// rejected rather than guessed at.
const minSerial = 60

const minutesPerDay = 24 * 60

// dateLayouts are tried in order when parsing a date string.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// timeLayouts are tried in order when parsing a time-of-day string. The
// 12-hour layouts expect the string uppercased first.
var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3:04:05 PM",
	"3:04:05PM",
	"3 PM",
	"3PM",
}

// ParseDate normalizes v to a calendar date at midnight UTC. It accepts
// time.Time values, spreadsheet serial numbers and the common string
// layouts. The second return is false when v cannot be interpreted; it
// never panics or errors.
func ParseDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return dateOnly(t), true
	case float64:
		return serialDate(t)
	case float32:
		return serialDate(float64(t))
	case int:
		return serialDate(float64(t))
	case int64:
		return serialDate(float64(t))
	case string:
		return parseDateString(t)
	default:
		return time.Time{}, false
	}
}

// ParseMinutes normalizes v to a minute-of-day offset in [0, 1440). It
// accepts time.Time values, fractional spreadsheet serials and 24-hour or
// 12-hour clock strings. 12 AM maps to 0 and 12 PM to 720.
func ParseMinutes(v any) (int, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return 0, false
		}
		return t.Hour()*60 + t.Minute(), true
	case float64:
		return serialMinutes(t)
	case float32:
		return serialMinutes(float64(t))
	case int:
		if t >= 0 && t < minutesPerDay {
			return t, true
		}
		return 0, false
	case string:
		return parseMinutesString(t)
	default:
		return 0, false
	}
}

// IntervalKey builds the canonical bucket key YYYY-MM-DDTHH:MM for the
// given date and minute offset. The offset is rounded to the nearest
// multiple of bucketMinutes; offsets past midnight roll onto the following
// calendar date so overnight shifts produce well-formed keys.
func IntervalKey(date time.Time, minutes, bucketMinutes int) string {
	if bucketMinutes <= 0 {
		bucketMinutes = 30
	}

	rounded := int(math.Round(float64(minutes)/float64(bucketMinutes))) * bucketMinutes

	d := dateOnly(date)
	for rounded >= minutesPerDay {
		rounded -= minutesPerDay
		d = d.AddDate(0, 0, 1)
	}
	for rounded < 0 {
		rounded += minutesPerDay
		d = d.AddDate(0, 0, -1)
	}

	return fmt.Sprintf("%sT%02d:%02d", d.Format("2006-01-02"), rounded/60, rounded%60)
}

// KeyHour extracts the hour component from an interval key. Returns -1 for
// malformed keys.
func KeyHour(key string) int {
	idx := strings.IndexByte(key, 'T')
	if idx < 0 || len(key) < idx+3 {
		return -1
	}
	h, err := strconv.Atoi(key[idx+1 : idx+3])
	if err != nil || h < 0 || h > 23 {
		return -1
	}
	return h
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func serialDate(serial float64) (time.Time, bool) {
	if serial <= minSerial || math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, false
	}
	days := int(serial)
	return serialEpoch.AddDate(0, 0, days), true
}

func serialMinutes(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	// A bare fraction is a time of day; a full serial carries the time in
	// its fractional part.
	if v < 1 {
		return int(math.Round(v*minutesPerDay)) % minutesPerDay, true
	}
	if v > minSerial {
		frac := v - math.Floor(v)
		return int(math.Round(frac*minutesPerDay)) % minutesPerDay, true
	}
	return 0, false
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), true
		}
	}

	// Spreadsheet exports sometimes render serials as plain numbers
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return serialDate(serial)
	}

	return time.Time{}, false
}

func parseMinutesString(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	upper := strings.ToUpper(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}

	// Fractional serial rendered as text
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return serialMinutes(f)
	}

	return 0, false
}
