// Package timeutil normalizes the date and time strings the backend emits.
//
// The API serializes appointment fields inconsistently: sometimes a plain
// "2025-01-15" / "14:30", sometimes a full ISO instant like
// "2025-01-15T14:30:00Z". Everything that compares, buckets, or displays
// those values goes through this package so the rest of the code only ever
// sees canonical "YYYY-MM-DD" and "HH:MM" keys.
//
// Malformed input is passed through unchanged rather than rejected: a bad
// string renders as-is instead of crashing a calendar cell.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateKeyRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeKeyRe     = regexp.MustCompile(`^\d{2}:\d{2}$`)
	timeSecondsRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
)

// DateKey reduces a backend date value to the canonical "YYYY-MM-DD" form.
func DateKey(s string) string {
	if dateKeyRe.MatchString(s) {
		return s
	}
	if i := strings.Index(s, "T"); i >= 0 {
		return s[:i]
	}
	return s
}

// TimeKey reduces a backend time value to the canonical "HH:MM" form.
func TimeKey(s string) string {
	if timeKeyRe.MatchString(s) {
		return s
	}
	if timeSecondsRe.MatchString(s) {
		return s[:5]
	}
	if i := strings.Index(s, "T"); i >= 0 {
		rest := strings.TrimSuffix(s[i+1:], "Z")
		if len(rest) >= 5 {
			return rest[:5]
		}
		return rest
	}
	return s
}

// Clock12 renders an "HH:MM" key in 12-hour form, e.g. "2:30 PM".
// Input that is not a valid time key is returned unchanged.
func Clock12(key string) string {
	if !timeKeyRe.MatchString(key) {
		return key
	}
	hour, err := strconv.Atoi(key[:2])
	if err != nil || hour > 23 {
		return key
	}
	minute := key[3:]

	period := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		period = "PM"
	case hour > 12:
		hour -= 12
		period = "PM"
	}
	return fmt.Sprintf("%d:%s %s", hour, minute, period)
}

// SameDay reports whether a and b fall on the same calendar day,
// ignoring time of day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
