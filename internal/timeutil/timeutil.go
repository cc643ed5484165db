// Package timeutil normalizes the time dialects accepted by the activity
// log API into the two forms the rest of the agent needs: backend query
// tokens (the literal "now" or a unix-seconds string) and RFC3339 display
// strings.
//
// All functions take an explicit reference instant so callers and tests
// resolve relative expressions against the same clock, and none of them
// return an error: a value that cannot be understood falls back instead.
package timeutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// maxTimestampDrift bounds how far a raw unix timestamp may sit from the
// reference instant before it is rejected as garbage.
const maxTimestampDrift = 365 * 24 * time.Hour

// nanosecondDigits is the string length at which a numeric timestamp is
// read as nanoseconds rather than seconds. Unix seconds stay below 11
// digits until the year 5138; Loki nanosecond timestamps are 19 digits.
const nanosecondDigits = 19

var (
	relativePattern = regexp.MustCompile(`^(\d+)([smhdw])$`)
	dateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)
	dateOnlyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	numericPattern  = regexp.MustCompile(`^\d+$`)
)

var unitDurations = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
}

// ValidateTimeParam converts a time parameter into a backend query token.
// An empty parameter adopts the fallback before normalization, so a
// well-formed default (e.g. "1h") still reaches the backend as a valid
// token. An unrecognized parameter returns the fallback string unchanged
// after logging a warning.
func ValidateTimeParam(param, fallback string, now time.Time) string {
	param = strings.TrimSpace(param)

	if param == "" {
		param = strings.TrimSpace(fallback)
	}

	if param == "now" {
		return "now"
	}

	if t, ok := parseRelative(param, now); ok {
		return unixSecondsString(t)
	}

	if t, ok := parseAbsolute(param); ok {
		return unixSecondsString(t)
	}

	if t, ok := parseUnixTimestamp(param, now); ok {
		return unixSecondsString(t)
	}

	log.Warn().Str("param", param).Str("fallback", fallback).Msg("unrecognized time parameter, using fallback")

	return fallback
}

// ConvertTimeToUserFriendly converts any accepted time dialect into an
// RFC3339 string for display. Unparseable input renders as the reference
// instant.
func ConvertTimeToUserFriendly(param string, now time.Time) string {
	param = strings.TrimSpace(param)

	if param == "" || param == "now" {
		return now.UTC().Format(time.RFC3339)
	}

	if t, ok := parseRelative(param, now); ok {
		return t.UTC().Format(time.RFC3339)
	}

	if t, ok := parseAbsolute(param); ok {
		return t.UTC().Format(time.RFC3339)
	}

	if t, ok := parseUnixTimestamp(param, now); ok {
		return t.UTC().Format(time.RFC3339)
	}

	return now.UTC().Format(time.RFC3339)
}

// ParseLokiTimestamp converts a nanosecond-precision timestamp string, as
// returned in Loki stream value tuples, into a time. Anything that does not
// parse yields the reference instant.
func ParseLokiTimestamp(ns string, now time.Time) time.Time {
	n, err := strconv.ParseInt(strings.TrimSpace(ns), 10, 64)

	if err != nil {
		return now
	}

	return time.UnixMilli(n / int64(time.Millisecond)).UTC()
}

// TokenToUnixSeconds resolves a backend query token to unix seconds. Tokens
// are produced by ValidateTimeParam, so anything other than "now" or a
// numeric string resolves to zero.
func TokenToUnixSeconds(token string, now time.Time) int64 {
	if token == "now" {
		return now.Unix()
	}

	if n, err := strconv.ParseInt(token, 10, 64); err == nil {
		return n
	}

	return 0
}

func parseRelative(param string, now time.Time) (time.Time, bool) {
	matches := relativePattern.FindStringSubmatch(param)

	if matches == nil {
		return time.Time{}, false
	}

	amount, err := strconv.ParseInt(matches[1], 10, 64)

	if err != nil {
		return time.Time{}, false
	}

	unit, ok := unitDurations[matches[2]]

	if !ok {
		return time.Time{}, false
	}

	return now.Add(-time.Duration(amount) * unit), true
}

func parseAbsolute(param string) (time.Time, bool) {
	if dateTimePattern.MatchString(param) {
		if t, err := time.Parse(time.RFC3339, param); err == nil {
			return t, true
		}

		// zone-less date-times are read as UTC
		if t, err := time.Parse("2006-01-02T15:04:05", param); err == nil {
			return t.UTC(), true
		}

		return time.Time{}, false
	}

	if dateOnlyPattern.MatchString(param) {
		if t, err := time.Parse("2006-01-02", param); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseUnixTimestamp(param string, now time.Time) (time.Time, bool) {
	if !numericPattern.MatchString(param) {
		return time.Time{}, false
	}

	n, err := strconv.ParseInt(param, 10, 64)

	if err != nil {
		return time.Time{}, false
	}

	var t time.Time

	if len(param) >= nanosecondDigits {
		t = time.UnixMilli(n / int64(time.Millisecond))
	} else {
		t = time.Unix(n, 0)
	}

	if t.Before(now.Add(-maxTimestampDrift)) || t.After(now.Add(maxTimestampDrift)) {
		return time.Time{}, false
	}

	return t, true
}

func unixSecondsString(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
