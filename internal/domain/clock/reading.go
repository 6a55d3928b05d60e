package clock

import (
	"fmt"
	"strings"
	"time"
)

// maxFractionDigits is the precision kept from the remote timestamp (microseconds).
const maxFractionDigits = 6

const layout = "2006-01-02T15:04:05.999999"

// Reading is one remote clock response. Derivations never fetch again.
type Reading struct {
	Raw  string
	Time time.Time
}

// ParseReading parses a timestamp like "2024-01-24T11:27:22.5910482".
// Fractions beyond microseconds are dropped before parsing; a trailing zone
// designator, if any, is ignored because the provider reports local wall time.
func ParseReading(raw string) (Reading, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Reading{}, fmt.Errorf("empty clock timestamp")
	}
	value = strings.TrimSuffix(value, "Z")
	value = strings.Replace(value, " ", "T", 1)
	value = truncateFraction(value)

	parsed, err := time.Parse(layout, value)
	if err != nil {
		return Reading{}, fmt.Errorf("parse clock timestamp %q: %w", raw, err)
	}
	return Reading{Raw: raw, Time: parsed}, nil
}

func truncateFraction(value string) string {
	dot := strings.LastIndexByte(value, '.')
	if dot < 0 || dot < strings.IndexByte(value, 'T') {
		return value
	}
	end := dot + 1
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	digits := value[dot+1 : end]
	if len(digits) > maxFractionDigits {
		digits = digits[:maxFractionDigits]
	}
	if digits == "" {
		return value[:dot]
	}
	return value[:dot+1] + digits
}

// UnixTime treats the local wall time as if it were UTC, truncated to seconds.
func (r Reading) UnixTime() int64 {
	return r.Time.Unix()
}

// TwelveHourClock renders the wall time as "11:27 AM".
func (r Reading) TwelveHourClock() string {
	return r.Time.Format("03:04 PM")
}

// Weekday returns the English weekday name.
func (r Reading) Weekday() string {
	return r.Time.Weekday().String()
}

// LongDate renders "January 24, 2024".
func (r Reading) LongDate() string {
	return r.Time.Format("January 2, 2006")
}
