package weather

import (
	"fmt"
	"math"
	"strings"
)

// RoundHalfUp rounds to the nearest integer, ties toward positive infinity.
func RoundHalfUp(x float64) int {
	floor := math.Floor(x)
	if x-floor < 0.5 {
		return int(floor)
	}
	return int(math.Ceil(x))
}

// IsDaytime reports whether local lies within [sunrise, sunset], bounds included.
func IsDaytime(sunrise, sunset, local int64) bool {
	return sunrise <= local && local <= sunset
}

// LocalWindow shifts UTC sunrise/sunset onto the local wall-clock epoch used by the remote clock.
func LocalWindow(s Snapshot) (sunrise, sunset int64) {
	offset := int64(s.UTCOffset)
	return s.Sunrise + offset, s.Sunset + offset
}

func metersToMiles(m int) float64 {
	return math.Round(float64(m)/1609.344*10) / 10
}

func iconURL(base, icon string) string {
	icon = strings.TrimSpace(icon)
	if icon == "" || strings.TrimSpace(base) == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s@2x.png", strings.TrimRight(base, "/"), icon)
}

func placeName(s Snapshot, query string) string {
	if name := strings.TrimSpace(s.Place); name != "" {
		return name
	}
	if name := strings.TrimSpace(s.Coordinates.Name); name != "" {
		return name
	}
	return query
}
