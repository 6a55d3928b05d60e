package weather

import (
	"context"

	"github.com/yanqian/assistant-actions/internal/domain/clock"
)

// Coordinates is a geocoded position.
type Coordinates struct {
	Name string
	Lat  float64
	Lon  float64
}

// Snapshot is the current conditions at a place, in imperial units.
type Snapshot struct {
	Place       string
	Description string
	Icon        string
	Temp        float64
	TempMin     float64
	TempMax     float64
	Clouds      int
	Visibility  int // meters
	UTCOffset   int // seconds east of UTC
	Sunrise     int64
	Sunset      int64
	Coordinates Coordinates
}

// Config wires runtime settings for the weather actions.
type Config struct {
	DefaultLocation string
	IconURL         string
}

// Provider resolves places and fetches current conditions.
type Provider interface {
	ResolveCoordinates(ctx context.Context, query string) (Coordinates, error)
	FetchCurrentWeather(ctx context.Context, query string) (Snapshot, error)
}

// ClockProvider fetches the wall time at a position.
type ClockProvider interface {
	FetchTime(ctx context.Context, coords Coordinates) (clock.Reading, error)
}
