package device

import (
	"context"
	"time"
)

// SensorReading is one temperature/humidity/power sample of the H&T sensor.
type SensorReading struct {
	TempC      float64   `json:"tC"`
	TempF      float64   `json:"tF"`
	Humidity   float64   `json:"rh"`
	Battery    int       `json:"battery"`
	IsCharging bool      `json:"isCharging"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Temperature is the temperature component status.
type Temperature struct {
	Celsius    float64
	Fahrenheit float64
}

// Power is the device power component status.
type Power struct {
	Battery  int
	External bool
}

// Plug switches the smart plug relay.
type Plug interface {
	SetSwitch(ctx context.Context, on bool) error
}

// Sensor reads the battery powered H&T sensor, which is usually asleep.
type Sensor interface {
	Temperature(ctx context.Context) (Temperature, error)
	Humidity(ctx context.Context) (float64, error)
	Power(ctx context.Context) (Power, error)
}

// FallbackStore loads the last reading recorded by the ingestion process.
type FallbackStore interface {
	Load(ctx context.Context) (SensorReading, error)
}

// Config wires runtime settings for the device actions.
type Config struct {
	LowBatteryPercent int
}
