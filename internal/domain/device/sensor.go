package device

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/yanqian/assistant-actions/internal/domain/action"
	apperrors "github.com/yanqian/assistant-actions/pkg/errors"
	"github.com/yanqian/assistant-actions/pkg/util"
)

const sensorUnavailableMessage = "Sorry, I can't reach the sensor and I don't have any previous readings either."

// SensorAction reports temperature, humidity and battery of the H&T sensor.
type SensorAction struct {
	cfg    Config
	sensor Sensor
	store  FallbackStore
	now    util.NowFunc
	logger *slog.Logger
}

// NewSensorAction builds the sensor action.
func NewSensorAction(cfg Config, sensor Sensor, store FallbackStore, now util.NowFunc, logger *slog.Logger) *SensorAction {
	if cfg.LowBatteryPercent <= 0 {
		cfg.LowBatteryPercent = 25
	}
	return &SensorAction{cfg: cfg, sensor: sensor, store: store, now: util.OrNow(now), logger: logger.With("component", "device.sensor")}
}

func (a *SensorAction) Name() string { return "action_read_sensor" }

func (a *SensorAction) Run(ctx context.Context, req action.Request) (action.Result, error) {
	var d action.Dispatcher

	live, liveErr := a.fetchLive(ctx)
	stored, storeErr := a.store.Load(ctx)
	if storeErr != nil {
		a.logger.Warn("fallback store unavailable", "error", storeErr)
	}

	if liveErr != nil {
		a.logger.Warn("sensor unreachable, using fallback store", "error", liveErr)
		if storeErr != nil {
			d.Utter(sensorUnavailableMessage)
			return d.Result(), nil
		}
		d.Utter(a.renderFallback(stored))
		return d.Result(), nil
	}

	// the stored copy owns battery/charging: the device reports them reliably only after a reset
	if storeErr == nil {
		live.Battery = stored.Battery
		live.IsCharging = stored.IsCharging
	}
	d.Utter(a.renderLive(live))
	return d.Result(), nil
}

// fetchLive fans out the three status calls. Any failure discards every partial result.
func (a *SensorAction) fetchLive(ctx context.Context) (SensorReading, error) {
	var (
		temp     Temperature
		humidity float64
		power    Power
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		temp, err = a.sensor.Temperature(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		humidity, err = a.sensor.Humidity(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		power, err = a.sensor.Power(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return SensorReading{}, apperrors.Wrap(apperrors.CodeDegraded, "live sensor read failed", err)
	}

	return SensorReading{
		TempC:      temp.Celsius,
		TempF:      temp.Fahrenheit,
		Humidity:   humidity,
		Battery:    power.Battery,
		IsCharging: power.External,
		UpdatedAt:  a.now(),
	}, nil
}

func (a *SensorAction) renderLive(r SensorReading) string {
	return fmt.Sprintf("It's currently %s with %.0f%% humidity. %s",
		temperatures(r), r.Humidity, a.batteryStatus(r))
}

func (a *SensorAction) renderFallback(r SensorReading) string {
	return fmt.Sprintf("I couldn't reach the sensor, so here are the previous readings instead, recorded %s: it was %s with %.0f%% humidity. %s",
		staleness(r.UpdatedAt, a.now()), temperatures(r), r.Humidity, a.batteryStatus(r))
}

func (a *SensorAction) batteryStatus(r SensorReading) string {
	switch {
	case r.IsCharging:
		return fmt.Sprintf("The sensor is charging, battery at %d%%.", r.Battery)
	case IsLowBattery(r, a.cfg.LowBatteryPercent):
		return fmt.Sprintf("Heads up, the sensor battery is low at %d%%. Please charge it soon.", r.Battery)
	default:
		return fmt.Sprintf("The sensor battery is at %d%%.", r.Battery)
	}
}

// IsLowBattery reports a battery at or below the threshold that is not externally powered.
func IsLowBattery(r SensorReading, threshold int) bool {
	return !r.IsCharging && r.Battery <= threshold
}

func temperatures(r SensorReading) string {
	return fmt.Sprintf("%.1f°C (%.1f°F)", r.TempC, r.TempF)
}

func staleness(updated, now time.Time) string {
	if updated.IsZero() {
		return "at an unknown time"
	}
	return humanize.RelTime(updated, now, "ago", "from now")
}
