package weather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/assistant-actions/internal/domain/action"
	apperrors "github.com/yanqian/assistant-actions/pkg/errors"
)

const (
	EntityLocation  = "location"
	EntityTimeOfDay = "time_of_day"

	unavailableMessage = "Sorry, I can't get that information right now. Please try again later."
)

func notFoundMessage(location string) string {
	return fmt.Sprintf("Hmm, I couldn't find anywhere called %s. Are you sure %s exists?", location, location)
}

// failureReply turns a provider error into the user-facing sentence.
func failureReply(logger *slog.Logger, location string, err error) action.Result {
	var d action.Dispatcher
	if apperrors.IsCode(err, apperrors.CodeNotFound) {
		logger.Info("location not found", "location", location)
		d.Utter(notFoundMessage(location))
		return d.Result()
	}
	logger.Warn("weather provider unavailable", "location", location, "error", err)
	d.Utter(unavailableMessage)
	return d.Result()
}

// CurrentWeatherAction reports the current conditions at a place.
type CurrentWeatherAction struct {
	cfg      Config
	provider Provider
	logger   *slog.Logger
}

// NewCurrentWeatherAction builds the weather action.
func NewCurrentWeatherAction(cfg Config, provider Provider, logger *slog.Logger) *CurrentWeatherAction {
	return &CurrentWeatherAction{cfg: cfg, provider: provider, logger: logger.With("component", "weather.current")}
}

func (a *CurrentWeatherAction) Name() string { return "action_get_weather" }

func (a *CurrentWeatherAction) Run(ctx context.Context, req action.Request) (action.Result, error) {
	location := req.EntityOr(EntityLocation, a.cfg.DefaultLocation)

	snapshot, err := a.provider.FetchCurrentWeather(ctx, location)
	if err != nil {
		return failureReply(a.logger, location, err), nil
	}

	place := placeName(snapshot, location)
	text := fmt.Sprintf(
		"Right now in %s it's %d°F with %s. Expect a low of %d°F and a high of %d°F. Cloud cover is at %d%% and visibility is %.1f miles.",
		place,
		RoundHalfUp(snapshot.Temp),
		describe(snapshot.Description),
		RoundHalfUp(snapshot.TempMin),
		RoundHalfUp(snapshot.TempMax),
		snapshot.Clouds,
		metersToMiles(snapshot.Visibility),
	)

	var d action.Dispatcher
	d.UtterImage(text, iconURL(a.cfg.IconURL, snapshot.Icon))
	return d.Result(), nil
}

func describe(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return "no particular conditions"
	}
	return strings.ToLower(description)
}

// LocalTimeAction reports the wall time at a place.
type LocalTimeAction struct {
	cfg      Config
	provider Provider
	clock    ClockProvider
	logger   *slog.Logger
}

// NewLocalTimeAction builds the time action.
func NewLocalTimeAction(cfg Config, provider Provider, clock ClockProvider, logger *slog.Logger) *LocalTimeAction {
	return &LocalTimeAction{cfg: cfg, provider: provider, clock: clock, logger: logger.With("component", "weather.time")}
}

func (a *LocalTimeAction) Name() string { return "action_get_time" }

func (a *LocalTimeAction) Run(ctx context.Context, req action.Request) (action.Result, error) {
	location := req.EntityOr(EntityLocation, a.cfg.DefaultLocation)

	coords, err := a.provider.ResolveCoordinates(ctx, location)
	if err != nil {
		return failureReply(a.logger, location, err), nil
	}
	reading, err := a.clock.FetchTime(ctx, coords)
	if err != nil {
		return failureReply(a.logger, location, err), nil
	}

	place := coords.Name
	if place == "" {
		place = location
	}
	var d action.Dispatcher
	d.Utter(fmt.Sprintf("In %s it's %s, %s and the time is %s.", place, reading.Weekday(), reading.LongDate(), reading.TwelveHourClock()))
	return d.Result(), nil
}

// DayNightAction answers whether it is currently day or night at a place.
type DayNightAction struct {
	cfg      Config
	provider Provider
	clock    ClockProvider
	logger   *slog.Logger
}

// NewDayNightAction builds the day/night action.
func NewDayNightAction(cfg Config, provider Provider, clock ClockProvider, logger *slog.Logger) *DayNightAction {
	return &DayNightAction{cfg: cfg, provider: provider, clock: clock, logger: logger.With("component", "weather.daynight")}
}

func (a *DayNightAction) Name() string { return "action_day_or_night" }

func (a *DayNightAction) Run(ctx context.Context, req action.Request) (action.Result, error) {
	location := req.EntityOr(EntityLocation, a.cfg.DefaultLocation)

	snapshot, err := a.provider.FetchCurrentWeather(ctx, location)
	if err != nil {
		return failureReply(a.logger, location, err), nil
	}
	reading, err := a.clock.FetchTime(ctx, snapshot.Coordinates)
	if err != nil {
		return failureReply(a.logger, location, err), nil
	}

	sunrise, sunset := LocalWindow(snapshot)
	daytime := IsDaytime(sunrise, sunset, reading.UnixTime())
	a.logger.Debug("day/night computed", "location", location, "sunrise", sunrise, "sunset", sunset, "local", reading.UnixTime(), "daytime", daytime)

	phase := "nighttime"
	if daytime {
		phase = "daytime"
	}
	place := placeName(snapshot, location)
	clockText := reading.TwelveHourClock()

	var text string
	switch parseAssertion(req.EntityOr(EntityTimeOfDay, "")) {
	case assertDay:
		text = confirmOrContradict(daytime, phase, place, clockText)
	case assertNight:
		text = confirmOrContradict(!daytime, phase, place, clockText)
	default:
		text = fmt.Sprintf("It's currently %s in %s (it's %s there).", phase, place, clockText)
	}

	var d action.Dispatcher
	d.Utter(text)
	return d.Result(), nil
}

func confirmOrContradict(agrees bool, phase, place, clockText string) string {
	if agrees {
		return fmt.Sprintf("Yes, it's %s in %s right now (it's %s there).", phase, place, clockText)
	}
	return fmt.Sprintf("No, it's actually %s in %s right now (it's %s there).", phase, place, clockText)
}

type assertion int

const (
	assertNone assertion = iota
	assertDay
	assertNight
)

func parseAssertion(value string) assertion {
	switch strings.ToLower(strings.Join(strings.Fields(value), "")) {
	case "day", "daytime", "daylight", "morning", "afternoon", "light", "sunny":
		return assertDay
	case "night", "nighttime", "evening", "dark", "midnight":
		return assertNight
	default:
		return assertNone
	}
}
