package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yanqian/assistant-actions/internal/domain/weather"
	apperrors "github.com/yanqian/assistant-actions/pkg/errors"
)

const (
	defaultGeocodeURL = "https://api.openweathermap.org/geo/1.0/direct"
	defaultWeatherURL = "https://api.openweathermap.org/data/2.5/weather"
)

// Client resolves places and fetches current conditions from OpenWeatherMap.
type Client struct {
	apiKey     string
	geocodeURL string
	weatherURL string
	httpClient *http.Client
}

// NewClient builds an OpenWeatherMap client.
func NewClient(apiKey, geocodeURL, weatherURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(geocodeURL) == "" {
		geocodeURL = defaultGeocodeURL
	}
	if strings.TrimSpace(weatherURL) == "" {
		weatherURL = defaultWeatherURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		geocodeURL: strings.TrimRight(geocodeURL, "/"),
		weatherURL: strings.TrimRight(weatherURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ResolveCoordinates returns the first geocoding match for a free-text place name.
func (c *Client) ResolveCoordinates(ctx context.Context, query string) (weather.Coordinates, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "1")
	params.Set("appid", c.apiKey)

	var matches []geocodeMatch
	if err := c.getJSON(ctx, c.geocodeURL+"?"+params.Encode(), &matches); err != nil {
		return weather.Coordinates{}, err
	}
	if len(matches) == 0 {
		return weather.Coordinates{}, apperrors.Wrap(apperrors.CodeNotFound, fmt.Sprintf("no geocoding match for %q", query), nil)
	}

	m := matches[0]
	return weather.Coordinates{Name: m.Name, Lat: m.Lat, Lon: m.Lon}, nil
}

// FetchCurrentWeather geocodes the query then fetches current conditions in imperial units.
func (c *Client) FetchCurrentWeather(ctx context.Context, query string) (weather.Snapshot, error) {
	coords, err := c.ResolveCoordinates(ctx, query)
	if err != nil {
		return weather.Snapshot{}, err
	}

	params := url.Values{}
	params.Set("lat", formatCoord(coords.Lat))
	params.Set("lon", formatCoord(coords.Lon))
	params.Set("units", "imperial")
	params.Set("appid", c.apiKey)

	var raw currentWeather
	if err := c.getJSON(ctx, c.weatherURL+"?"+params.Encode(), &raw); err != nil {
		return weather.Snapshot{}, err
	}
	return raw.toSnapshot(coords), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransport, "build openweather request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransport, "openweather request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return apperrors.Wrap(apperrors.CodeTransport, "openweather request error", httpStatusError{status: resp.StatusCode, body: string(payload)})
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.CodeTransport, "decode openweather response", err)
	}
	return nil
}

type httpStatusError struct {
	status int
	body   string
}

func (e httpStatusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("status=%d", e.status)
	}
	return fmt.Sprintf("status=%d body=%s", e.status, e.body)
}

type geocodeMatch struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type currentWeather struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp    float64 `json:"temp"`
		TempMin float64 `json:"temp_min"`
		TempMax float64 `json:"temp_max"`
	} `json:"main"`
	Visibility int `json:"visibility"`
	Clouds     struct {
		All int `json:"all"`
	} `json:"clouds"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Timezone int `json:"timezone"`
}

func (w currentWeather) toSnapshot(coords weather.Coordinates) weather.Snapshot {
	place := coords.Name
	if place == "" {
		place = w.Name
	}
	snap := weather.Snapshot{
		Place:       place,
		Temp:        w.Main.Temp,
		TempMin:     w.Main.TempMin,
		TempMax:     w.Main.TempMax,
		Clouds:      w.Clouds.All,
		Visibility:  w.Visibility,
		UTCOffset:   w.Timezone,
		Sunrise:     w.Sys.Sunrise,
		Sunset:      w.Sys.Sunset,
		Coordinates: coords,
	}
	if len(w.Weather) > 0 {
		snap.Description = w.Weather[0].Description
		snap.Icon = w.Weather[0].Icon
	}
	return snap
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
