package timeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/assistant-actions/internal/domain/clock"
	"github.com/yanqian/assistant-actions/internal/domain/weather"
	apperrors "github.com/yanqian/assistant-actions/pkg/errors"
)

const defaultBaseURL = "https://timeapi.io/api/Time/current/coordinate"

// Client reads the local wall time at a coordinate from timeapi.io. It is keyless.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a remote clock client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchTime performs one request; every derivation afterwards works on the returned Reading.
func (c *Client) FetchTime(ctx context.Context, coords weather.Coordinates) (clock.Reading, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(coords.Lon, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return clock.Reading{}, apperrors.Wrap(apperrors.CodeTransport, "build clock request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return clock.Reading{}, apperrors.Wrap(apperrors.CodeTransport, "clock request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return clock.Reading{}, apperrors.Wrap(apperrors.CodeTransport, "clock request error", fmt.Errorf("status=%d body=%s", resp.StatusCode, string(payload)))
	}

	var body struct {
		DateTime string `json:"dateTime"`
		TimeZone string `json:"timeZone"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return clock.Reading{}, apperrors.Wrap(apperrors.CodeTransport, "decode clock response", err)
	}

	reading, err := clock.ParseReading(body.DateTime)
	if err != nil {
		return clock.Reading{}, apperrors.Wrap(apperrors.CodeTransport, "unexpected clock timestamp", err)
	}
	return reading, nil
}
