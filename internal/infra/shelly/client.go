package shelly

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

	"github.com/yanqian/assistant-actions/internal/domain/device"
	apperrors "github.com/yanqian/assistant-actions/pkg/errors"
)

// Client talks to a Gen2+ Shelly device over its local RPC-over-HTTP interface.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the device at address ("192.168.1.20" or "http://plug.lan").
func NewClient(address string, timeout time.Duration) *Client {
	address = strings.TrimSpace(address)
	if address != "" && !strings.Contains(address, "://") {
		address = "http://" + address
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(address, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetSwitch turns relay 0 on or off.
func (c *Client) SetSwitch(ctx context.Context, on bool) error {
	params := url.Values{}
	params.Set("id", "0")
	params.Set("on", strconv.FormatBool(on))
	return c.call(ctx, "Switch.Set", params, nil)
}

// TemperatureStatus is the Temperature.GetStatus payload.
type TemperatureStatus struct {
	ID int     `json:"id"`
	TC float64 `json:"tC"`
	TF float64 `json:"tF"`
}

// HumidityStatus is the Humidity.GetStatus payload.
type HumidityStatus struct {
	ID int     `json:"id"`
	RH float64 `json:"rh"`
}

// DevicePowerStatus is the DevicePower.GetStatus payload.
type DevicePowerStatus struct {
	ID      int `json:"id"`
	Battery struct {
		V       float64 `json:"V"`
		Percent int     `json:"percent"`
	} `json:"battery"`
	External struct {
		Present bool `json:"present"`
	} `json:"external"`
}

// Temperature reads temperature component 0.
func (c *Client) Temperature(ctx context.Context) (device.Temperature, error) {
	var status TemperatureStatus
	if err := c.call(ctx, "Temperature.GetStatus", componentZero(), &status); err != nil {
		return device.Temperature{}, err
	}
	return device.Temperature{Celsius: status.TC, Fahrenheit: status.TF}, nil
}

// Humidity reads humidity component 0.
func (c *Client) Humidity(ctx context.Context) (float64, error) {
	var status HumidityStatus
	if err := c.call(ctx, "Humidity.GetStatus", componentZero(), &status); err != nil {
		return 0, err
	}
	return status.RH, nil
}

// Power reads device power component 0.
func (c *Client) Power(ctx context.Context) (device.Power, error) {
	var status DevicePowerStatus
	if err := c.call(ctx, "DevicePower.GetStatus", componentZero(), &status); err != nil {
		return device.Power{}, err
	}
	return device.Power{Battery: status.Battery.Percent, External: status.External.Present}, nil
}

func componentZero() url.Values {
	return url.Values{"id": []string{"0"}}
}

func (c *Client) call(ctx context.Context, method string, params url.Values, dst any) error {
	if c.baseURL == "" {
		return apperrors.Wrap(apperrors.CodeTransport, "shelly device address not configured", nil)
	}
	endpoint := fmt.Sprintf("%s/rpc/%s?%s", c.baseURL, method, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransport, "build shelly request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransport, "shelly "+method+" failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return apperrors.Wrap(apperrors.CodeTransport, "shelly "+method+" error", fmt.Errorf("status=%d body=%s", resp.StatusCode, string(payload)))
	}
	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.CodeTransport, "decode shelly "+method, err)
	}
	return nil
}
