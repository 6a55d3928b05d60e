package jokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yanqian/assistant-actions/internal/domain/joke"
	apperrors "github.com/yanqian/assistant-actions/pkg/errors"
)

const defaultBaseURL = "https://v2.jokeapi.dev/joke"

// Client fetches jokes from JokeAPI v2.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a JokeAPI client.
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

type apiJoke struct {
	Error    bool     `json:"error"`
	Message  string   `json:"message"`
	Causedby []string `json:"causedBy"`
	Category string   `json:"category"`
	Type     string   `json:"type"`
	Joke     string   `json:"joke"`
	Setup    string   `json:"setup"`
	Delivery string   `json:"delivery"`
}

// Fetch returns one safe-mode joke from the category.
func (c *Client) Fetch(ctx context.Context, category string) (joke.Joke, error) {
	endpoint := fmt.Sprintf("%s/%s?safe-mode", c.baseURL, url.PathEscape(category))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return joke.Joke{}, apperrors.Wrap(apperrors.CodeTransport, "build joke request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return joke.Joke{}, apperrors.Wrap(apperrors.CodeTransport, "joke request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return joke.Joke{}, apperrors.Wrap(apperrors.CodeTransport, "read joke response", err)
	}

	var raw apiJoke
	decodeErr := json.Unmarshal(body, &raw)
	// JokeAPI reports rejected parameters as a JSON body with error=true, often with a 4xx status.
	if decodeErr == nil && raw.Error {
		return joke.Joke{}, apperrors.Wrap(apperrors.CodeProviderContent, "joke provider rejected request", fmt.Errorf("%s: %s", raw.Message, strings.Join(raw.Causedby, "; ")))
	}
	if resp.StatusCode >= 300 {
		return joke.Joke{}, apperrors.Wrap(apperrors.CodeTransport, "joke request error", fmt.Errorf("status=%d body=%s", resp.StatusCode, truncate(body, 4<<10)))
	}
	if decodeErr != nil {
		return joke.Joke{}, apperrors.Wrap(apperrors.CodeTransport, "decode joke response", decodeErr)
	}

	switch joke.Kind(raw.Type) {
	case joke.KindSingle:
		return joke.Joke{Category: raw.Category, Kind: joke.KindSingle, Text: raw.Joke}, nil
	case joke.KindTwoPart:
		return joke.Joke{Category: raw.Category, Kind: joke.KindTwoPart, Setup: raw.Setup, Delivery: raw.Delivery}, nil
	default:
		return joke.Joke{}, apperrors.Wrap(apperrors.CodeProviderContent, fmt.Sprintf("unexpected joke type %q", raw.Type), nil)
	}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
