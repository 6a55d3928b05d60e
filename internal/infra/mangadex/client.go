package mangadex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/yanqian/assistant-actions/internal/domain/manga"
	"github.com/yanqian/assistant-actions/internal/infra/tokencache"
)

const (
	defaultAuthURL = "https://auth.mangadex.org/realms/mangadex/protocol/openid-connect/token"
	defaultAPIURL  = "https://api.mangadex.org"
	tokenLeeway    = 30 * time.Second
)

// Config carries MangaDex personal client credentials and feed filters.
type Config struct {
	AuthURL        string
	APIURL         string
	Username       string
	Password       string
	ClientID       string
	ClientSecret   string
	Languages      []string
	ContentRatings []string
	Timeout        time.Duration
}

// Client reads the followed-manga chapter feed.
type Client struct {
	cfg        Config
	oauth      *oauth2.Config
	cache      tokencache.Cache
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// NewClient builds a MangaDex client. A nil cache disables token reuse.
func NewClient(cfg Config, cache tokencache.Cache, logger *slog.Logger) *Client {
	if strings.TrimSpace(cfg.AuthURL) == "" {
		cfg.AuthURL = defaultAuthURL
	}
	if strings.TrimSpace(cfg.APIURL) == "" {
		cfg.APIURL = defaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"en"}
	}
	if len(cfg.ContentRatings) == 0 {
		cfg.ContentRatings = []string{"safe", "suggestive"}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cache == nil {
		cache = tokencache.NewMemoryCache()
	}
	return &Client{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.AuthURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		cache:      cache,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("component", "mangadex.client"),
		now:        time.Now,
	}
}

// FollowedFeed returns the newest chapters of followed series. Token or feed failures are
// logged and reported as manga.FeedUnavailable.
func (c *Client) FollowedFeed(ctx context.Context, limit int) manga.FeedResult {
	token, err := c.token(ctx)
	if err != nil {
		c.logger.Error("mangadex token exchange failed", "error", err)
		return manga.Unavailable()
	}

	start := c.now()
	entries, err := c.fetchFeed(ctx, token, limit)
	if err != nil {
		c.logger.Error("mangadex feed request failed", "error", err)
		return manga.Unavailable()
	}
	c.logger.Debug("mangadex feed fetched", "entries", len(entries), "elapsed_ms", c.now().Sub(start).Milliseconds())
	return manga.NewFeedResult(entries)
}

func (c *Client) token(ctx context.Context) (*oauth2.Token, error) {
	key := "mangadex:" + c.cfg.Username
	if cached, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("token cache read failed", "error", err)
	} else if ok && cached.Valid() {
		return cached, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.oauth.PasswordCredentialsToken(ctx, c.cfg.Username, c.cfg.Password)
	if err != nil {
		return nil, err
	}
	if !token.Expiry.IsZero() {
		ttl := token.Expiry.Sub(c.now()) - tokenLeeway
		if err := c.cache.Set(ctx, key, token, ttl); err != nil {
			c.logger.Warn("token cache write failed", "error", err)
		}
	}
	return token, nil
}

func (c *Client) feedURL(limit int) string {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", "0")
	params.Add("includes[]", "manga")
	for _, rating := range c.cfg.ContentRatings {
		params.Add("contentRating[]", rating)
	}
	for _, lang := range c.cfg.Languages {
		params.Add("translatedLanguage[]", lang)
	}
	params.Set("order[readableAt]", "desc")
	return c.cfg.APIURL + "/user/follows/manga/feed?" + params.Encode()
}

func (c *Client) fetchFeed(ctx context.Context, token *oauth2.Token, limit int) ([]manga.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL(limit), nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	token.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("feed request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}
	if body.Result != "" && body.Result != "ok" {
		return nil, fmt.Errorf("feed response result=%s", body.Result)
	}

	entries := make([]manga.Entry, 0, len(body.Data))
	for _, ch := range body.Data {
		entries = append(entries, ch.toEntry())
	}
	return entries, nil
}
