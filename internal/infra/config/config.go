package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Actions     ActionsConfig     `yaml:"actions"`
	Outbound    OutboundConfig    `yaml:"outbound"`
	Weather     WeatherConfig     `yaml:"weather"`
	Clock       ClockConfig       `yaml:"clock"`
	Joke        JokeConfig        `yaml:"joke"`
	Manga       MangaConfig       `yaml:"manga"`
	LLM         LLMConfig         `yaml:"llm"`
	Devices     DevicesConfig     `yaml:"devices"`
	Fallback    FallbackConfig    `yaml:"fallback"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	Invocations InvocationsConfig `yaml:"invocations"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	Auth         AuthConfig      `yaml:"auth"`
	CORSOrigins  []string        `yaml:"corsOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// AuthConfig enables bearer token checks on the webhook. Empty secret disables it.
type AuthConfig struct {
	Secret string `yaml:"secret"`
}

// ActionsConfig bounds a single action invocation.
type ActionsConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// OutboundConfig is the default for third-party HTTP clients.
type OutboundConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// WeatherConfig contains OpenWeatherMap settings.
type WeatherConfig struct {
	APIKey          string `yaml:"apiKey"`
	GeocodeURL      string `yaml:"geocodeUrl"`
	WeatherURL      string `yaml:"weatherUrl"`
	IconURL         string `yaml:"iconUrl"`
	DefaultLocation string `yaml:"defaultLocation"`
}

// ClockConfig points at the keyless remote clock provider.
type ClockConfig struct {
	BaseURL string `yaml:"baseUrl"`
}

// JokeConfig points at JokeAPI.
type JokeConfig struct {
	BaseURL string `yaml:"baseUrl"`
}

// MangaConfig contains MangaDex credentials and feed filters.
type MangaConfig struct {
	AuthURL        string           `yaml:"authUrl"`
	APIURL         string           `yaml:"apiUrl"`
	SiteURL        string           `yaml:"siteUrl"`
	Username       string           `yaml:"username"`
	Password       string           `yaml:"password"`
	ClientID       string           `yaml:"clientId"`
	ClientSecret   string           `yaml:"clientSecret"`
	Limit          int              `yaml:"limit"`
	MaxLimit       int              `yaml:"maxLimit"`
	Languages      []string         `yaml:"languages"`
	ContentRatings []string         `yaml:"contentRatings"`
	TokenCache     TokenCacheConfig `yaml:"tokenCache"`
}

// TokenCacheConfig selects the valkey token cache; memory is used otherwise.
type TokenCacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LLMConfig contains chat completion settings.
type LLMConfig struct {
	APIKey             string        `yaml:"apiKey"`
	BaseURL            string        `yaml:"baseUrl"`
	Model              string        `yaml:"model"`
	MaxTokens          int           `yaml:"maxTokens"`
	Temperature        float32       `yaml:"temperature"`
	SystemPrompt       string        `yaml:"systemPrompt"`
	HistoryTokenBudget int           `yaml:"historyTokenBudget"`
	Timeout            time.Duration `yaml:"timeout"`
}

// DevicesConfig locates the Shelly plug and H&T sensor on the local network.
type DevicesConfig struct {
	PlugAddress       string        `yaml:"plugAddress"`
	SensorAddress     string        `yaml:"sensorAddress"`
	Timeout           time.Duration `yaml:"timeout"`
	LowBatteryPercent int           `yaml:"lowBatteryPercent"`
}

// FallbackConfig selects where the last sensor reading lives.
type FallbackConfig struct {
	Backend string   `yaml:"backend"`
	Path    string   `yaml:"path"`
	S3      S3Config `yaml:"s3"`
}

// S3Config holds object storage coordinates for the fallback record.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	Region    string `yaml:"region"`
}

// MQTTConfig is only read by the ingest command.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	DeviceID string `yaml:"deviceId"`
	ClientID string `yaml:"clientId"`
}

// InvocationsConfig controls where action invocations are recorded.
type InvocationsConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

const (
	FallbackBackendFile = "file"
	FallbackBackendS3   = "s3"
)

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	setString(&cfg.HTTP.Auth.Secret, "ACTION_AUTH_SECRET")
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}

	setDuration(&cfg.Actions.Timeout, "ACTION_TIMEOUT")
	setDuration(&cfg.Outbound.Timeout, "OUTBOUND_TIMEOUT")

	setString(&cfg.Weather.APIKey, "OPENWEATHER_API_KEY")
	setString(&cfg.Weather.DefaultLocation, "DEFAULT_LOCATION")
	setString(&cfg.Weather.GeocodeURL, "OPENWEATHER_GEOCODE_URL")
	setString(&cfg.Weather.WeatherURL, "OPENWEATHER_WEATHER_URL")

	setString(&cfg.Clock.BaseURL, "CLOCK_BASE_URL")
	setString(&cfg.Joke.BaseURL, "JOKE_BASE_URL")

	setString(&cfg.Manga.Username, "MANGADEX_USERNAME")
	setString(&cfg.Manga.Password, "MANGADEX_PASSWORD")
	setString(&cfg.Manga.ClientID, "MANGADEX_CLIENT_ID")
	setString(&cfg.Manga.ClientSecret, "MANGADEX_CLIENT_SECRET")
	setInt(&cfg.Manga.Limit, "MANGADEX_FEED_LIMIT")
	setBool(&cfg.Manga.TokenCache.Enabled, "MANGADEX_TOKEN_CACHE_ENABLED")
	setString(&cfg.Manga.TokenCache.Addr, "MANGADEX_TOKEN_CACHE_ADDR")

	setString(&cfg.LLM.APIKey, "MISTRAL_API_KEY")
	setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	setString(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setInt(&cfg.LLM.MaxTokens, "LLM_MAX_TOKENS")
	setInt(&cfg.LLM.HistoryTokenBudget, "LLM_HISTORY_TOKEN_BUDGET")
	setDuration(&cfg.LLM.Timeout, "LLM_TIMEOUT")
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}

	setString(&cfg.Devices.PlugAddress, "SHELLY_PLUG_ADDRESS")
	setString(&cfg.Devices.SensorAddress, "SHELLY_HT_ADDRESS")
	setDuration(&cfg.Devices.Timeout, "DEVICE_TIMEOUT")
	setInt(&cfg.Devices.LowBatteryPercent, "LOW_BATTERY_PERCENT")

	setString(&cfg.Fallback.Backend, "FALLBACK_BACKEND")
	setString(&cfg.Fallback.Path, "FALLBACK_PATH")
	setString(&cfg.Fallback.S3.Endpoint, "FALLBACK_S3_ENDPOINT")
	setString(&cfg.Fallback.S3.AccessKey, "FALLBACK_S3_ACCESS_KEY")
	setString(&cfg.Fallback.S3.SecretKey, "FALLBACK_S3_SECRET_KEY")
	setString(&cfg.Fallback.S3.Bucket, "FALLBACK_S3_BUCKET")
	setString(&cfg.Fallback.S3.Key, "FALLBACK_S3_KEY")
	setString(&cfg.Fallback.S3.Region, "FALLBACK_S3_REGION")

	setString(&cfg.MQTT.Broker, "MQTT_BROKER")
	setString(&cfg.MQTT.DeviceID, "SHELLY_HT_DEVICE_ID")
	setString(&cfg.MQTT.ClientID, "MQTT_CLIENT_ID")

	setString(&cfg.Invocations.Postgres.DSN, "INVOCATIONS_POSTGRES_DSN")
	if v := os.Getenv("INVOCATIONS_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Invocations.Postgres.MaxConns = int32(parsed)
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":5055",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 45 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Actions: ActionsConfig{
			Timeout: 40 * time.Second,
		},
		Outbound: OutboundConfig{
			Timeout: 10 * time.Second,
		},
		Weather: WeatherConfig{
			GeocodeURL:      "https://api.openweathermap.org/geo/1.0/direct",
			WeatherURL:      "https://api.openweathermap.org/data/2.5/weather",
			IconURL:         "https://openweathermap.org/img/wn",
			DefaultLocation: "Los Angeles",
		},
		Clock: ClockConfig{
			BaseURL: "https://timeapi.io/api/Time/current/coordinate",
		},
		Joke: JokeConfig{
			BaseURL: "https://v2.jokeapi.dev/joke",
		},
		Manga: MangaConfig{
			AuthURL:        "https://auth.mangadex.org/realms/mangadex/protocol/openid-connect/token",
			APIURL:         "https://api.mangadex.org",
			SiteURL:        "https://mangadex.org",
			Limit:          5,
			MaxLimit:       20,
			Languages:      []string{"en"},
			ContentRatings: []string{"safe", "suggestive"},
		},
		LLM: LLMConfig{
			BaseURL:            "https://api.mistral.ai/v1",
			Model:              "mistral-tiny",
			MaxTokens:          200,
			Temperature:        0.7,
			SystemPrompt:       "You are a friendly home assistant. Keep answers short, conversational and under three sentences.",
			HistoryTokenBudget: 2000,
			Timeout:            30 * time.Second,
		},
		Devices: DevicesConfig{
			Timeout:           3 * time.Second,
			LowBatteryPercent: 25,
		},
		Fallback: FallbackConfig{
			Backend: FallbackBackendFile,
			Path:    "data/gen3_ht_data.json",
			S3: S3Config{
				Key: "gen3_ht_data.json",
			},
		},
		MQTT: MQTTConfig{
			Broker: "tcp://localhost:1883",
		},
		Invocations: InvocationsConfig{
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.Actions.Timeout <= 0 {
		return errors.New("actions.timeout must be positive")
	}
	if c.Outbound.Timeout <= 0 {
		return errors.New("outbound.timeout must be positive")
	}
	if strings.TrimSpace(c.Weather.DefaultLocation) == "" {
		return errors.New("weather.defaultLocation cannot be empty")
	}
	if c.Manga.Limit <= 0 {
		return errors.New("manga.limit must be positive")
	}
	if c.Manga.MaxLimit < c.Manga.Limit {
		return errors.New("manga.maxLimit cannot be smaller than manga.limit")
	}
	if c.Manga.TokenCache.Enabled && strings.TrimSpace(c.Manga.TokenCache.Addr) == "" {
		return errors.New("manga.tokenCache.addr cannot be empty when the token cache is enabled")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.maxTokens must be positive")
	}
	if strings.TrimSpace(c.LLM.SystemPrompt) == "" {
		return errors.New("llm.systemPrompt cannot be empty")
	}
	if c.LLM.HistoryTokenBudget < 0 {
		return errors.New("llm.historyTokenBudget cannot be negative")
	}
	if c.Devices.Timeout <= 0 {
		return errors.New("devices.timeout must be positive")
	}
	if c.Devices.LowBatteryPercent < 0 || c.Devices.LowBatteryPercent > 100 {
		return errors.New("devices.lowBatteryPercent must be between 0 and 100")
	}
	switch c.Fallback.Backend {
	case FallbackBackendFile:
		if strings.TrimSpace(c.Fallback.Path) == "" {
			return errors.New("fallback.path cannot be empty for the file backend")
		}
	case FallbackBackendS3:
		if strings.TrimSpace(c.Fallback.S3.Endpoint) == "" || strings.TrimSpace(c.Fallback.S3.Bucket) == "" {
			return errors.New("fallback.s3.endpoint and fallback.s3.bucket are required for the s3 backend")
		}
	default:
		return fmt.Errorf("fallback.backend %q is not supported", c.Fallback.Backend)
	}
	return nil
}
