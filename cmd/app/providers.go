package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/assistant-actions/internal/domain/action"
	"github.com/yanqian/assistant-actions/internal/domain/conversation"
	"github.com/yanqian/assistant-actions/internal/domain/device"
	"github.com/yanqian/assistant-actions/internal/domain/joke"
	"github.com/yanqian/assistant-actions/internal/domain/manga"
	"github.com/yanqian/assistant-actions/internal/domain/weather"
	"github.com/yanqian/assistant-actions/internal/infra/config"
	"github.com/yanqian/assistant-actions/internal/infra/invocationrepo"
	"github.com/yanqian/assistant-actions/internal/infra/jokeapi"
	"github.com/yanqian/assistant-actions/internal/infra/llm/mistral"
	"github.com/yanqian/assistant-actions/internal/infra/llm/tokenizer"
	"github.com/yanqian/assistant-actions/internal/infra/mangadex"
	"github.com/yanqian/assistant-actions/internal/infra/openweather"
	"github.com/yanqian/assistant-actions/internal/infra/sensorstore"
	"github.com/yanqian/assistant-actions/internal/infra/shelly"
	"github.com/yanqian/assistant-actions/internal/infra/timeapi"
	"github.com/yanqian/assistant-actions/internal/infra/tokencache"
	httpiface "github.com/yanqian/assistant-actions/internal/interface/http"
	"github.com/yanqian/assistant-actions/pkg/util"
)

const memoryInvocationCapacity = 500

func provideNow() util.NowFunc {
	return util.NowUTC
}

func provideActionConfig(cfg *config.Config) action.Config {
	return action.Config{Timeout: cfg.Actions.Timeout}
}

func provideWeatherConfig(cfg *config.Config) weather.Config {
	return weather.Config{
		DefaultLocation: cfg.Weather.DefaultLocation,
		IconURL:         cfg.Weather.IconURL,
	}
}

func provideMangaConfig(cfg *config.Config) manga.Config {
	return manga.Config{
		DefaultLimit: cfg.Manga.Limit,
		MaxLimit:     cfg.Manga.MaxLimit,
		SiteURL:      cfg.Manga.SiteURL,
	}
}

func provideConversationConfig(cfg *config.Config) conversation.Config {
	return conversation.Config{HistoryTokenBudget: cfg.LLM.HistoryTokenBudget}
}

func provideDeviceConfig(cfg *config.Config) device.Config {
	return device.Config{LowBatteryPercent: cfg.Devices.LowBatteryPercent}
}

func provideWeatherClient(cfg *config.Config) *openweather.Client {
	return openweather.NewClient(cfg.Weather.APIKey, cfg.Weather.GeocodeURL, cfg.Weather.WeatherURL, cfg.Outbound.Timeout)
}

func provideClockClient(cfg *config.Config) *timeapi.Client {
	return timeapi.NewClient(cfg.Clock.BaseURL, cfg.Outbound.Timeout)
}

func provideJokeClient(cfg *config.Config) *jokeapi.Client {
	return jokeapi.NewClient(cfg.Joke.BaseURL, cfg.Outbound.Timeout)
}

// The plug and the H&T sensor are separate devices with their own addresses.
func providePlug(cfg *config.Config) device.Plug {
	return shelly.NewClient(cfg.Devices.PlugAddress, cfg.Devices.Timeout)
}

func provideSensor(cfg *config.Config) device.Sensor {
	return shelly.NewClient(cfg.Devices.SensorAddress, cfg.Devices.Timeout)
}

func provideFallbackStore(cfg *config.Config, logger *slog.Logger) (device.FallbackStore, error) {
	store, err := sensorstore.Open(cfg.Fallback, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("sensor fallback store ready", "backend", cfg.Fallback.Backend)
	return store, nil
}

func provideTokenCache(cfg *config.Config, logger *slog.Logger) tokencache.Cache {
	if !cfg.Manga.TokenCache.Enabled {
		return tokencache.NewMemoryCache()
	}
	opt, err := buildValkeyOptions(cfg.Manga.TokenCache.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory token cache", "error", err)
		return tokencache.NewMemoryCache()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory token cache", "error", err)
		return tokencache.NewMemoryCache()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory token cache", "error", err)
		client.Close()
		return tokencache.NewMemoryCache()
	}
	logger.Info("mangadex valkey token cache enabled", "addr", cfg.Manga.TokenCache.Addr)
	return tokencache.NewValkeyCache(client, "tokens")
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideMangaClient(cfg *config.Config, cache tokencache.Cache, logger *slog.Logger) *mangadex.Client {
	return mangadex.NewClient(mangadex.Config{
		AuthURL:        cfg.Manga.AuthURL,
		APIURL:         cfg.Manga.APIURL,
		Username:       cfg.Manga.Username,
		Password:       cfg.Manga.Password,
		ClientID:       cfg.Manga.ClientID,
		ClientSecret:   cfg.Manga.ClientSecret,
		Languages:      cfg.Manga.Languages,
		ContentRatings: cfg.Manga.ContentRatings,
		Timeout:        cfg.Outbound.Timeout,
	}, cache, logger)
}

// provideReplier never fails: without an API key every reply is the fallback sentence.
func provideReplier(cfg *config.Config, logger *slog.Logger) conversation.Replier {
	replierCfg := mistral.ReplierConfig{
		Model:        cfg.LLM.Model,
		MaxTokens:    cfg.LLM.MaxTokens,
		Temperature:  cfg.LLM.Temperature,
		SystemPrompt: cfg.LLM.SystemPrompt,
	}
	client, err := mistral.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
	if err != nil {
		logger.Warn("llm client disabled, conversation will use the fallback reply", "error", err)
		return mistral.NewReplier(replierCfg, nil, logger)
	}
	return mistral.NewReplier(replierCfg, client, logger)
}

func provideTokenCounter(logger *slog.Logger) conversation.TokenCounter {
	return tokenizer.NewCounter("", logger)
}

func provideInvocationLog(cfg *config.Config, logger *slog.Logger) action.InvocationLog {
	fallback := invocationrepo.NewMemoryRepository(memoryInvocationCapacity)
	pg := cfg.Invocations.Postgres
	dsn := strings.TrimSpace(pg.DSN)
	if dsn == "" {
		logger.Info("invocations postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if pg.MaxConns > 0 {
		poolConfig.MaxConns = pg.MaxConns
	}
	if pg.MinConns > 0 {
		poolConfig.MinConns = pg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	repo := invocationrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("invocation schema setup failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("invocations postgres repository enabled")
	return repo
}

func provideInvocationReader(log action.InvocationLog) httpiface.InvocationReader {
	return log
}

func provideRegistry(
	currentWeather *weather.CurrentWeatherAction,
	localTime *weather.LocalTimeAction,
	dayNight *weather.DayNightAction,
	tellJoke *joke.TellAction,
	mangaUpdates *manga.UpdatesAction,
	mangaDetails *manga.DetailsAction,
	converse *conversation.ConverseAction,
	toggle *device.SwitchAction,
	sensor *device.SensorAction,
) (*action.Registry, error) {
	return action.NewRegistry(
		currentWeather,
		localTime,
		dayNight,
		tellJoke,
		mangaUpdates,
		mangaDetails,
		converse,
		toggle,
		sensor,
	)
}
