//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/assistant-actions/internal/bootstrap"
	"github.com/yanqian/assistant-actions/internal/domain/action"
	"github.com/yanqian/assistant-actions/internal/domain/conversation"
	"github.com/yanqian/assistant-actions/internal/domain/device"
	"github.com/yanqian/assistant-actions/internal/domain/joke"
	"github.com/yanqian/assistant-actions/internal/domain/manga"
	"github.com/yanqian/assistant-actions/internal/domain/weather"
	"github.com/yanqian/assistant-actions/internal/infra/config"
	"github.com/yanqian/assistant-actions/internal/infra/jokeapi"
	"github.com/yanqian/assistant-actions/internal/infra/mangadex"
	"github.com/yanqian/assistant-actions/internal/infra/openweather"
	"github.com/yanqian/assistant-actions/internal/infra/timeapi"
	httpiface "github.com/yanqian/assistant-actions/internal/interface/http"
	"github.com/yanqian/assistant-actions/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideNow,
		provideActionConfig,
		provideWeatherConfig,
		provideMangaConfig,
		provideConversationConfig,
		provideDeviceConfig,
		provideWeatherClient,
		provideClockClient,
		provideJokeClient,
		providePlug,
		provideSensor,
		provideFallbackStore,
		provideTokenCache,
		provideMangaClient,
		provideReplier,
		provideTokenCounter,
		provideInvocationLog,
		provideInvocationReader,
		provideRegistry,
		weather.NewCurrentWeatherAction,
		weather.NewLocalTimeAction,
		weather.NewDayNightAction,
		joke.NewTellAction,
		manga.NewUpdatesAction,
		manga.NewDetailsAction,
		conversation.NewConverseAction,
		device.NewSwitchAction,
		device.NewSensorAction,
		action.NewExecutor,
		wire.Bind(new(weather.Provider), new(*openweather.Client)),
		wire.Bind(new(weather.ClockProvider), new(*timeapi.Client)),
		wire.Bind(new(joke.Provider), new(*jokeapi.Client)),
		wire.Bind(new(manga.Feed), new(*mangadex.Client)),
		wire.Bind(new(httpiface.ActionExecutor), new(*action.Executor)),
		httpiface.NewActionHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
