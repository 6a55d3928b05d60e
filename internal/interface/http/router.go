package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/assistant-actions/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *ActionHandler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.CORSOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/health", handler.Health)

	secured := router.Group("/")
	secured.Use(
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
		authMiddleware(cfg.HTTP.Auth.Secret, handler.logger),
	)
	{
		secured.POST("/webhook", handler.Webhook)
		secured.GET("/actions", handler.Actions)
		secured.GET("/invocations", handler.Invocations)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"caller", callerSubject(c),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}
