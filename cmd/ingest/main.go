package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/yanqian/assistant-actions/internal/infra/config"
	"github.com/yanqian/assistant-actions/internal/infra/mqtt"
	"github.com/yanqian/assistant-actions/internal/infra/sensorstore"
	"github.com/yanqian/assistant-actions/pkg/logger"
)

const handleTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("ingest stopped with error: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appLogger := logger.New().With("component", "ingest")

	deviceID := strings.TrimSpace(cfg.MQTT.DeviceID)
	if deviceID == "" {
		return errors.New("mqtt.deviceId (SHELLY_HT_DEVICE_ID) is required")
	}

	store, err := sensorstore.Open(cfg.Fallback, appLogger)
	if err != nil {
		return err
	}
	ingestor := mqtt.NewIngestor(store, appLogger)

	client, err := mqtt.Connect(cfg.MQTT.Broker, cfg.MQTT.ClientID, appLogger)
	if err != nil {
		return err
	}
	defer client.Close()

	err = client.SubscribeAll(mqtt.Topics(deviceID), func(topic string, payload []byte) {
		handleCtx, cancel := context.WithTimeout(ctx, handleTimeout)
		defer cancel()
		if err := ingestor.Handle(handleCtx, topic, payload); err != nil {
			appLogger.Error("sensor message rejected", "topic", topic, "error", err)
		}
	})
	if err != nil {
		return err
	}

	appLogger.Info("listening for sensor status", "device", deviceID, "backend", cfg.Fallback.Backend)
	<-ctx.Done()
	appLogger.Info("shutdown signal received")
	return nil
}
