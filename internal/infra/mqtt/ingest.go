package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/yanqian/assistant-actions/internal/domain/device"
	"github.com/yanqian/assistant-actions/internal/infra/sensorstore"
	"github.com/yanqian/assistant-actions/internal/infra/shelly"
	apperrors "github.com/yanqian/assistant-actions/pkg/errors"
)

// Topics returns the H&T status topics for a device id.
func Topics(deviceID string) []string {
	return []string{
		deviceID + "/status/temperature:0",
		deviceID + "/status/humidity:0",
		deviceID + "/status/devicepower:0",
	}
}

// Ingestor merges status messages into the fallback record.
type Ingestor struct {
	mu     sync.Mutex
	store  sensorstore.Store
	now    func() time.Time
	logger *slog.Logger
}

// NewIngestor builds an ingestor writing to store.
func NewIngestor(store sensorstore.Store, logger *slog.Logger) *Ingestor {
	return &Ingestor{store: store, now: time.Now, logger: logger.With("component", "mqtt.ingest")}
}

// Handle applies one message: load, merge, stamp updatedAt, save.
func (i *Ingestor) Handle(ctx context.Context, topic string, payload []byte) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	record, err := i.store.Load(ctx)
	if err != nil && !apperrors.IsCode(err, apperrors.CodeNotFound) {
		return fmt.Errorf("load sensor record: %w", err)
	}

	applied, err := Apply(&record, topic, payload)
	if err != nil {
		return err
	}
	if !applied {
		i.logger.Debug("ignoring unrelated topic", "topic", topic)
		return nil
	}
	record.UpdatedAt = i.now()

	if err := i.store.Save(ctx, record); err != nil {
		return fmt.Errorf("save sensor record: %w", err)
	}
	i.logger.Info("sensor record updated", "topic", topic, "tC", record.TempC, "rh", record.Humidity, "battery", record.Battery)
	return nil
}

// Apply merges a status payload into record based on the topic. It reports false for
// topics that carry none of the tracked components.
func Apply(record *device.SensorReading, topic string, payload []byte) (bool, error) {
	switch {
	case strings.Contains(topic, "devicepower"):
		var status shelly.DevicePowerStatus
		if err := json.Unmarshal(payload, &status); err != nil {
			return false, fmt.Errorf("decode devicepower status: %w", err)
		}
		record.Battery = status.Battery.Percent
		record.IsCharging = status.External.Present
	case strings.Contains(topic, "temperature"):
		var status shelly.TemperatureStatus
		if err := json.Unmarshal(payload, &status); err != nil {
			return false, fmt.Errorf("decode temperature status: %w", err)
		}
		record.TempC = status.TC
		record.TempF = status.TF
	case strings.Contains(topic, "humidity"):
		var status shelly.HumidityStatus
		if err := json.Unmarshal(payload, &status); err != nil {
			return false, fmt.Errorf("decode humidity status: %w", err)
		}
		record.Humidity = status.RH
	default:
		return false, nil
	}
	return true, nil
}
