package sensorstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yanqian/assistant-actions/internal/domain/device"
	apperrors "github.com/yanqian/assistant-actions/pkg/errors"
)

// FileStore keeps the last sensor reading in a local JSON file.
type FileStore struct {
	path string
}

// NewFileStore builds a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads a fresh copy of the record on every call.
func (s *FileStore) Load(ctx context.Context) (device.SensorReading, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return device.SensorReading{}, apperrors.Wrap(apperrors.CodeNotFound, "no sensor record at "+s.path, err)
		}
		return device.SensorReading{}, fmt.Errorf("read sensor record: %w", err)
	}
	return decode(data)
}

// Save replaces the record. The file is written to a sibling temp file then renamed.
func (s *FileStore) Save(ctx context.Context, reading device.SensorReading) error {
	data, err := encode(reading)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create sensor record dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".sensor-*.json")
	if err != nil {
		return fmt.Errorf("create temp sensor record: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp sensor record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp sensor record: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace sensor record: %w", err)
	}
	return nil
}

func decode(data []byte) (device.SensorReading, error) {
	var reading device.SensorReading
	if err := json.Unmarshal(data, &reading); err != nil {
		return device.SensorReading{}, fmt.Errorf("decode sensor record: %w", err)
	}
	return reading, nil
}

func encode(reading device.SensorReading) ([]byte, error) {
	data, err := json.MarshalIndent(reading, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode sensor record: %w", err)
	}
	return data, nil
}
