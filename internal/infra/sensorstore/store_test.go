package sensorstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/assistant-actions/internal/domain/device"
	"github.com/yanqian/assistant-actions/internal/infra/config"
	apperrors "github.com/yanqian/assistant-actions/pkg/errors"
)

func TestFileStoreLoadsRecordWrittenByIngest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen3_ht_data.json")
	raw := `{
    "updatedAt": "2024-05-01T10:15:30.123456-07:00",
    "tC": 21.4,
    "tF": 70.5,
    "rh": 44,
    "battery": 76,
    "isCharging": false
}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	reading, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 21.4, reading.TempC)
	require.Equal(t, 70.5, reading.TempF)
	require.Equal(t, 44.0, reading.Humidity)
	require.Equal(t, 76, reading.Battery)
	require.False(t, reading.IsCharging)
	require.Equal(t, 2024, reading.UpdatedAt.Year())
	require.Equal(t, 17, reading.UpdatedAt.UTC().Hour())
}

func TestFileStoreSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "record.json")
	store := NewFileStore(path)
	want := device.SensorReading{
		TempC:      19,
		TempF:      66.2,
		Humidity:   51.5,
		Battery:    20,
		IsCharging: true,
		UpdatedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, store.Save(context.Background(), want))
	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are cleaned up")
}

func TestFileStoreMissing(t *testing.T) {
	_, err := NewFileStore(filepath.Join(t.TempDir(), "missing.json")).Load(context.Background())
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tC":`), 0o644))
	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "account.r2.cloudflarestorage.com", sanitizeEndpoint("https://account.r2.cloudflarestorage.com/bucket"))
	require.Equal(t, "localhost:9000", sanitizeEndpoint("http://localhost:9000"))
	require.Equal(t, "minio:9000", sanitizeEndpoint(" minio:9000 "))
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store("localhost:9000", "key", "secret", "", "", "", nil)
	require.Error(t, err)
}

func TestOpenSelectsBackend(t *testing.T) {
	store, err := Open(config.FallbackConfig{Backend: "file", Path: "x.json"}, nil)
	require.NoError(t, err)
	require.IsType(t, &FileStore{}, store)

	_, err = Open(config.FallbackConfig{Backend: "ftp"}, nil)
	require.Error(t, err)
}
