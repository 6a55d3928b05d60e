package timeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/assistant-actions/internal/domain/weather"
	apperrors "github.com/yanqian/assistant-actions/pkg/errors"
)

func TestFetchTimeParsesSevenDigitFraction(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, "35.68", r.URL.Query().Get("latitude"))
		require.Equal(t, "139.69", r.URL.Query().Get("longitude"))
		_, _ = w.Write([]byte(`{"year":2024,"dateTime":"2024-01-24T11:27:22.5910482","timeZone":"Asia/Tokyo"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	reading, err := client.FetchTime(context.Background(), weather.Coordinates{Lat: 35.68, Lon: 139.69})
	require.NoError(t, err)

	require.Equal(t, "11:27 AM", reading.TwelveHourClock())
	require.Equal(t, int64(1706095642), reading.UnixTime())
	require.Equal(t, "Wednesday", reading.Weekday())
	// derivations reuse the reading
	require.EqualValues(t, 1, calls.Load())
}

func TestFetchTimeErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).FetchTime(context.Background(), weather.Coordinates{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeTransport))

	garbled := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"dateTime":"yesterday"}`))
	}))
	defer garbled.Close()

	_, err = NewClient(garbled.URL, time.Second).FetchTime(context.Background(), weather.Coordinates{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeTransport))
}
