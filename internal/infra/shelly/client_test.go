package shelly

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/assistant-actions/pkg/errors"
)

func TestSetSwitch(t *testing.T) {
	var gotPath, gotOn string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotOn = r.URL.Query().Get("on")
		_, _ = w.Write([]byte(`{"was_on":false}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	require.NoError(t, client.SetSwitch(context.Background(), true))
	require.Equal(t, "/rpc/Switch.Set", gotPath)
	require.Equal(t, "true", gotOn)
}

func TestSensorStatusCalls(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rpc/Temperature.GetStatus", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":0,"tC":21.4,"tF":70.5}`))
	})
	mux.HandleFunc("/rpc/Humidity.GetStatus", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":0,"rh":44.2}`))
	})
	mux.HandleFunc("/rpc/DevicePower.GetStatus", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":0,"battery":{"V":5.9,"percent":76},"external":{"present":true}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	ctx := context.Background()

	temp, err := client.Temperature(ctx)
	require.NoError(t, err)
	require.Equal(t, 21.4, temp.Celsius)
	require.Equal(t, 70.5, temp.Fahrenheit)

	rh, err := client.Humidity(ctx)
	require.NoError(t, err)
	require.Equal(t, 44.2, rh)

	power, err := client.Power(ctx)
	require.NoError(t, err)
	require.Equal(t, 76, power.Battery)
	require.True(t, power.External)
}

func TestUnreachableDevice(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewClient(srv.URL, 100*time.Millisecond).Humidity(context.Background())
	require.True(t, apperrors.IsCode(err, apperrors.CodeTransport))

	err = NewClient("", time.Second).SetSwitch(context.Background(), false)
	require.True(t, apperrors.IsCode(err, apperrors.CodeTransport))
}

func TestNewClientAddsScheme(t *testing.T) {
	require.Equal(t, "http://192.168.1.20", NewClient("192.168.1.20/", time.Second).baseURL)
	require.Equal(t, "https://plug.lan", NewClient("https://plug.lan", time.Second).baseURL)
}
