package esp32

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/concreto/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.DeviceConfig{BaseURL: srv.URL + "/", Timeout: 2 * time.Second})
}

func TestSendCommand(t *testing.T) {
	var gotPath, gotCmd string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCmd = r.URL.Query().Get("cmd")
		fmt.Fprint(w, "OK\n")
	})

	reply, err := client.SendCommand(context.Background(), "START_MIXING")
	require.NoError(t, err)
	assert.Equal(t, "OK", reply)
	assert.Equal(t, "/command", gotPath)
	assert.Equal(t, "START_MIXING", gotCmd)
	assert.Equal(t, 2*time.Second, client.Timeout())
}

func TestSendCommand_DeviceError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	})

	_, err := client.SendCommand(context.Background(), "PING")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=503")
}

func TestSendCommand_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(config.DeviceConfig{BaseURL: srv.URL, Timeout: time.Second})

	_, err := client.SendCommand(context.Background(), "PING")
	require.Error(t, err)
}

func TestSensors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sensors", r.URL.Path)
		// The firmware does not always set a JSON content type.
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, `{"moisture":12.5,"temperature":31.2,"isMixing":true}`)
	})

	reading, err := client.Sensors(context.Background())
	require.NoError(t, err)
	require.NotNil(t, reading.Moisture)
	require.NotNil(t, reading.Temperature)
	require.NotNil(t, reading.IsMixing)
	assert.Equal(t, 12.5, *reading.Moisture)
	assert.Equal(t, 31.2, *reading.Temperature)
	assert.True(t, *reading.IsMixing)
	assert.Nil(t, reading.LoadCell)
}

func TestSensors_Error(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Sensors(context.Background())
	require.Error(t, err)
}
