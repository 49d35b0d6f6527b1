package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/concreto/internal/device"
	"github.com/mamadbah2/concreto/internal/domain/models"
	"github.com/mamadbah2/concreto/internal/server/middleware"
	"github.com/mamadbah2/concreto/internal/service/design"
	"github.com/mamadbah2/concreto/internal/service/export"
	"github.com/mamadbah2/concreto/internal/service/mixer"
)

const testOwner = "owner-1"

type memoryStore struct {
	mu      sync.Mutex
	records []models.MixRecord
}

func (s *memoryStore) Save(_ context.Context, rec models.MixRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return rec.ID, nil
}

func (s *memoryStore) ListByOwner(_ context.Context, owner string) ([]models.MixRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MixRecord
	for _, r := range s.records {
		if r.OwnerID == owner {
			out = append(out, r)
		}
	}
	return out, nil
}

type deadGateway struct{}

func (deadGateway) SendCommand(context.Context, models.DeviceCommand) error {
	return errors.New("connection refused")
}

func (deadGateway) ReadSensors(context.Context) (models.SensorReading, error) {
	return models.SensorReading{}, device.ErrNoReading
}

func newEngine(gw device.Gateway) (*gin.Engine, *memoryStore) {
	gin.SetMode(gin.TestMode)

	store := &memoryStore{}
	designSvc := design.NewService(store, gw, nil, nil)
	mixerSvc := mixer.NewService(gw, nil, nil, 30*time.Second, nil)
	mixH := NewMixHandler(designSvc, export.NewService(designSvc, nil, nil), nil)
	devH := NewDeviceHandler(gw, mixerSvc, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.OwnerKey, testOwner)
		c.Next()
	})
	r.POST("/mixes/validate", mixH.Validate)
	r.POST("/mixes/balance", mixH.Balance)
	r.GET("/mixes/templates", mixH.Templates)
	r.POST("/mixes", mixH.Submit)
	r.GET("/mixes", mixH.History)
	r.GET("/mixes/recommendation", mixH.Recommendation)
	r.GET("/mixes/analytics", mixH.Analytics)
	r.GET("/mixes/export.csv", mixH.ExportCSV)
	r.POST("/mixes/export/sheets", mixH.ExportSheets)
	r.GET("/device/sensors", devH.Sensors)
	r.POST("/device/commands", devH.SendCommand)
	r.GET("/device/ping", devH.Ping)
	r.POST("/mixer/start", devH.StartMixing)
	r.POST("/mixer/stop", devH.StopMixing)
	r.GET("/mixer/status", devH.MixerStatus)
	return r, store
}

func simulator() device.Gateway {
	return device.NewSimulator(rand.New(rand.NewSource(7)))
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidate(t *testing.T) {
	r, _ := newEngine(simulator())

	w := do(r, http.MethodPost, "/mixes/validate", `{"cement":35,"sand":45,"water":15}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":false,"total":95}`, w.Body.String())

	w = do(r, http.MethodPost, "/mixes/validate", `{"cement":-5,"sand":45,"water":15}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBalance(t *testing.T) {
	r, _ := newEngine(simulator())

	w := do(r, http.MethodPost, "/mixes/balance", `{"cement":30,"sand":40,"water":20}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cement":33,"sand":44,"water":23}`, w.Body.String())

	w = do(r, http.MethodPost, "/mixes/balance", `{"cement":0,"sand":0,"water":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestTemplates(t *testing.T) {
	r, _ := newEngine(simulator())

	w := do(r, http.MethodGet, "/mixes/templates", "")
	require.Equal(t, http.StatusOK, w.Code)

	var templates []models.MixTemplate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &templates))
	assert.Len(t, templates, 4)
}

func TestSubmitAndHistory(t *testing.T) {
	r, store := newEngine(simulator())

	w := do(r, http.MethodPost, "/mixes", `{"cement":35,"sand":45,"water":15}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, store.records)

	w = do(r, http.MethodPost, "/mixes", `{"cement":45,"sand":40,"water":15,"notes":"slab"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var saved models.MixRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, testOwner, saved.OwnerID)
	assert.Equal(t, "slab", saved.Label)
	assert.NotEmpty(t, saved.ID)
	assert.NotNil(t, saved.Temperature)

	w = do(r, http.MethodGet, "/mixes", "")
	require.Equal(t, http.StatusOK, w.Code)
	var history []models.MixRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, saved.ID, history[0].ID)

	w = do(r, http.MethodGet, "/mixes/recommendation", "")
	require.Equal(t, http.StatusOK, w.Code)
	var rec models.Recommendation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, models.MixComposition{Cement: 40, Sand: 45, Water: 15}, rec.Recommended)

	w = do(r, http.MethodGet, "/mixes/analytics", "")
	require.Equal(t, http.StatusOK, w.Code)
	var analytics models.Analytics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analytics))
	assert.Equal(t, 1, analytics.Summary.Count)
	assert.Len(t, analytics.History, 1)
}

func TestExport(t *testing.T) {
	r, _ := newEngine(simulator())
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/mixes", `{"cement":35,"sand":45,"water":20}`).Code)

	w := do(r, http.MethodGet, "/mixes/export.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), csvFilename)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 2)

	w = do(r, http.MethodPost, "/mixes/export/sheets", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDeviceCommands(t *testing.T) {
	r, _ := newEngine(simulator())

	w := do(r, http.MethodPost, "/device/commands", `{"command":" ping "}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"command":"PING","accepted":true}`, w.Body.String())

	w = do(r, http.MethodPost, "/device/commands", `{"command":"SELF_DESTRUCT"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/device/commands", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeviceCommands_Rejected(t *testing.T) {
	r, _ := newEngine(deadGateway{})

	w := do(r, http.MethodPost, "/device/commands", `{"command":"PING"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"command":"PING","accepted":false}`, w.Body.String())
}

func TestSensors(t *testing.T) {
	r, _ := newEngine(simulator())

	w := do(r, http.MethodGet, "/device/sensors", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Connection models.ConnectionStatus `json:"connection"`
		Reading    *models.SensorReading   `json:"reading"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.ConnectionDisconnected, body.Connection)
	require.NotNil(t, body.Reading)
	assert.NotNil(t, body.Reading.Moisture)
}

func TestSensors_NoReading(t *testing.T) {
	r, _ := newEngine(deadGateway{})

	w := do(r, http.MethodGet, "/device/sensors", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"connection":"disconnected","reading":null}`, w.Body.String())
}

func TestMixerLifecycle(t *testing.T) {
	r, _ := newEngine(simulator())

	w := do(r, http.MethodGet, "/device/ping", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"connection":"connected"}`, w.Body.String())

	w = do(r, http.MethodPost, "/mixer/stop", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/mixer/start", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/mixer/start", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodGet, "/mixer/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var status models.MixerStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Mixing)
	require.NotNil(t, status.Run)

	w = do(r, http.MethodPost, "/mixer/stop", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.Mixing)
}

func TestMixerStart_DeviceDown(t *testing.T) {
	r, _ := newEngine(deadGateway{})

	w := do(r, http.MethodPost, "/mixer/start", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "failed to connect to the mixer")
}
