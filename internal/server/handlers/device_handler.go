package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/concreto/internal/device"
	"github.com/mamadbah2/concreto/internal/domain/models"
	"github.com/mamadbah2/concreto/internal/service/mixer"
)

// MixerController runs the mixer and reports its state.
type MixerController interface {
	Start(ctx context.Context) (models.MixingRun, error)
	Stop(ctx context.Context) error
	Ping(ctx context.Context) models.ConnectionStatus
	Status() models.MixerStatus
}

// DeviceHandler serves the device and mixer endpoints.
type DeviceHandler struct {
	gateway device.Gateway
	mixer   MixerController
	logger  *zap.Logger
}

// NewDeviceHandler constructs the HTTP handler adapter.
func NewDeviceHandler(gateway device.Gateway, mixer MixerController, logger *zap.Logger) *DeviceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeviceHandler{gateway: gateway, mixer: mixer, logger: logger}
}

// Sensors returns the latest reading. A missing reading is reported as null.
func (h *DeviceHandler) Sensors(c *gin.Context) {
	var reading *models.SensorReading
	r, err := h.gateway.ReadSensors(c.Request.Context())
	switch {
	case err == nil:
		reading = &r
	case errors.Is(err, device.ErrNoReading):
	default:
		h.logger.Warn("sensor read failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"connection": h.mixer.Status().Connection,
		"reading":    reading,
	})
}

// SendCommand forwards a named command to the device.
func (h *DeviceHandler) SendCommand(c *gin.Context) {
	var req models.DeviceCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cmd, ok := models.ParseDeviceCommand(req.Command)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown command " + req.Command})
		return
	}

	err := h.gateway.SendCommand(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Warn("device rejected command", zap.String("command", string(cmd)), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"command": cmd, "accepted": err == nil})
}

// Ping checks the device connection.
func (h *DeviceHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"connection": h.mixer.Ping(c.Request.Context())})
}

// StartMixing begins a mixing run.
func (h *DeviceHandler) StartMixing(c *gin.Context) {
	run, err := h.mixer.Start(c.Request.Context())
	if err != nil {
		h.respondMixerError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}

// StopMixing cancels the active run.
func (h *DeviceHandler) StopMixing(c *gin.Context) {
	if err := h.mixer.Stop(c.Request.Context()); err != nil {
		h.respondMixerError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mixer.Status())
}

// MixerStatus reports run progress and connection.
func (h *DeviceHandler) MixerStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.mixer.Status())
}

func (h *DeviceHandler) respondMixerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, mixer.ErrAlreadyMixing), errors.Is(err, mixer.ErrNotMixing):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("mixer command failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
