package esp32

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/concreto/internal/config"
	"github.com/mamadbah2/concreto/internal/domain/models"
)

// Client talks to the mixer firmware over its plain HTTP endpoints.
type Client struct {
	httpClient *resty.Client
}

// NewClient builds an ESP32 client using the provided device configuration.
func NewClient(cfg config.DeviceConfig) *Client {
	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &Client{httpClient: restyClient}
}

// SendCommand issues GET /command?cmd=NAME and returns the firmware's text reply.
func (c *Client) SendCommand(ctx context.Context, command string) (string, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("cmd", command).
		Get("/command")
	if err != nil {
		return "", fmt.Errorf("send command %s: %w", command, err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("device rejected command %s: status=%d body=%s", command, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	return strings.TrimSpace(resp.String()), nil
}

// Sensors fetches the current readings from GET /sensors.
func (c *Client) Sensors(ctx context.Context) (*models.SensorReading, error) {
	reading := new(models.SensorReading)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(reading).
		ForceContentType("application/json").
		Get("/sensors")
	if err != nil {
		return nil, fmt.Errorf("read sensors: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("device sensor endpoint failed: status=%d", resp.StatusCode())
	}

	return reading, nil
}

// Timeout exposes the per-request timeout, mostly for diagnostics.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.GetClient().Timeout
}
