package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/mamadbah2/concreto/internal/config"
	"github.com/mamadbah2/concreto/internal/domain/models"
)

const qos byte = 1

// ErrTimeout is returned when the broker does not acknowledge in time.
var ErrTimeout = errors.New("mqtt operation timed out")

// Client publishes mixer commands and caches the latest sensor message.
type Client struct {
	conn    paho.Client
	cfg     config.MQTTConfig
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time

	mu         sync.RWMutex
	latest     models.SensorReading
	receivedAt time.Time
}

// Dial connects to the broker and subscribes to the sensor topic. The subscription
// is renewed on every reconnect.
func Dial(cfg config.DeviceConfig, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		cfg:     cfg.MQTT,
		timeout: cfg.Timeout,
		logger:  logger,
		now:     time.Now,
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.MQTT.BrokerURL).
		SetClientID(cfg.MQTT.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(cfg.Timeout).
		SetOnConnectHandler(c.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger.Warn("mqtt connection lost", zap.Error(err))
		})

	c.conn = paho.NewClient(opts)
	if err := wait(c.conn.Connect(), cfg.Timeout); err != nil {
		return nil, fmt.Errorf("connect to broker %s: %w", cfg.MQTT.BrokerURL, err)
	}

	return c, nil
}

func (c *Client) onConnect(conn paho.Client) {
	token := conn.Subscribe(c.cfg.SensorTopic, qos, func(_ paho.Client, msg paho.Message) {
		c.handleSensorMessage(msg.Payload())
	})
	if err := wait(token, c.timeout); err != nil {
		c.logger.Error("failed to subscribe to sensor topic", zap.String("topic", c.cfg.SensorTopic), zap.Error(err))
		return
	}
	c.logger.Info("subscribed to sensor topic", zap.String("topic", c.cfg.SensorTopic))
}

func (c *Client) handleSensorMessage(payload []byte) {
	var reading models.SensorReading
	if err := json.Unmarshal(payload, &reading); err != nil {
		c.logger.Debug("skip malformed sensor message", zap.ByteString("payload", payload), zap.Error(err))
		return
	}

	c.mu.Lock()
	c.latest = reading
	c.receivedAt = c.now()
	c.mu.Unlock()
}

// Publish sends a command name to the command topic and waits for the broker ack.
func (c *Client) Publish(command string) error {
	token := c.conn.Publish(c.cfg.CommandTopic, qos, false, []byte(command))
	if err := wait(token, c.timeout); err != nil {
		return fmt.Errorf("publish %s to %s: %w", command, c.cfg.CommandTopic, err)
	}
	return nil
}

// Latest returns the most recent reading if it is younger than the configured
// staleness window.
func (c *Client) Latest() (models.SensorReading, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.receivedAt.IsZero() {
		return models.SensorReading{}, false
	}
	if c.cfg.StaleAfter > 0 && c.now().Sub(c.receivedAt) > c.cfg.StaleAfter {
		return models.SensorReading{}, false
	}
	return c.latest, true
}

// Close disconnects from the broker.
func (c *Client) Close() error {
	c.conn.Disconnect(250)
	return nil
}

func wait(token paho.Token, timeout time.Duration) error {
	if !token.WaitTimeout(timeout) {
		return ErrTimeout
	}
	return token.Error()
}
