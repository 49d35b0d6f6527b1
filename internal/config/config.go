package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Device transport modes.
const (
	DeviceModeMock = "mock"
	DeviceModeHTTP = "http"
	DeviceModeMQTT = "mqtt"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Device    DeviceConfig
	Mixer     MixerConfig
	MongoDB   MongoDBConfig
	Auth      AuthConfig
	Sheets    SheetsConfig
	WhatsApp  WhatsAppConfig
	Reporting ReportingConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// DeviceConfig selects and configures the mixer gateway.
type DeviceConfig struct {
	Mode    string
	BaseURL string
	Timeout time.Duration
	MQTT    MQTTConfig
}

// MQTTConfig contains broker settings used when Mode is mqtt.
type MQTTConfig struct {
	BrokerURL    string
	ClientID     string
	CommandTopic string
	SensorTopic  string
	StaleAfter   time.Duration
}

// MixerConfig holds mixing run settings.
type MixerConfig struct {
	RunDuration time.Duration
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI        string
	DBName     string
	Collection string
}

// AuthConfig holds the bearer token settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// SheetsConfig contains configuration required to export to Google Sheets.
// Export is disabled when either field is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether spreadsheet export is configured.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// WhatsAppConfig contains credentials for operator notifications through the
// Meta WhatsApp Cloud API. Notifications are disabled when AccessToken is empty
// and the inbound webhook is disabled when VerifyToken is empty.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	OperatorID    string
	VerifyToken   string
}

// Enabled reports whether WhatsApp notifications are configured.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != ""
}

// WebhookEnabled reports whether operator commands are accepted over WhatsApp.
func (w WhatsAppConfig) WebhookEnabled() bool {
	return w.Enabled() && w.VerifyToken != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	deviceTimeout, err := getDurationWithDefault("DEVICE_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	staleAfter, err := getDurationWithDefault("MQTT_STALE_AFTER", 30*time.Second)
	if err != nil {
		return nil, err
	}
	runDuration, err := getDurationWithDefault("MIX_RUN_DURATION", 30*time.Second)
	if err != nil {
		return nil, err
	}
	tokenTTL, err := getDurationWithDefault("AUTH_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Device: DeviceConfig{
			Mode:    getenvWithDefault("DEVICE_MODE", DeviceModeMock),
			BaseURL: getenvWithDefault("DEVICE_BASE_URL", "http://10.110.169.22:80"),
			Timeout: deviceTimeout,
			MQTT: MQTTConfig{
				BrokerURL:    os.Getenv("MQTT_BROKER_URL"),
				ClientID:     getenvWithDefault("MQTT_CLIENT_ID", "concreto-backend"),
				CommandTopic: getenvWithDefault("MQTT_COMMAND_TOPIC", "concreto/mixer/command"),
				SensorTopic:  getenvWithDefault("MQTT_SENSOR_TOPIC", "concreto/mixer/sensors"),
				StaleAfter:   staleAfter,
			},
		},
		Mixer: MixerConfig{
			RunDuration: runDuration,
		},
		MongoDB: MongoDBConfig{
			URI:        getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName:     getenvWithDefault("MONGODB_DB_NAME", "concreto"),
			Collection: getenvWithDefault("MONGODB_COLLECTION", "mix_history"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
			TokenTTL:  tokenTTL,
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			OperatorID:    os.Getenv("WHATSAPP_OPERATOR_ID"),
			VerifyToken:   os.Getenv("WHATSAPP_VERIFY_TOKEN"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "UTC"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Device.Mode {
	case DeviceModeMock:
	case DeviceModeHTTP:
		if c.Device.BaseURL == "" {
			return errors.New("DEVICE_BASE_URL must be provided in http mode")
		}
	case DeviceModeMQTT:
		switch {
		case c.Device.MQTT.BrokerURL == "":
			return errors.New("MQTT_BROKER_URL must be provided in mqtt mode")
		case c.Device.MQTT.CommandTopic == "":
			return errors.New("MQTT_COMMAND_TOPIC must not be empty")
		case c.Device.MQTT.SensorTopic == "":
			return errors.New("MQTT_SENSOR_TOPIC must not be empty")
		}
	default:
		return fmt.Errorf("DEVICE_MODE %q is not one of mock, http, mqtt", c.Device.Mode)
	}

	if c.Device.Timeout <= 0 {
		return errors.New("DEVICE_TIMEOUT must be positive")
	}

	if c.Mixer.RunDuration <= 0 {
		return errors.New("MIX_RUN_DURATION must be positive")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.MongoDB.DBName == "" || c.MongoDB.Collection == "" {
		return errors.New("MONGODB_DB_NAME and MONGODB_COLLECTION must not be empty")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET must be provided")
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.OperatorID == "":
			return errors.New("WHATSAPP_OPERATOR_ID must be provided")
		}
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

// Location resolves the reporting timezone.
func (r ReportingConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", r.Timezone, err)
	}
	return loc, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationWithDefault(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid duration: %w", key, err)
	}
	return d, nil
}
