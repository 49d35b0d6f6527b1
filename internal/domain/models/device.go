package models

import (
	"strings"
	"time"
)

// DeviceCommand enumerates the commands understood by the mixer firmware.
type DeviceCommand string

const (
	CommandStartMixing DeviceCommand = "START_MIXING"
	CommandStopMixing  DeviceCommand = "STOP_MIXING"
	CommandPing        DeviceCommand = "PING"
)

// ParseDeviceCommand normalizes free-form input into a known command.
func ParseDeviceCommand(raw string) (DeviceCommand, bool) {
	normalized := DeviceCommand(strings.ToUpper(strings.TrimSpace(raw)))
	switch normalized {
	case CommandStartMixing, CommandStopMixing, CommandPing:
		return normalized, true
	default:
		return "", false
	}
}

// SensorReading mirrors the payload served by the mixer. Every field is optional.
type SensorReading struct {
	Moisture    *float64 `json:"moisture,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	LoadCell    *float64 `json:"loadCell,omitempty"`
	IsMixing    *bool    `json:"isMixing,omitempty"`
}

// Snapshot keeps the readings persisted alongside a mix record.
func (r SensorReading) Snapshot() SensorSnapshot {
	return SensorSnapshot{
		Temperature: r.Temperature,
		Moisture:    r.Moisture,
		LoadCell:    r.LoadCell,
	}
}

// ConnectionStatus reports the last known reachability of the device.
type ConnectionStatus string

const (
	ConnectionConnected    ConnectionStatus = "connected"
	ConnectionDisconnected ConnectionStatus = "disconnected"
	ConnectionConnecting   ConnectionStatus = "connecting"
)

// MixingRun is one start-to-stop cycle of the mixer.
type MixingRun struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
}

// MixerStatus is the externally visible state of the mixer.
type MixerStatus struct {
	Mixing     bool             `json:"mixing"`
	Progress   int              `json:"progress"`
	Connection ConnectionStatus `json:"connection"`
	Run        *MixingRun       `json:"run,omitempty"`
}
