package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySlump(t *testing.T) {
	tests := []struct {
		water float64
		want  SlumpClass
	}{
		{water: 30, want: SlumpHigh},
		{water: 25.5, want: SlumpHigh},
		{water: 25, want: SlumpMedium},
		{water: 20, want: SlumpMedium},
		{water: 15, want: SlumpMedium},
		{water: 14.9, want: SlumpLow},
		{water: 0, want: SlumpLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifySlump(tt.water), "water %v", tt.water)
	}
}

func TestParseDeviceCommand(t *testing.T) {
	tests := []struct {
		raw    string
		want   DeviceCommand
		wantOK bool
	}{
		{raw: "START_MIXING", want: CommandStartMixing, wantOK: true},
		{raw: " stop_mixing\n", want: CommandStopMixing, wantOK: true},
		{raw: "Ping", want: CommandPing, wantOK: true},
		{raw: "", wantOK: false},
		{raw: "START", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := ParseDeviceCommand(tt.raw)
		assert.Equal(t, tt.wantOK, ok, "raw %q", tt.raw)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
	}
}

func TestSensorReadingSnapshot(t *testing.T) {
	temp, load := 31.2, 52.5
	mixing := true
	r := SensorReading{Temperature: &temp, LoadCell: &load, IsMixing: &mixing}

	snap := r.Snapshot()
	assert.Equal(t, &temp, snap.Temperature)
	assert.Equal(t, &load, snap.LoadCell)
	assert.Nil(t, snap.Moisture)
}

func TestMixCompositionTotal(t *testing.T) {
	assert.Equal(t, 100.0, MixComposition{Cement: 35, Sand: 45, Water: 20}.Total())
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		raw      string
		wantType CommandType
		wantArgs []string
	}{
		{raw: "status", wantType: CommandStatus},
		{raw: "  /START  ", wantType: CommandStart},
		{raw: "balance 30 40 20", wantType: CommandBalance, wantArgs: []string{"30", "40", "20"}},
		{raw: "Report", wantType: CommandReport},
		{raw: "", wantType: CommandUnknown},
		{raw: "eggs 120", wantType: CommandUnknown, wantArgs: []string{"120"}},
	}

	for _, tt := range tests {
		cmd := ParseCommand(tt.raw)
		assert.Equal(t, tt.wantType, cmd.Type, "raw %q", tt.raw)
		assert.Equal(t, tt.wantArgs, cmd.Args, "raw %q", tt.raw)
		assert.Equal(t, tt.raw, cmd.Raw)
	}
}

func TestInboundMessageCommandText(t *testing.T) {
	assert.Equal(t, "status", InboundMessage{Text: &TextContent{Body: "status"}}.CommandText())
	assert.Equal(t, "stop", InboundMessage{Interactive: &InteractiveContent{ButtonReply: &ButtonReply{ID: "stop"}}}.CommandText())
	assert.Equal(t, "", InboundMessage{Type: "image"}.CommandText())
}
