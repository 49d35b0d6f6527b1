package models

import "time"

// MixComposition describes a concrete batch as three percentages.
type MixComposition struct {
	Cement float64 `bson:"cement" json:"cement" binding:"gte=0,lte=100"`
	Sand   float64 `bson:"sand" json:"sand" binding:"gte=0,lte=100"`
	Water  float64 `bson:"water" json:"water" binding:"gte=0,lte=100"`
}

// Total returns the sum of the three components.
func (m MixComposition) Total() float64 {
	return m.Cement + m.Sand + m.Water
}

// SensorSnapshot holds the device readings captured when a mix was saved.
type SensorSnapshot struct {
	Temperature *float64 `bson:"temperature,omitempty" json:"temperature,omitempty"`
	Moisture    *float64 `bson:"moisture,omitempty" json:"moisture,omitempty"`
	LoadCell    *float64 `bson:"load_cell,omitempty" json:"loadCell,omitempty"`
}

// MixRecord is a submitted mix design as stored in the history collection.
type MixRecord struct {
	ID      string    `bson:"_id" json:"id"`
	OwnerID string    `bson:"user_id" json:"userId"`
	Date    time.Time `bson:"date" json:"date"`
	Label   string    `bson:"notes,omitempty" json:"notes,omitempty"`

	MixComposition `bson:",inline"`
	SensorSnapshot `bson:",inline"`
}

// Recommendation is a suggested next mix with its rationale.
type Recommendation struct {
	Recommended MixComposition `json:"recommended"`
	Message     string         `json:"message"`
}

// MixTemplate is a named preset composition offered to operators.
type MixTemplate struct {
	Name string `json:"name"`
	MixComposition
}

// SlumpClass is a coarse workability label derived from the water share.
type SlumpClass string

const (
	SlumpHigh   SlumpClass = "High"
	SlumpMedium SlumpClass = "Medium"
	SlumpLow    SlumpClass = "Low"
)

// ClassifySlump maps a water percentage onto a slump class.
func ClassifySlump(water float64) SlumpClass {
	switch {
	case water > 25:
		return SlumpHigh
	case water < 15:
		return SlumpLow
	default:
		return SlumpMedium
	}
}
