package models

import "time"

// DailyMixReport aggregates the mixes saved during one calendar day.
type DailyMixReport struct {
	Date       time.Time      `json:"date"`
	MixCount   int            `json:"mix_count"`
	Average    MixComposition `json:"average"`
	HighWater  int            `json:"high_water"`
	HighCement int            `json:"high_cement"`
	Owners     int            `json:"owners"`
}

// TrendSeries holds chart-ready values for the most recent mixes, oldest first.
type TrendSeries struct {
	Labels      []string  `json:"labels"`
	Cement      []float64 `json:"cement"`
	Sand        []float64 `json:"sand"`
	Water       []float64 `json:"water"`
	Temperature []float64 `json:"temperature"`
}

// HistoryRow is one line of the history table.
type HistoryRow struct {
	ID     string     `json:"id"`
	Date   string     `json:"date"`
	Cement string     `json:"cement"`
	Slump  SlumpClass `json:"slump"`
}

// ComponentStats describes the spread of one component across the history.
type ComponentStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// HistorySummary aggregates an owner's mixes.
type HistorySummary struct {
	Count  int            `json:"count"`
	Cement ComponentStats `json:"cement"`
	Sand   ComponentStats `json:"sand"`
	Water  ComponentStats `json:"water"`
}

// Analytics bundles everything the analytics screen renders.
type Analytics struct {
	Trend          TrendSeries    `json:"trend"`
	History        []HistoryRow   `json:"history"`
	Summary        HistorySummary `json:"summary"`
	Recommendation Recommendation `json:"recommendation"`
}
