package design

import (
	"context"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/mamadbah2/concreto/internal/domain/mix"
	"github.com/mamadbah2/concreto/internal/domain/models"
)

const (
	trendWindow = 5

	trendLabelLayout   = "1/2"
	historyLabelLayout = "02 Jan"

	fallbackCement      = 35
	fallbackSand        = 45
	fallbackWater       = 20
	fallbackTemperature = 30
)

// Analytics builds the trend, table, summary and recommendation for an owner.
func (s *Service) Analytics(ctx context.Context, ownerID string) (models.Analytics, error) {
	history, err := s.History(ctx, ownerID)
	if err != nil {
		return models.Analytics{}, err
	}

	return models.Analytics{
		Trend:          BuildTrend(history),
		History:        BuildHistoryRows(history),
		Summary:        Summarize(history),
		Recommendation: mix.Recommend(history),
	}, nil
}

// BuildTrend charts the most recent mixes from a newest-first history, oldest on
// the left. Zero or missing values fall back to the standard mix.
func BuildTrend(history []models.MixRecord) models.TrendSeries {
	n := len(history)
	if n > trendWindow {
		n = trendWindow
	}

	trend := models.TrendSeries{
		Labels:      make([]string, 0, n),
		Cement:      make([]float64, 0, n),
		Sand:        make([]float64, 0, n),
		Water:       make([]float64, 0, n),
		Temperature: make([]float64, 0, n),
	}

	for i := n - 1; i >= 0; i-- {
		rec := history[i]
		temperature := 0.0
		if rec.Temperature != nil {
			temperature = *rec.Temperature
		}

		trend.Labels = append(trend.Labels, rec.Date.Format(trendLabelLayout))
		trend.Cement = append(trend.Cement, orDefault(rec.Cement, fallbackCement))
		trend.Sand = append(trend.Sand, orDefault(rec.Sand, fallbackSand))
		trend.Water = append(trend.Water, orDefault(rec.Water, fallbackWater))
		trend.Temperature = append(trend.Temperature, orDefault(temperature, fallbackTemperature))
	}

	return trend
}

// BuildHistoryRows formats each record for the history table.
func BuildHistoryRows(history []models.MixRecord) []models.HistoryRow {
	rows := make([]models.HistoryRow, 0, len(history))
	for _, rec := range history {
		rows = append(rows, models.HistoryRow{
			ID:     rec.ID,
			Date:   rec.Date.Format(historyLabelLayout),
			Cement: fmt.Sprintf("%s%%", formatPercent(rec.Cement)),
			Slump:  models.ClassifySlump(rec.Water),
		})
	}
	return rows
}

// Summarize computes mean and standard deviation per component.
func Summarize(history []models.MixRecord) models.HistorySummary {
	summary := models.HistorySummary{Count: len(history)}
	if len(history) == 0 {
		return summary
	}

	cement := make(stats.Float64Data, 0, len(history))
	sand := make(stats.Float64Data, 0, len(history))
	water := make(stats.Float64Data, 0, len(history))
	for _, rec := range history {
		cement = append(cement, rec.Cement)
		sand = append(sand, rec.Sand)
		water = append(water, rec.Water)
	}

	summary.Cement = describe(cement)
	summary.Sand = describe(sand)
	summary.Water = describe(water)
	return summary
}

func describe(data stats.Float64Data) models.ComponentStats {
	// Errors only occur for empty input, which callers rule out.
	mean, _ := data.Mean()
	stddev, _ := data.StandardDeviation()
	return models.ComponentStats{Mean: round2(mean), StdDev: round2(stddev)}
}

func orDefault(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatPercent(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%g", v)
}
