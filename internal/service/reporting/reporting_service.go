package reporting

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/mamadbah2/concreto/internal/domain/models"
)

const dateLayout = "2006-01-02"

// Thresholds mirror the recommendation rules so the report flags the same mixes.
const (
	highCementThreshold = 40
	highWaterThreshold  = 25
)

// RangeReader loads mix records created within a time window.
type RangeReader interface {
	ListBetween(ctx context.Context, start, end time.Time) ([]models.MixRecord, error)
}

// Service builds periodic summaries of saved mixes.
type Service struct {
	repo     RangeReader
	location *time.Location
	logger   *zap.Logger
}

// NewService wires a new reporting service instance. Days are cut in loc.
func NewService(repository RangeReader, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repository, location: loc, logger: logger}
}

// BuildDailyReport aggregates the mixes saved on the calendar day containing day.
func (s *Service) BuildDailyReport(ctx context.Context, day time.Time) (models.DailyMixReport, error) {
	local := day.In(s.location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	end := start.AddDate(0, 0, 1)

	records, err := s.repo.ListBetween(ctx, start, end)
	if err != nil {
		return models.DailyMixReport{}, fmt.Errorf("load mixes for %s: %w", start.Format(dateLayout), err)
	}

	report := models.DailyMixReport{Date: start, MixCount: len(records)}
	if len(records) == 0 {
		return report, nil
	}

	owners := make(map[string]struct{})
	var cement, sand, water stats.Float64Data
	for _, rec := range records {
		owners[rec.OwnerID] = struct{}{}
		cement = append(cement, rec.Cement)
		sand = append(sand, rec.Sand)
		water = append(water, rec.Water)

		if rec.Cement > highCementThreshold {
			report.HighCement++
		}
		if rec.Water > highWaterThreshold {
			report.HighWater++
		}
	}

	report.Owners = len(owners)
	report.Average = models.MixComposition{
		Cement: mean(cement),
		Sand:   mean(sand),
		Water:  mean(water),
	}

	s.logger.Debug("daily report built", zap.String("date", start.Format(dateLayout)), zap.Int("mixes", report.MixCount))
	return report, nil
}

// GenerateDailyReport renders the daily report as a text message.
func (s *Service) GenerateDailyReport(ctx context.Context, day time.Time) (string, error) {
	report, err := s.BuildDailyReport(ctx, day)
	if err != nil {
		return "", err
	}
	return FormatDailyReport(report), nil
}

// FormatDailyReport renders a report for messaging.
func FormatDailyReport(r models.DailyMixReport) string {
	date := r.Date.Format(dateLayout)
	if r.MixCount == 0 {
		return fmt.Sprintf("Mix report (%s): no mixes recorded.", date)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Mix report (%s): %d mixes by %d operators.\n", date, r.MixCount, r.Owners)
	fmt.Fprintf(&b, "Average mix %.1f/%.1f/%.1f (cement/sand/water).", r.Average.Cement, r.Average.Sand, r.Average.Water)
	if r.HighCement > 0 {
		fmt.Fprintf(&b, "\nHigh cement mixes: %d.", r.HighCement)
	}
	if r.HighWater > 0 {
		fmt.Fprintf(&b, "\nHigh water mixes: %d. Consider reducing water content for better strength.", r.HighWater)
	}
	return b.String()
}

func mean(data stats.Float64Data) float64 {
	m, err := data.Mean()
	if err != nil {
		return 0
	}
	return math.Round(m*10) / 10
}
