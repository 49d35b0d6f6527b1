package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/concreto/internal/domain/models"
	"github.com/mamadbah2/concreto/internal/repository/sheets"
)

// ErrExportDisabled is returned when no spreadsheet is configured.
var ErrExportDisabled = errors.New("spreadsheet export is not configured")

// SheetRange is where exported rows are appended.
const SheetRange = "History!A:J"

var header = []string{"id", "user_id", "date", "notes", "cement", "sand", "water", "temperature", "moisture", "load_cell"}

// HistorySource returns an owner's mixes, newest first.
type HistorySource interface {
	History(ctx context.Context, ownerID string) ([]models.MixRecord, error)
}

// Service writes mix history out as CSV or into a Google Sheet.
type Service struct {
	history HistorySource
	sheets  sheets.Repository
	logger  *zap.Logger
}

// NewService builds an export service. A nil sheets repository disables spreadsheet export.
func NewService(history HistorySource, sheetsRepo sheets.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{history: history, sheets: sheetsRepo, logger: logger}
}

// WriteCSV streams the owner's history as CSV including a header row.
func (s *Service) WriteCSV(ctx context.Context, ownerID string, w io.Writer) error {
	records, err := s.history.History(ctx, ownerID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(row(rec)); err != nil {
			return fmt.Errorf("write csv row %s: %w", rec.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ExportToSheet appends the owner's history to the configured spreadsheet and
// returns the number of rows written.
func (s *Service) ExportToSheet(ctx context.Context, ownerID string) (int, error) {
	if s.sheets == nil {
		return 0, ErrExportDisabled
	}

	records, err := s.history.History(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	rows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		cells := row(rec)
		values := make([]interface{}, len(cells))
		for i, c := range cells {
			values[i] = c
		}
		rows = append(rows, values)
	}

	if err := s.sheets.AppendRows(ctx, SheetRange, rows); err != nil {
		return 0, fmt.Errorf("export history to sheet: %w", err)
	}

	s.logger.Info("history exported to sheet", zap.String("owner", ownerID), zap.Int("rows", len(rows)))
	return len(rows), nil
}

func row(rec models.MixRecord) []string {
	return []string{
		rec.ID,
		rec.OwnerID,
		rec.Date.UTC().Format(time.RFC3339),
		rec.Label,
		formatFloat(rec.Cement),
		formatFloat(rec.Sand),
		formatFloat(rec.Water),
		formatOptional(rec.Temperature),
		formatOptional(rec.Moisture),
		formatOptional(rec.LoadCell),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
