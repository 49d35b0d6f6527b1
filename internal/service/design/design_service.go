package design

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/concreto/internal/device"
	"github.com/mamadbah2/concreto/internal/domain/mix"
	"github.com/mamadbah2/concreto/internal/domain/models"
	"github.com/mamadbah2/concreto/internal/metrics"
	"github.com/mamadbah2/concreto/internal/repository/mongodb"
)

// ErrInvalidMix indicates a submitted composition does not sum to 100.
var ErrInvalidMix = errors.New("total percentage must equal 100 to submit")

// ErrMissingOwner indicates the request carries no owner identity.
var ErrMissingOwner = errors.New("owner id is required")

const defaultLabel = "Unnamed Mix"

// Balance result label values.
const (
	balanceOK            = "ok"
	balanceNoop          = "noop"
	balanceUnbalanceable = "unbalanceable"
)

// HistoryStore is the subset of the mix repository used by the service.
type HistoryStore interface {
	Save(ctx context.Context, record models.MixRecord) (string, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.MixRecord, error)
}

var _ HistoryStore = (mongodb.Repository)(nil)

// Service validates, balances, stores and analyzes mix designs.
type Service struct {
	store   HistoryStore
	gateway device.Gateway
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// NewService wires a mix design service.
func NewService(store HistoryStore, gateway device.Gateway, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.Nop()
	}
	return &Service{
		store:   store,
		gateway: gateway,
		metrics: m,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Validate reports whether the composition sums to 100 along with its total.
func (s *Service) Validate(m models.MixComposition) (bool, float64) {
	return mix.IsValid(m), m.Total()
}

// Balance rescales a composition to 100%. See mix.Balance for the error contract.
func (s *Service) Balance(m models.MixComposition) (models.MixComposition, error) {
	if mix.IsValid(m) {
		s.metrics.BalanceRequests.WithLabelValues(balanceNoop).Inc()
		return m, nil
	}

	balanced, err := mix.Balance(m)
	if err != nil {
		s.metrics.BalanceRequests.WithLabelValues(balanceUnbalanceable).Inc()
		return m, err
	}

	s.metrics.BalanceRequests.WithLabelValues(balanceOK).Inc()
	return balanced, nil
}

// Templates returns the preset compositions.
func (s *Service) Templates() []models.MixTemplate {
	return mix.Templates()
}

// Submit stores a valid composition together with a sensor snapshot. A failed
// sensor read does not block the submission; the record is saved without readings.
func (s *Service) Submit(ctx context.Context, ownerID string, m models.MixComposition, label string) (models.MixRecord, error) {
	if ownerID == "" {
		return models.MixRecord{}, ErrMissingOwner
	}
	if !mix.IsValid(m) {
		return models.MixRecord{}, ErrInvalidMix
	}

	label = strings.TrimSpace(label)
	if label == "" {
		label = defaultLabel
	}

	record := models.MixRecord{
		ID:             s.newID(),
		OwnerID:        ownerID,
		Date:           s.now().UTC(),
		Label:          label,
		MixComposition: m,
	}

	if s.gateway != nil {
		reading, err := s.gateway.ReadSensors(ctx)
		if err != nil {
			s.logger.Warn("saving mix without sensor snapshot", zap.String("owner", ownerID), zap.Error(err))
		} else {
			record.SensorSnapshot = reading.Snapshot()
		}
	}

	id, err := s.store.Save(ctx, record)
	if err != nil {
		return models.MixRecord{}, fmt.Errorf("save mix record: %w", err)
	}
	record.ID = id

	s.metrics.MixesSaved.Inc()
	s.logger.Info("mix design saved",
		zap.String("id", record.ID),
		zap.String("owner", ownerID),
		zap.Float64("cement", m.Cement),
		zap.Float64("sand", m.Sand),
		zap.Float64("water", m.Water))

	return record, nil
}

// History returns the owner's records, newest first.
func (s *Service) History(ctx context.Context, ownerID string) ([]models.MixRecord, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}

	records, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load mix history: %w", err)
	}

	// Stores are not required to sort; the recommendation rules depend on it.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	return records, nil
}

// Recommendation derives a suggestion from the owner's most recent mix.
func (s *Service) Recommendation(ctx context.Context, ownerID string) (models.Recommendation, error) {
	history, err := s.History(ctx, ownerID)
	if err != nil {
		return models.Recommendation{}, err
	}
	return mix.Recommend(history), nil
}
