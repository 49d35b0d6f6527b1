package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/concreto/internal/domain/mix"
	"github.com/mamadbah2/concreto/internal/domain/models"
	"github.com/mamadbah2/concreto/internal/server/middleware"
	"github.com/mamadbah2/concreto/internal/service/design"
	"github.com/mamadbah2/concreto/internal/service/export"
)

const csvFilename = "mix-history.csv"

// MixService is the design workflow exposed over HTTP.
type MixService interface {
	Validate(m models.MixComposition) (bool, float64)
	Balance(m models.MixComposition) (models.MixComposition, error)
	Templates() []models.MixTemplate
	Submit(ctx context.Context, ownerID string, m models.MixComposition, label string) (models.MixRecord, error)
	History(ctx context.Context, ownerID string) ([]models.MixRecord, error)
	Recommendation(ctx context.Context, ownerID string) (models.Recommendation, error)
	Analytics(ctx context.Context, ownerID string) (models.Analytics, error)
}

// Exporter writes an owner's history out of the system.
type Exporter interface {
	WriteCSV(ctx context.Context, ownerID string, w io.Writer) error
	ExportToSheet(ctx context.Context, ownerID string) (int, error)
}

// MixHandler serves the mix design endpoints.
type MixHandler struct {
	svc      MixService
	exporter Exporter
	logger   *zap.Logger
}

// NewMixHandler constructs the HTTP handler adapter.
func NewMixHandler(svc MixService, exporter Exporter, logger *zap.Logger) *MixHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MixHandler{svc: svc, exporter: exporter, logger: logger}
}

// Validate reports whether a composition sums to 100.
func (h *MixHandler) Validate(c *gin.Context) {
	var m models.MixComposition
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mix composition"})
		return
	}

	valid, total := h.svc.Validate(m)
	c.JSON(http.StatusOK, gin.H{"valid": valid, "total": total})
}

// Balance rescales a composition to 100%.
func (h *MixHandler) Balance(c *gin.Context) {
	var m models.MixComposition
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mix composition"})
		return
	}

	balanced, err := h.svc.Balance(m)
	if err != nil {
		if errors.Is(err, mix.ErrUnbalanceable) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("balance failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to balance mix"})
		return
	}

	c.JSON(http.StatusOK, balanced)
}

// Templates lists the preset compositions.
func (h *MixHandler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Templates())
}

// Submit saves a mix design for the authenticated owner.
func (h *MixHandler) Submit(c *gin.Context) {
	var req models.SubmitMixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("invalid submit payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.svc.Submit(c.Request.Context(), middleware.Owner(c), req.MixComposition, req.Label)
	if err != nil {
		h.respondError(c, err, "failed to save mix")
		return
	}

	c.JSON(http.StatusCreated, record)
}

// History lists the owner's saved mixes, newest first.
func (h *MixHandler) History(c *gin.Context) {
	records, err := h.svc.History(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		h.respondError(c, err, "failed to load history")
		return
	}

	c.JSON(http.StatusOK, records)
}

// Recommendation suggests the next mix from the owner's history.
func (h *MixHandler) Recommendation(c *gin.Context) {
	rec, err := h.svc.Recommendation(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		h.respondError(c, err, "failed to build recommendation")
		return
	}

	c.JSON(http.StatusOK, rec)
}

// Analytics returns the chart, table and summary for the owner.
func (h *MixHandler) Analytics(c *gin.Context) {
	analytics, err := h.svc.Analytics(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		h.respondError(c, err, "failed to build analytics")
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// ExportCSV downloads the owner's history as CSV.
func (h *MixHandler) ExportCSV(c *gin.Context) {
	// Buffer so a failed query still yields a JSON error instead of a truncated file.
	var buf bytes.Buffer
	if err := h.exporter.WriteCSV(c.Request.Context(), middleware.Owner(c), &buf); err != nil {
		h.respondError(c, err, "failed to export history")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+csvFilename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportSheets appends the owner's history to the configured spreadsheet.
func (h *MixHandler) ExportSheets(c *gin.Context) {
	n, err := h.exporter.ExportToSheet(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		if errors.Is(err, export.ErrExportDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, design.ErrMissingOwner) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("sheet export failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to export to spreadsheet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"exported": n})
}

func (h *MixHandler) respondError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, design.ErrInvalidMix):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, design.ErrMissingOwner):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		h.logger.Error(msg, zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
