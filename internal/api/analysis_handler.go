package api

import (
	"net/http"

	"gorisk/app"
	"gorisk/domain/resample"
	"gorisk/domain/trial"
	"gorisk/internal/errors"

	"github.com/gin-gonic/gin"
)

type armCountsRequest struct {
	SampleSize       int `json:"sample_size"`
	PositiveOutcomes int `json:"positive_outcomes"`
}

type analysisRequest struct {
	Control             armCountsRequest `json:"control"`
	Treatment           armCountsRequest `json:"treatment"`
	Statistic           string           `json:"statistic"`
	Iterations          int              `json:"iterations"`
	Confidence          float64          `json:"confidence"`
	Seed                int64            `json:"seed"`
	Workers             int              `json:"workers"`
	IncludeDistribution bool             `json:"include_distribution"`
	SkipUndefined       bool             `json:"skip_undefined"`
}

// handleHealthz reports service liveness
func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleCreateAnalysis runs one auditable analysis from posted trial counts.
// All values on the wire are unrounded; percent formatting belongs to
// consumers.
func (s *Server) handleCreateAnalysis(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  errors.CodeInvalidInput,
			"error": "malformed request body: " + err.Error(),
		})
		return
	}

	statistic, err := resample.ParseStatisticKind(req.Statistic)
	if err != nil {
		s.respondError(c, err)
		return
	}

	iterations := req.Iterations
	if limit := s.config.Analysis.MaxIterations; iterations > limit {
		s.logger.Warn("Clamping requested iterations %d to limit %d", iterations, limit)
		iterations = limit
	}

	result, err := s.service.RunAuditableAnalysis(c.Request.Context(), app.AuditableAnalysisRequest{
		Observation: trial.Observation{
			Control:   trial.Arm{SampleSize: req.Control.SampleSize, PositiveOutcomes: req.Control.PositiveOutcomes},
			Treatment: trial.Arm{SampleSize: req.Treatment.SampleSize, PositiveOutcomes: req.Treatment.PositiveOutcomes},
		},
		Statistic:           statistic,
		Iterations:          iterations,
		Confidence:          req.Confidence,
		Seed:                req.Seed,
		Workers:             req.Workers,
		IncludeDistribution: req.IncludeDistribution,
		SkipUndefined:       req.SkipUndefined,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// respondError maps domain failures onto HTTP statuses. Invalid input and an
// undefined ratio stay distinct: the latter is a legitimate outcome of valid
// counts plus an unlucky draw.
func (s *Server) respondError(c *gin.Context, err error) {
	appErr := errors.FromDomain(err)

	status := http.StatusInternalServerError
	switch appErr.Code {
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeDivisionUndefined:
		status = http.StatusUnprocessableEntity
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeSourceUnavailable:
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("Analysis request failed: %v", err)
	}
	c.JSON(status, gin.H{
		"code":   appErr.Code,
		"error":  appErr.Message,
		"detail": appErr.Error(),
	})
}
