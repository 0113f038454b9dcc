package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docanalyzer/internal/analysis"
	"docanalyzer/internal/app"
)

const noValidResponseDetail = "Failed to get a valid response from the model"

// AnalyzeHandler serves the collaborator contract: {"documentText"} in,
// {"analysis"} or {"detail"} out. It does not use the response envelope.
type AnalyzeHandler struct {
	analyzer analysis.Analyzer
	logger   *zap.Logger
}

func NewAnalyzeHandler(analyzer analysis.Analyzer, logger *zap.Logger) *AnalyzeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzeHandler{analyzer: analyzer, logger: logger}
}

func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req analysis.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "documentText is required"})
		return
	}

	resp, err := h.analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("analyze failed", zap.Error(err))
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "documentText is required"})
		case errors.Is(err, app.ErrNoAnalysis):
			c.JSON(http.StatusInternalServerError, gin.H{"detail": noValidResponseDetail})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
