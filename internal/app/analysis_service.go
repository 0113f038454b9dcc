package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"docanalyzer/internal/ai"
	"docanalyzer/internal/analysis"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrLLMConfig    = errors.New("llm config is invalid")
	ErrNoAnalysis   = errors.New("model returned no analysis")
)

const analysisPromptTemplate = `
Professionally analyze the following legal document.
Identify key clauses, potential risks, and summarize the main obligations for each party involved.

Document:
---
%s
---

Professional Analysis:
`

type Completer interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

// AnalysisService turns submitted text into a legal analysis with an
// OpenAI-compatible model. It satisfies analysis.Analyzer, so the workspace
// can use it in-process as well as behind POST /api/analyze.
type AnalysisService struct {
	llm    Completer
	cfg    ai.ChatConfig
	logger *zap.Logger
}

func NewAnalysisService(llm Completer, cfg ai.ChatConfig, logger *zap.Logger) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{llm: llm, cfg: cfg, logger: logger}
}

func (s *AnalysisService) Analyze(ctx context.Context, req analysis.Request) (*analysis.Response, error) {
	text := strings.TrimSpace(req.DocumentText)
	if text == "" {
		return nil, ErrInvalidInput
	}
	if s.cfg.BaseURL == "" || s.cfg.Model == "" {
		return nil, ErrLLMConfig
	}

	messages := []ai.ChatMessage{{Role: "user", Content: BuildAnalysisPrompt(text)}}
	s.logger.Debug("analysis requested",
		zap.String("model", s.cfg.Model),
		zap.String("api_key", maskSecret(s.cfg.APIKey)),
		zap.Int("document_chars", len(text)),
	)

	out, err := s.llm.Complete(ctx, s.cfg, messages)
	if errors.Is(err, ai.ErrEmptyChoices) {
		return nil, ErrNoAnalysis
	}
	if err != nil {
		return nil, fmt.Errorf("complete analysis failed: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return nil, ErrNoAnalysis
	}
	return &analysis.Response{Analysis: out}, nil
}

func BuildAnalysisPrompt(documentText string) string {
	return fmt.Sprintf(analysisPromptTemplate, documentText)
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}
