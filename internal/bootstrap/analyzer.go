package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"docanalyzer/internal/app"
	"docanalyzer/internal/config"
	"docanalyzer/internal/pkg/logger"
)

// AnalyzerApp is the wired analysis collaborator server.
type AnalyzerApp struct {
	Config  *config.Config
	Logger  *zap.Logger
	Service *app.AnalysisService

	StartedAt time.Time
}

func NewAnalyzerApp(context.Context) (*AnalyzerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	if cfg.LLM.APIKey == "" {
		log.Warn("llm api key is empty")
	}

	return &AnalyzerApp{
		Config:    cfg,
		Logger:    log,
		Service:   NewAnalysisService(cfg, log),
		StartedAt: time.Now(),
	}, nil
}

// LLMStatus reports a configuration problem that would make every analysis fail.
func (a *AnalyzerApp) LLMStatus() error {
	if a.Config.LLM.BaseURL == "" || a.Config.LLM.Model == "" {
		return errors.New("llm base_url and model must be set")
	}
	return nil
}

func (a *AnalyzerApp) Close() error {
	_ = a.Logger.Sync()
	return nil
}
