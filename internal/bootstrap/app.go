package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"docanalyzer/internal/ai"
	"docanalyzer/internal/analysis"
	"docanalyzer/internal/app"
	"docanalyzer/internal/bus"
	"docanalyzer/internal/config"
	"docanalyzer/internal/dispatch"
	"docanalyzer/internal/pkg/logger"
	rabbitmqClient "docanalyzer/internal/platform/rabbitmq"
	"docanalyzer/internal/upload"
	"docanalyzer/internal/worker"
	"docanalyzer/internal/workspace"
)

// App is the wired workspace server.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Workspace  *workspace.Workspace
	Policy     upload.Policy
	PubSub     bus.PubSub
	MQConn     *amqp.Connection
	Worker     *worker.AnalysisWorker
	Dispatcher *dispatch.Dispatcher

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	return Build(ctx, cfg, log, NewAnalyzer(cfg, log))
}

// Build wires the workspace, the bus and both ends of the analysis pipeline
// around analyzer. The worker and the dispatcher are subscribed before Build
// returns.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger, analyzer analysis.Analyzer) (*App, error) {
	a := &App{
		Config:    cfg,
		Logger:    log,
		StartedAt: time.Now(),
		Workspace: workspace.New(workspace.WithLogger(log.Named("workspace"))),
		Policy: upload.Policy{
			MaxFiles:      cfg.Upload.MaxFiles,
			MaxFileSize:   cfg.Upload.MaxFileSize,
			AcceptedTypes: cfg.Upload.AcceptedTypes,
		},
	}

	if err := a.openBus(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}

	topics := bus.Topics{Requests: cfg.Bus.RequestTopic, Outcomes: cfg.Bus.OutcomeTopic}

	a.Worker = worker.NewAnalysisWorker(a.PubSub, a.PubSub, analyzer, topics, log.Named("worker"))
	if err := a.Worker.Start(ctx); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("start analysis worker failed: %w", err)
	}

	a.Dispatcher = dispatch.New(a.Workspace, a.PubSub, a.PubSub, topics, log.Named("dispatch"))
	if err := a.Dispatcher.Start(ctx); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("start dispatcher failed: %w", err)
	}

	log.Info("workspace ready",
		zap.String("bus_driver", cfg.Bus.Driver),
		zap.String("analyzer_mode", cfg.Analyzer.Mode),
	)
	return a, nil
}

func (a *App) openBus(ctx context.Context) error {
	switch a.Config.Bus.Driver {
	case bus.DriverRabbitMQ:
		conn, err := rabbitmqClient.New(ctx, a.Config.RabbitMQ.URL)
		if err != nil {
			return err
		}
		a.MQConn = conn
		a.PubSub = rabbitmqClient.NewPubSub(conn, a.Config.RabbitMQ.Prefetch, a.Logger.Named("rabbitmq"))
	case bus.DriverGoChannel, "":
		a.PubSub = bus.NewGoChannel(a.Config.Bus.Buffer, bus.NewZapLogger(a.Logger.Named("bus")))
	default:
		return fmt.Errorf("unknown bus driver %q", a.Config.Bus.Driver)
	}
	return nil
}

// BusStatus is nil while the bus can carry messages.
func (a *App) BusStatus(context.Context) error {
	if a.Config.Bus.Driver != bus.DriverRabbitMQ {
		return nil
	}
	if a.MQConn == nil || a.MQConn.IsClosed() {
		return errors.New("connection closed")
	}
	return nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Dispatcher != nil {
		a.Dispatcher.Close()
	}
	if a.Worker != nil {
		a.Worker.Close()
	}
	if a.PubSub != nil {
		if err := a.PubSub.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return closeErr
}

// NewAnalyzer picks the collaborator: the HTTP endpoint in remote mode, or
// the LLM directly in local mode.
func NewAnalyzer(cfg *config.Config, log *zap.Logger) analysis.Analyzer {
	timeout := time.Duration(cfg.Analyzer.TimeoutSeconds) * time.Second
	if cfg.Analyzer.Mode == "local" {
		return NewAnalysisService(cfg, log)
	}
	return analysis.NewHTTPAnalyzer(cfg.Analyzer.Endpoint, timeout)
}

func NewAnalysisService(cfg *config.Config, log *zap.Logger) *app.AnalysisService {
	timeout := time.Duration(cfg.Analyzer.TimeoutSeconds) * time.Second
	return app.NewAnalysisService(
		ai.NewOpenAICompatibleClient(timeout),
		ai.ChatConfig{
			BaseURL:     cfg.LLM.BaseURL,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxNewTokens,
			Temperature: cfg.LLM.Temperature,
		},
		log.Named("analysis"),
	)
}
