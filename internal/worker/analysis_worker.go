package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"

	"docanalyzer/internal/analysis"
	"docanalyzer/internal/bus"
)

// AnalysisWorker consumes analysis requests, calls the analyzer and
// publishes one outcome per request. Requests run concurrently; nothing is
// retried.
type AnalysisWorker struct {
	subscriber message.Subscriber
	publisher  message.Publisher
	analyzer   analysis.Analyzer
	topics     bus.Topics
	logger     *zap.Logger
	now        func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewAnalysisWorker(
	subscriber message.Subscriber,
	publisher message.Publisher,
	analyzer analysis.Analyzer,
	topics bus.Topics,
	logger *zap.Logger,
) *AnalysisWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisWorker{
		subscriber: subscriber,
		publisher:  publisher,
		analyzer:   analyzer,
		topics:     topics,
		logger:     logger,
		now:        time.Now,
	}
}

func (w *AnalysisWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	messages, err := w.subscriber.Subscribe(workerCtx, w.topics.Requests)
	if err != nil {
		cancel()
		return fmt.Errorf("subscribe analysis requests failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		for {
			select {
			case <-workerCtx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				var req bus.AnalysisRequested
				if err := bus.Decode(msg, &req); err != nil {
					w.logger.Error("worker decode request failed", zap.String("message_id", msg.UUID), zap.Error(err))
					msg.Ack()
					continue
				}
				// Ack before analysing so the next request is delivered while
				// this one is in flight.
				msg.Ack()

				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					w.handle(workerCtx, req)
				}()
			}
		}
	}()

	return nil
}

func (w *AnalysisWorker) handle(ctx context.Context, req bus.AnalysisRequested) {
	outcome := bus.AnalysisOutcome{
		RequestID: req.RequestID,
		SessionID: req.SessionID,
	}

	started := w.now()
	resp, err := w.analyzer.Analyze(ctx, analysis.Request{DocumentText: req.DocumentText})
	if err != nil {
		outcome.Detail = analysis.Detail(err)
		w.logger.Warn("analysis failed",
			zap.String("request_id", req.RequestID),
			zap.String("session_id", req.SessionID),
			zap.Error(err),
		)
	} else {
		outcome.OK = true
		outcome.Analysis = resp.Analysis
	}
	outcome.CompletedAt = w.now()

	w.logger.Debug("analysis finished",
		zap.String("request_id", req.RequestID),
		zap.Bool("ok", outcome.OK),
		zap.Duration("elapsed", outcome.CompletedAt.Sub(started)),
	)

	if err := bus.Publish(w.publisher, w.topics.Outcomes, outcome); err != nil {
		w.logger.Error("worker publish outcome failed", zap.String("request_id", req.RequestID), zap.Error(err))
	}
}

// Close stops consuming and waits for in-flight analyses to finish.
func (w *AnalysisWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
