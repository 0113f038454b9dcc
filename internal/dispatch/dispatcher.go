// Package dispatch connects the workspace to the analysis bus. Send appends
// the user message and publishes the request; outcomes coming back are
// applied to the session recorded at send time.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"

	"docanalyzer/internal/bus"
	"docanalyzer/internal/workspace"
)

type Dispatcher struct {
	ws         *workspace.Workspace
	publisher  message.Publisher
	subscriber message.Subscriber
	topics     bus.Topics
	logger     *zap.Logger
	now        func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(
	ws *workspace.Workspace,
	publisher message.Publisher,
	subscriber message.Subscriber,
	topics bus.Topics,
	logger *zap.Logger,
) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		ws:         ws,
		publisher:  publisher,
		subscriber: subscriber,
		topics:     topics,
		logger:     logger,
		now:        time.Now,
	}
}

// Send records the user message and publishes the analysis request. The
// message is in the session before anything is published. A publish failure
// settles the request as failed; the message stays and the error surfaces
// as a notice, so the result is still returned.
func (d *Dispatcher) Send(ctx context.Context, text string) (*workspace.SendResult, error) {
	res, err := d.ws.Send(text)
	if err != nil {
		return nil, err
	}

	msg, err := bus.Encode(bus.AnalysisRequested{
		RequestID:    res.Request.RequestID,
		SessionID:    res.Request.SessionID,
		DocumentText: res.Request.DocumentText,
		RequestedAt:  d.now(),
	})
	if err == nil {
		msg.SetContext(ctx)
		err = d.publisher.Publish(d.topics.Requests, msg)
	}
	if err != nil {
		d.logger.Error("publish analysis request failed",
			zap.String("request_id", res.Request.RequestID),
			zap.String("session_id", res.SessionID),
			zap.Error(err),
		)
		d.ws.FailRequest(res.Request.RequestID, "")
	}
	return res, nil
}

// Start subscribes to outcomes. It returns once the subscription exists, so
// outcomes published afterwards are never missed.
func (d *Dispatcher) Start(ctx context.Context) error {
	if d.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	messages, err := d.subscriber.Subscribe(runCtx, d.topics.Outcomes)
	if err != nil {
		cancel()
		return fmt.Errorf("subscribe analysis outcomes failed: %w", err)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		for {
			select {
			case <-runCtx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				d.apply(msg)
				msg.Ack()
			}
		}
	}()

	return nil
}

func (d *Dispatcher) apply(msg *message.Message) {
	var outcome bus.AnalysisOutcome
	if err := bus.Decode(msg, &outcome); err != nil {
		d.logger.Error("decode analysis outcome failed", zap.String("message_id", msg.UUID), zap.Error(err))
		return
	}

	if outcome.OK {
		d.ws.CompleteRequest(outcome.RequestID, outcome.SessionID, outcome.Analysis)
		return
	}
	d.ws.FailRequest(outcome.RequestID, outcome.Detail)
}

func (d *Dispatcher) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
}
