package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docanalyzer/internal/analysis"
	"docanalyzer/internal/bus"
)

func startWorker(t *testing.T, analyzer analysis.Analyzer) (bus.PubSub, <-chan *message.Message) {
	t.Helper()

	pubsub := bus.NewGoChannel(16, nil)
	topics := bus.DefaultTopics()

	ctx, cancel := context.WithCancel(context.Background())
	outcomes, err := pubsub.Subscribe(ctx, topics.Outcomes)
	require.NoError(t, err)

	w := NewAnalysisWorker(pubsub, pubsub, analyzer, topics, zap.NewNop())
	require.NoError(t, w.Start(ctx))

	t.Cleanup(func() {
		cancel()
		w.Close()
		_ = pubsub.Close()
	})
	return pubsub, outcomes
}

func nextOutcome(t *testing.T, outcomes <-chan *message.Message) bus.AnalysisOutcome {
	t.Helper()
	select {
	case msg := <-outcomes:
		var out bus.AnalysisOutcome
		require.NoError(t, bus.Decode(msg, &out))
		msg.Ack()
		return out
	case <-time.After(2 * time.Second):
		t.Fatal("no outcome published")
		return bus.AnalysisOutcome{}
	}
}

func TestWorkerPublishesAnalysis(t *testing.T) {
	analyzer := analysis.AnalyzerFunc(func(_ context.Context, req analysis.Request) (*analysis.Response, error) {
		return &analysis.Response{Analysis: "analysed: " + req.DocumentText}, nil
	})
	pubsub, outcomes := startWorker(t, analyzer)

	require.NoError(t, bus.Publish(pubsub, bus.DefaultRequestTopic, bus.AnalysisRequested{
		RequestID: "req_1", SessionID: "chat_1", DocumentText: "Hello",
	}))

	out := nextOutcome(t, outcomes)
	assert.True(t, out.OK)
	assert.Equal(t, "req_1", out.RequestID)
	assert.Equal(t, "chat_1", out.SessionID)
	assert.Equal(t, "analysed: Hello", out.Analysis)
	assert.Empty(t, out.Detail)
}

func TestWorkerPublishesFailureDetail(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		detail string
	}{
		{"collaborator detail", &analysis.Error{StatusCode: 500, Detail: "Failed to get a valid response from the model"}, "Failed to get a valid response from the model"},
		{"empty detail", &analysis.Error{StatusCode: 502}, analysis.FallbackDetail},
		{"transport", errors.New("connection refused"), "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := analysis.AnalyzerFunc(func(context.Context, analysis.Request) (*analysis.Response, error) {
				return nil, tt.err
			})
			pubsub, outcomes := startWorker(t, analyzer)

			require.NoError(t, bus.Publish(pubsub, bus.DefaultRequestTopic, bus.AnalysisRequested{RequestID: "req_1", SessionID: "chat_1"}))

			out := nextOutcome(t, outcomes)
			assert.False(t, out.OK)
			assert.Equal(t, tt.detail, out.Detail)
		})
	}
}

func TestWorkerRunsRequestsConcurrently(t *testing.T) {
	release := make(chan struct{})
	analyzer := analysis.AnalyzerFunc(func(ctx context.Context, req analysis.Request) (*analysis.Response, error) {
		if req.DocumentText == "slow" {
			select {
			case <-release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return &analysis.Response{Analysis: req.DocumentText}, nil
	})
	pubsub, outcomes := startWorker(t, analyzer)

	require.NoError(t, bus.Publish(pubsub, bus.DefaultRequestTopic, bus.AnalysisRequested{RequestID: "req_slow", SessionID: "a", DocumentText: "slow"}))
	require.NoError(t, bus.Publish(pubsub, bus.DefaultRequestTopic, bus.AnalysisRequested{RequestID: "req_fast", SessionID: "b", DocumentText: "fast"}))

	assert.Equal(t, "req_fast", nextOutcome(t, outcomes).RequestID)
	close(release)
	assert.Equal(t, "req_slow", nextOutcome(t, outcomes).RequestID)
}

func TestWorkerSkipsUndecodableRequest(t *testing.T) {
	analyzer := analysis.AnalyzerFunc(func(_ context.Context, req analysis.Request) (*analysis.Response, error) {
		return &analysis.Response{Analysis: "ok"}, nil
	})
	pubsub, outcomes := startWorker(t, analyzer)

	require.NoError(t, pubsub.Publish(bus.DefaultRequestTopic, message.NewMessage("bad", []byte("{"))))
	require.NoError(t, bus.Publish(pubsub, bus.DefaultRequestTopic, bus.AnalysisRequested{RequestID: "req_2", SessionID: "chat_1"}))

	assert.Equal(t, "req_2", nextOutcome(t, outcomes).RequestID)
}
