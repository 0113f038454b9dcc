// Package bus carries analysis requests and their outcomes between the
// dispatcher and the analysis worker. Both directions are watermill topics,
// and every payload names the session it belongs to.
package bus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	DriverGoChannel = "gochannel"
	DriverRabbitMQ  = "rabbitmq"

	DefaultRequestTopic = "analysis.requested"
	DefaultOutcomeTopic = "analysis.completed"

	metadataContentType = "content_type"
)

// PubSub is a watermill publisher and subscriber over the same transport.
type PubSub interface {
	message.Publisher
	message.Subscriber
}

type Topics struct {
	Requests string
	Outcomes string
}

func DefaultTopics() Topics {
	return Topics{Requests: DefaultRequestTopic, Outcomes: DefaultOutcomeTopic}
}

type AnalysisRequested struct {
	RequestID    string    `json:"request_id"`
	SessionID    string    `json:"session_id"`
	DocumentText string    `json:"document_text"`
	RequestedAt  time.Time `json:"requested_at"`
}

// AnalysisOutcome reports a finished request. Detail is set when OK is false.
type AnalysisOutcome struct {
	RequestID   string    `json:"request_id"`
	SessionID   string    `json:"session_id"`
	OK          bool      `json:"ok"`
	Analysis    string    `json:"analysis,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewGoChannel returns an in-process pub/sub. Messages are lost when nobody
// is subscribed, so subscribers must start before the first publish.
func NewGoChannel(buffer int64, logger watermill.LoggerAdapter) PubSub {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: buffer}, logger)
}

func Encode(v interface{}) (*message.Message, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal bus payload failed: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(metadataContentType, "application/json")
	return msg, nil
}

func Decode(msg *message.Message, v interface{}) error {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("unmarshal bus payload failed: %w", err)
	}
	return nil
}

// Publish encodes v as one message on topic.
func Publish(publisher message.Publisher, topic string, v interface{}) error {
	msg, err := Encode(v)
	if err != nil {
		return err
	}
	if err := publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish to %s failed: %w", topic, err)
	}
	return nil
}
