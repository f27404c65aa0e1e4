package service

import (
	"context"
	"encoding/json"
	"time"

	"fsnb-matcher-be/internal/pkg/logger"
	"fsnb-matcher-be/pkg/events"
	pktNats "fsnb-matcher-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process commit-event bus and forwards each
// event to NATS JetStream, where retraining/export jobs pick them up.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	natsPub   *pktNats.Publisher
	log       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	natsPub *pktNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		natsPub:   natsPub,
		log:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var envelope eventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		cs.log.Error("consumer", "failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if cs.natsPub != nil {
		event := events.BaseEvent{
			Type:       envelope.Type,
			Data:       envelope.Payload,
			OccurredAt: time.Now(),
		}
		if err := cs.natsPub.Publish(ctx, event); err != nil {
			cs.log.Warn("consumer", "failed to forward event to NATS", map[string]interface{}{
				"type":  envelope.Type,
				"error": err.Error(),
			})
			// Best-effort fan-out; the durable truth lives in Postgres.
		}
	}

	cs.log.Info("consumer", "event processed", map[string]interface{}{"type": envelope.Type})
	msg.Ack()
}
