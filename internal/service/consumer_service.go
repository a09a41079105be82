package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"workmate-bot/internal/dto"
	"workmate-bot/internal/pkg/logger"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// userQueueSize bounds how many turns a single user can have waiting.
const userQueueSize = 32

// consumerService drains the inbound-message topic and runs the assistant
// pipeline. Each user gets a single-goroutine queue, so messages from one
// user are processed strictly in delivery order while different users run
// concurrently.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	assistant IAssistantService
	log       logger.ILogger

	mu     sync.Mutex
	queues map[string]chan *dto.InboundMessage
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	assistant IAssistantService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		assistant: assistant,
		log:       log,
		queues:    make(map[string]chan *dto.InboundMessage),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.dispatch(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) dispatch(ctx context.Context, msg *message.Message) {
	var payload dto.InboundMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "failed to unmarshal inbound message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	// Ack immediately: every pipeline failure degrades to a fallback reply,
	// so there is nothing a redelivery could fix.
	msg.Ack()

	queue := cs.userQueue(ctx, payload.UserID)
	select {
	case queue <- &payload:
	default:
		cs.log.Warn("consumer", "user queue full, dropping message", map[string]interface{}{
			"user": payload.UserID, "event": payload.EventID,
		})
	}
}

// userQueue returns the ordered queue for a user, starting its worker on
// first use. Workers live for the remaining process lifetime, matching the
// in-memory state they guard.
func (cs *consumerService) userQueue(ctx context.Context, userID string) chan *dto.InboundMessage {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	q, ok := cs.queues[userID]
	if ok {
		return q
	}

	q = make(chan *dto.InboundMessage, userQueueSize)
	cs.queues[userID] = q

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case m := <-q:
				cs.assistant.HandleInbound(ctx, m)
			}
		}
	}()

	return q
}
