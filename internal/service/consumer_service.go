package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-docchat-be/internal/pkg/logger"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
	// Stats returns per-source-type counts of answered chats since startup.
	Stats() map[string]int
}

// consumerService drains the in-process answered-chat topic and keeps simple
// usage counters. It is intentionally lossy: invalid payloads are acked and
// dropped.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger

	mu     sync.Mutex
	counts map[string]int
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    log,
		counts:    make(map[string]int),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) Stats() map[string]int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make(map[string]int, len(cs.counts))
	for k, v := range cs.counts {
		out[k] = v
	}
	return out
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload struct {
		Query       string `json:"query"`
		SourceType  string `json:"source_type"`
		SourceCount int    `json:"source_count"`
		TokenCount  int    `json:"token_count"`
		DurationMs  int64  `json:"duration_ms"`
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal answered event: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.mu.Lock()
	cs.counts[payload.SourceType]++
	cs.mu.Unlock()

	cs.logger.Info("ConsumerService", "answered chat recorded", map[string]interface{}{
		"source_type":  payload.SourceType,
		"source_count": payload.SourceCount,
		"token_count":  payload.TokenCount,
		"duration_ms":  payload.DurationMs,
	})
	msg.Ack()
}
