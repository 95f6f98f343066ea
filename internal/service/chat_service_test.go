package service

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/rag"
	"ai-docchat-be/pkg/rag/envelope"
	"ai-docchat-be/pkg/store"
)

type stubOrchestrator struct {
	result *rag.Result
	err    error
}

func (s *stubOrchestrator) Orchestrate(ctx context.Context, messages []llm.Message, docIds []uuid.UUID, forceWeb bool) (*rag.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func chatResult() *rag.Result {
	answer := "The value is $500,000 [1]."
	return &rag.Result{
		Query:  "what is the contract value",
		Answer: answer,
		Tokens: []string{"The", "value", "is", "$500,000", "[1]."},
		Envelope: envelope.Assemble([]store.Passage{
			{DocumentID: "d1", Title: "Contract", PageNumber: 3, Similarity: 0.9, Content: "..."},
		}, nil),
	}
}

func newTestBus() (*gochannel.GoChannel, IPublisherService) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	return pubSub, NewPublisherService("CHAT_ANSWERED", pubSub)
}

func TestChatMapsResult(t *testing.T) {
	_, publisher := newTestBus()
	svc := NewChatService(&stubOrchestrator{result: chatResult()}, publisher, nil, logger.NewNopLogger())

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Messages: []dto.ChatMessage{{Role: "user", Content: "what is the contract value"}},
	})

	assert.NoError(t, err)
	assert.Equal(t, "The value is $500,000 [1].", res.Answer)
	assert.Len(t, res.Citations, 1)
	assert.Equal(t, "doc", res.Sources.Type)
}

func TestStreamEmitsTokensThenEnvelope(t *testing.T) {
	_, publisher := newTestBus()
	svc := NewChatService(&stubOrchestrator{result: chatResult()}, publisher, nil, logger.NewNopLogger())

	var frames []dto.ChatStreamFrame
	err := svc.Stream(context.Background(), &dto.ChatRequest{
		Messages: []dto.ChatMessage{{Role: "user", Content: "q"}},
	}, func(frame dto.ChatStreamFrame) error {
		frames = append(frames, frame)
		return nil
	})

	assert.NoError(t, err)
	assert.Len(t, frames, 6)
	for i := 0; i < 5; i++ {
		assert.Equal(t, dto.StreamFrameToken, frames[i].Type)
	}
	last := frames[len(frames)-1]
	assert.Equal(t, dto.StreamFrameEnvelope, last.Type)
	assert.NotNil(t, last.Envelope)
	assert.Equal(t, "doc", last.Envelope.Sources.Type)
}

func TestChatPublishesAnsweredEvent(t *testing.T) {
	pubSub, publisher := newTestBus()
	consumer := NewConsumerService(pubSub, "CHAT_ANSWERED", logger.NewNopLogger())
	if err := consumer.Consume(context.Background()); err != nil {
		t.Fatalf("consume: %v", err)
	}

	svc := NewChatService(&stubOrchestrator{result: chatResult()}, publisher, nil, logger.NewNopLogger())
	_, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Messages: []dto.ChatMessage{{Role: "user", Content: "q"}},
	})
	assert.NoError(t, err)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if consumer.Stats()["doc"] == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("answered event never reached the consumer, stats: %v", consumer.Stats())
}
