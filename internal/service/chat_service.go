package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/events"
	"ai-docchat-be/pkg/llm"
	pktNats "ai-docchat-be/pkg/nats"
	"ai-docchat-be/pkg/rag"
)

// ChatOrchestrator is the pipeline entry point the service drives.
type ChatOrchestrator interface {
	Orchestrate(ctx context.Context, messages []llm.Message, docIds []uuid.UUID, forceWeb bool) (*rag.Result, error)
}

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	// Stream runs the pipeline and emits token frames in generation order,
	// then the envelope frame as the terminal element. A non-nil emit error
	// (e.g. a dropped websocket) stops emission.
	Stream(ctx context.Context, req *dto.ChatRequest, emit func(dto.ChatStreamFrame) error) error
}

type chatService struct {
	orchestrator     ChatOrchestrator
	publisherService IPublisherService
	natsPublisher    *pktNats.Publisher
	logger           logger.ILogger
}

func NewChatService(
	orchestrator ChatOrchestrator,
	publisherService IPublisherService,
	natsPublisher *pktNats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		orchestrator:     orchestrator,
		publisherService: publisherService,
		natsPublisher:    natsPublisher,
		logger:           log,
	}
}

func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	result, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}

	return &dto.ChatResponse{
		Answer:    result.Answer,
		Citations: result.Envelope.Citations,
		Sources:   result.Envelope.Sources,
	}, nil
}

func (s *chatService) Stream(ctx context.Context, req *dto.ChatRequest, emit func(dto.ChatStreamFrame) error) error {
	result, err := s.run(ctx, req)
	if err != nil {
		return err
	}

	for _, token := range result.Tokens {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := emit(dto.ChatStreamFrame{Type: dto.StreamFrameToken, Token: token}); err != nil {
			return err
		}
	}
	env := result.Envelope
	return emit(dto.ChatStreamFrame{Type: dto.StreamFrameEnvelope, Envelope: &env})
}

func (s *chatService) run(ctx context.Context, req *dto.ChatRequest) (*rag.Result, error) {
	started := time.Now()

	messages := make([]llm.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	result, err := s.orchestrator.Orchestrate(ctx, messages, req.DocIds, req.ForceWeb)
	if err != nil {
		return nil, err
	}

	s.publishAnswered(ctx, result, time.Since(started))
	return result, nil
}

// publishAnswered emits the analytics event on the in-process bus and mirrors
// it to NATS when connected. Event delivery is best effort; a bus failure
// never affects the chat response.
func (s *chatService) publishAnswered(ctx context.Context, result *rag.Result, took time.Duration) {
	evt := events.NewChatAnswered(
		result.Query,
		result.Envelope.Sources.Type,
		len(result.Envelope.Citations),
		len(result.Tokens),
		took.Milliseconds(),
	)

	payload, err := json.Marshal(evt.Payload())
	if err != nil {
		s.logger.Warn("ChatService", "failed to marshal answered event", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("ChatService", "failed to publish answered event", map[string]interface{}{"error": err.Error()})
	}

	if s.natsPublisher != nil {
		if err := s.natsPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("ChatService", "failed to mirror answered event to NATS", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("ChatService", "chat answered", map[string]interface{}{
		"query_preview": preview(result.Query, 80),
		"source_type":   result.Envelope.Sources.Type,
		"tokens":        len(result.Tokens),
		"duration_ms":   took.Milliseconds(),
	})
}

func preview(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		return s[:max]
	}
	return s
}
