package controller

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Stream(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	logger      logger.ILogger
}

func NewChatController(chatService service.IChatService, log logger.ILogger) IChatController {
	return &chatController{
		chatService: chatService,
		logger:      log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.Chat)

	// WebSocket streaming variant
	r.Get("/ws/chat", c.Stream)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Chat(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return ctx.Status(fiber.StatusRequestTimeout).JSON(serverutils.ErrorResponse(408, "Request cancelled"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
}

// Stream upgrades the connection, reads one chat request frame, then streams
// answer tokens followed by the terminal envelope frame. A client disconnect
// cancels the in-flight orchestration.
func (c *chatController) Stream(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()

		var req dto.ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			_ = conn.WriteJSON(dto.ChatStreamFrame{Type: dto.StreamFrameError, Message: "Invalid request frame"})
			return
		}
		if err := serverutils.ValidateRequest(req); err != nil {
			_ = conn.WriteJSON(dto.ChatStreamFrame{Type: dto.StreamFrameError, Message: err.Error()})
			return
		}

		runCtx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Drain the read side so a closed socket cancels orchestration.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		err := c.chatService.Stream(runCtx, &req, func(frame dto.ChatStreamFrame) error {
			data, err := json.Marshal(frame)
			if err != nil {
				return err
			}
			return conn.WriteMessage(websocket.TextMessage, data)
		})
		if err != nil {
			c.logger.Warn("ChatController", "stream ended with error", map[string]interface{}{"error": err.Error()})
		}
	})(ctx)
}
