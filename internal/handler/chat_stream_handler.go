package handler

import (
	"context"
	"errors"
	"strings"

	"design-memory-be/internal/pkg/logger"
	"design-memory-be/internal/pkg/serverutils"
	"design-memory-be/internal/repository/unitofwork"
	internalWS "design-memory-be/internal/websocket"
	"design-memory-be/pkg/memory/history"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ChatStreamHandler upgrades an authenticated request into a chat session
// on one project.
type ChatStreamHandler struct {
	uowFactory unitofwork.RepositoryFactory
	store      *history.Store
	runner     internalWS.TurnRunner
	hub        *internalWS.Hub
	jwtSecret  string
	logger     logger.ILogger
	// ctx bounds every session; cancel it on shutdown.
	ctx context.Context
}

func NewChatStreamHandler(
	ctx context.Context,
	uowFactory unitofwork.RepositoryFactory,
	store *history.Store,
	runner internalWS.TurnRunner,
	hub *internalWS.Hub,
	jwtSecret string,
	log logger.ILogger,
) *ChatStreamHandler {
	return &ChatStreamHandler{
		ctx:        ctx,
		uowFactory: uowFactory,
		store:      store,
		runner:     runner,
		hub:        hub,
		jwtSecret:  jwtSecret,
		logger:     log,
	}
}

func (h *ChatStreamHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/chat", h.ServeWs)
}

// ServeWs checks the handshake and hands the connection to the hub.
func (h *ChatStreamHandler) ServeWs(c *fiber.Ctx) error {
	// Query param first (browsers), then the Authorization header.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		tokenStr = strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
	}
	if tokenStr == "" {
		return serverutils.NewAppError(fiber.StatusUnauthorized, "missing token")
	}

	userID, err := serverutils.ParseToken(h.jwtSecret, tokenStr)
	if err != nil {
		h.logger.Warn("ChatStreamHandler", "Invalid token in handshake", map[string]interface{}{"error": err.Error()})
		return serverutils.NewAppError(fiber.StatusUnauthorized, "invalid token")
	}

	projectID, err := uuid.Parse(c.Query("project_id"))
	if err != nil {
		return serverutils.BadRequest("project_id must be a valid uuid")
	}

	uow := h.uowFactory.NewUnitOfWork(c.UserContext())
	if _, err := h.store.OwnedProject(c.UserContext(), uow, userID, projectID); err != nil {
		if errors.Is(err, history.ErrProjectNotFound) {
			return serverutils.NotFound("project not found")
		}
		return err
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("ChatStreamHandler", "Chat session started", map[string]interface{}{
			"user_id":    userID,
			"project_id": projectID,
		})
		internalWS.ServeWs(h.ctx, h.hub, conn, h.runner, userID, projectID)
		h.logger.Info("ChatStreamHandler", "Chat session ended", map[string]interface{}{
			"user_id":    userID,
			"project_id": projectID,
		})
	})(c)
}
