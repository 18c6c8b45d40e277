package controller

import (
	"design-memory-be/internal/dto"
	"design-memory-be/internal/pkg/serverutils"
	"design-memory-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	// turnLimiter guards the agent turn route; nil disables limiting.
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler, turnLimiter fiber.Handler)
}

type assistantController struct {
	service service.IAssistantService
}

func NewAssistantController(service service.IAssistantService) IAssistantController {
	return &assistantController{service: service}
}

func (c *assistantController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler, turnLimiter fiber.Handler) {
	r.Post("/context/resolve", jwtMiddleware, c.ResolveContext)
	r.Post("/assistant/suggest", jwtMiddleware, c.Suggest)

	chat := []fiber.Handler{jwtMiddleware}
	if turnLimiter != nil {
		chat = append(chat, turnLimiter)
	}
	chat = append(chat, c.Chat)
	r.Post("/agent/chat", chat...)
}

func (c *assistantController) ResolveContext(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.ResolveContextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ResolveContext(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Context resolved", res))
}

func (c *assistantController) Suggest(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SuggestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Suggest(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Suggestions generated", res))
}

func (c *assistantController) Chat(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.AgentChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Turn completed", res))
}
