package controller

import (
	"design-memory-be/internal/dto"
	"design-memory-be/internal/pkg/serverutils"
	"design-memory-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDemoController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
}

type demoController struct {
	service service.IDemoService
}

func NewDemoController(service service.IDemoService) IDemoController {
	return &demoController{service: service}
}

func (c *demoController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/demo", jwtMiddleware)
	h.Post("/seed", c.Seed)
	h.Post("/run_step", c.RunStep)
}

func (c *demoController) Seed(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Seed(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Demo seeded", res))
}

func (c *demoController) RunStep(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.DemoRunStepRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.RunStep(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Demo step completed", res))
}
