package controller

import (
	"design-memory-be/internal/dto"
	"design-memory-be/internal/pkg/serverutils"
	"design-memory-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProjectController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
}

type projectController struct {
	projects service.IProjectService
	feedback service.IFeedbackService
}

func NewProjectController(projects service.IProjectService, feedback service.IFeedbackService) IProjectController {
	return &projectController{projects: projects, feedback: feedback}
}

func (c *projectController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/projects", jwtMiddleware)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Post("/links", c.CreateLink)
	h.Get("/:id", c.Show)
	h.Get("/:id/versions", c.ListVersions)
	h.Post("/:id/versions", c.CreateVersion)
	h.Get("/:id/canonical", c.Canonical)
	h.Get("/:id/feedback", c.ListFeedback)
	h.Get("/:id/links", c.ListLinks)
	h.Get("/:id/messages", c.ListMessages)

	r.Post("/versions/:id/images", jwtMiddleware, c.AddImage)
}

func (c *projectController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.projects.List(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all projects", res))
}

func (c *projectController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.projects.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create project", res))
}

func (c *projectController) Show(ctx *fiber.Ctx) error {
	userId, projectId, err := userAndParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.projects.Show(ctx.UserContext(), userId, projectId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show project", res))
}

func (c *projectController) ListVersions(ctx *fiber.Ctx) error {
	userId, projectId, err := userAndParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.projects.ListVersions(ctx.UserContext(), userId, projectId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get versions", res))
}

func (c *projectController) CreateVersion(ctx *fiber.Ctx) error {
	userId, projectId, err := userAndParam(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateVersionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return serverutils.BadRequest("invalid request body")
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.projects.CreateVersion(ctx.UserContext(), userId, projectId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create version", res))
}

func (c *projectController) Canonical(ctx *fiber.Ctx) error {
	userId, projectId, err := userAndParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.projects.Canonical(ctx.UserContext(), userId, projectId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get canonical version", res))
}

func (c *projectController) AddImage(ctx *fiber.Ctx) error {
	userId, versionId, err := userAndParam(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.projects.AddImage(ctx.UserContext(), userId, versionId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success add image", res))
}

func (c *projectController) ListFeedback(ctx *fiber.Ctx) error {
	userId, projectId, err := userAndParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.feedback.ListByProject(ctx.UserContext(), userId, projectId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get feedback", res))
}

func (c *projectController) CreateLink(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateLinkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.projects.CreateLink(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create link", res))
}

func (c *projectController) ListLinks(ctx *fiber.Ctx) error {
	userId, projectId, err := userAndParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.projects.ListLinks(ctx.UserContext(), userId, projectId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get links", res))
}

func (c *projectController) ListMessages(ctx *fiber.Ctx) error {
	userId, projectId, err := userAndParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.projects.ListMessages(ctx.UserContext(), userId, projectId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get messages", res))
}
