package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"workmate-bot/internal/dto"
	"workmate-bot/internal/pkg/serverutils"
	"workmate-bot/pkg/knowledge"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Rebuild(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	index *knowledge.Index
}

func NewKnowledgeController(index *knowledge.Index) IKnowledgeController {
	return &knowledgeController{index: index}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge/v1")
	h.Post("rebuild", c.Rebuild)
	h.Get("stats", c.Stats)
}

func (c *knowledgeController) Rebuild(ctx *fiber.Ctx) error {
	if err := c.index.Rebuild(ctx.Context()); err != nil {
		if errors.Is(err, knowledge.ErrRebuildInFlight) {
			return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse("rebuild already in flight"))
		}
		return fiber.NewError(fiber.StatusInternalServerError, "rebuild failed")
	}

	docs, chunks, _ := c.index.Stats()
	return ctx.JSON(serverutils.SuccessResponse("index rebuilt", fiber.Map{
		"documents": len(docs),
		"chunks":    chunks,
	}))
}

func (c *knowledgeController) Stats(ctx *fiber.Ctx) error {
	docs, chunks, lastBuild := c.index.Stats()

	res := dto.KnowledgeStatsResponse{
		Documents:  docs,
		ChunkCount: chunks,
	}
	if !lastBuild.IsZero() {
		res.LastBuild = lastBuild.Format(time.RFC3339)
	}

	return ctx.JSON(serverutils.SuccessResponse("knowledge stats", res))
}
