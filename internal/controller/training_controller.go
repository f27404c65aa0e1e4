package controller

import (
	"fsnb-matcher-be/internal/dto"
	"fsnb-matcher-be/internal/pkg/serverutils"
	"fsnb-matcher-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITrainingController interface {
	RegisterRoutes(r fiber.Router)
	NoneMatch(ctx *fiber.Ctx) error
}

type trainingController struct {
	trainingService service.ITrainingService
}

func NewTrainingController(trainingService service.ITrainingService) ITrainingController {
	return &trainingController{
		trainingService: trainingService,
	}
}

func (c *trainingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/training/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("none-match", c.NoneMatch)
}

// NoneMatch exports committed none_match rows for catalog-gap review.
func (c *trainingController) NoneMatch(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 0)
	offset := ctx.QueryInt("offset", 0)

	records, err := c.trainingService.ExportNoneMatch(ctx.Context(), limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success export none match rows", dto.NoneMatchExportResponse{
		Items: toNoneMatchResponses(records),
	}))
}
