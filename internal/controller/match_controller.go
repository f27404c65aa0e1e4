package controller

import (
	"fsnb-matcher-be/internal/dto"
	"fsnb-matcher-be/internal/pkg/serverutils"
	"fsnb-matcher-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMatchController interface {
	RegisterRoutes(r fiber.Router)
	Match(ctx *fiber.Ctx) error
	MatchReport(ctx *fiber.Ctx) error
}

type matchController struct {
	matcherService service.IMatcherService
	reportService  service.IReportService
}

func NewMatchController(matcherService service.IMatcherService, reportService service.IReportService) IMatchController {
	return &matchController{
		matcherService: matcherService,
		reportService:  reportService,
	}
}

func (c *matchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/match/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Match)
	h.Post("report", c.MatchReport)
}

// Match runs the one-shot batch match and returns candidates per row.
func (c *matchController) Match(ctx *fiber.Ctx) error {
	var req dto.MatchBatchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	matched, err := c.matcherService.MatchRows(ctx.Context(), req.Items)
	if err != nil {
		return err
	}

	res := dto.MatchBatchResponse{Items: make([]dto.MatchRowResponse, len(matched))}
	for i, row := range matched {
		res.Items[i] = toMatchRowResponse(row)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success match batch", res))
}

// MatchReport runs the batch match and streams the result as an xlsx
// workbook, auto-selections taken as final.
func (c *matchController) MatchReport(ctx *fiber.Ctx) error {
	var req dto.MatchBatchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	matched, err := c.matcherService.MatchRows(ctx.Context(), req.Items)
	if err != nil {
		return err
	}

	data, err := c.reportService.BuildMatchReport(matched)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="smeta.xlsx"`)
	return ctx.Send(data)
}
