package controller

import (
	"fmt"
	"strconv"

	"fsnb-matcher-be/internal/dto"
	"fsnb-matcher-be/internal/pkg/apperror"
	"fsnb-matcher-be/internal/pkg/serverutils"
	"fsnb-matcher-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IReviewController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Index(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	SearchCandidates(ctx *fiber.Ctx) error
	RematchRow(ctx *fiber.Ctx) error
	SelectRow(ctx *fiber.Ctx) error
	SetLabel(ctx *fiber.Ctx) error
	SetNote(ctx *fiber.Ctx) error
	Commit(ctx *fiber.Ctx) error
	Report(ctx *fiber.Ctx) error
}

type reviewController struct {
	reviewService service.IReviewService
}

func NewReviewController(reviewService service.IReviewService) IReviewController {
	return &reviewController{
		reviewService: reviewService,
	}
}

func (c *reviewController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/review/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("items/search", c.SearchCandidates)
	h.Post("", c.Create)
	h.Get("", c.Index)
	h.Get(":id", c.Show)
	h.Get(":id/report", c.Report)
	h.Post(":id/commit", c.Commit)
	h.Post(":id/rows/:rowIdx/candidates", c.RematchRow)
	h.Patch(":id/rows/:rowIdx/selection", c.SelectRow)
	h.Patch(":id/rows/:rowIdx/label", c.SetLabel)
	h.Patch(":id/rows/:rowIdx/note", c.SetNote)
}

func parseSessionID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.Newf(apperror.CodeUnknownSession, "invalid session id %q", ctx.Params("id"))
	}
	return id, nil
}

func parseRowIdx(ctx *fiber.Ctx) (int, error) {
	rowIdx, err := strconv.Atoi(ctx.Params("rowIdx"))
	if err != nil || rowIdx < 0 {
		return 0, apperror.Newf(apperror.CodeUnknownRow, "invalid row index %q", ctx.Params("rowIdx"))
	}
	return rowIdx, nil
}

func (c *reviewController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateReviewSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	session, err := c.reviewService.CreateSession(ctx.Context(), req, serverutils.ActorEmail(ctx))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create review session", toSessionResponse(session)))
}

func (c *reviewController) Index(ctx *fiber.Ctx) error {
	sessions, err := c.reviewService.ListSessions(ctx.Context(), ctx.Query("status", ""))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list review sessions", dto.ListReviewSessionsResponse{
		Items: toSessionSummaryResponses(sessions),
	}))
}

func (c *reviewController) Show(ctx *fiber.Ctx) error {
	id, err := parseSessionID(ctx)
	if err != nil {
		return err
	}

	session, err := c.reviewService.GetSession(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show review session", toSessionResponse(session)))
}

func (c *reviewController) SearchCandidates(ctx *fiber.Ctx) error {
	q := ctx.Query("q", "")

	items, err := c.reviewService.SearchCandidates(ctx.Context(), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success search candidates", dto.SearchCandidatesResponse{
		Items: toCatalogItemResponses(items),
	}))
}

func (c *reviewController) RematchRow(ctx *fiber.Ctx) error {
	id, err := parseSessionID(ctx)
	if err != nil {
		return err
	}
	rowIdx, err := parseRowIdx(ctx)
	if err != nil {
		return err
	}

	row, err := c.reviewService.RematchRow(ctx.Context(), id, rowIdx)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success rematch row", dto.RematchRowResponse{
		RowIdx:     row.RowIdx,
		Candidates: toCandidateResponses(row.Candidates),
	}))
}

func (c *reviewController) SelectRow(ctx *fiber.Ctx) error {
	id, err := parseSessionID(ctx)
	if err != nil {
		return err
	}
	rowIdx, err := parseRowIdx(ctx)
	if err != nil {
		return err
	}

	var req dto.SelectRowRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	row, err := c.reviewService.SelectRow(ctx.Context(), id, rowIdx, req.ItemId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success select row", toReviewRowResponse(row)))
}

func (c *reviewController) SetLabel(ctx *fiber.Ctx) error {
	id, err := parseSessionID(ctx)
	if err != nil {
		return err
	}
	rowIdx, err := parseRowIdx(ctx)
	if err != nil {
		return err
	}

	var req dto.SetLabelRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	row, err := c.reviewService.SetLabel(ctx.Context(), id, rowIdx, req.Label)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success set label", toReviewRowResponse(row)))
}

func (c *reviewController) SetNote(ctx *fiber.Ctx) error {
	id, err := parseSessionID(ctx)
	if err != nil {
		return err
	}
	rowIdx, err := parseRowIdx(ctx)
	if err != nil {
		return err
	}

	var req dto.SetNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	row, err := c.reviewService.SetNote(ctx.Context(), id, rowIdx, req.Note)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success set note", toReviewRowResponse(row)))
}

func (c *reviewController) Commit(ctx *fiber.Ctx) error {
	id, err := parseSessionID(ctx)
	if err != nil {
		return err
	}

	session, err := c.reviewService.Commit(ctx.Context(), id, serverutils.ActorEmail(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success commit review session", toSessionResponse(session)))
}

func (c *reviewController) Report(ctx *fiber.Ctx) error {
	id, err := parseSessionID(ctx)
	if err != nil {
		return err
	}

	data, filename, err := c.reviewService.RenderReport(ctx.Context(), id)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Send(data)
}
