package handlers

import (
	"paynet/internal/services/scheme"
	"paynet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SchemeHandler struct {
	schemes scheme.Service
	log     *zap.Logger
}

func NewSchemeHandler(schemes scheme.Service, log *zap.Logger) *SchemeHandler {
	return &SchemeHandler{schemes: schemes, log: log.Named("scheme.handler")}
}

func (h *SchemeHandler) fail(c *fiber.Ctx, err error) error {
	return utils.Error(c, h.log, err)
}

func (h *SchemeHandler) CreateScheme(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	var input scheme.CreateSchemeInput
	if err := parseBody(c, &input); err != nil {
		return h.fail(c, err)
	}

	s, err := h.schemes.CreateScheme(c.UserContext(), actor, input)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Created(c, s)
}

func (h *SchemeHandler) ListSchemes(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	isActive, err := queryBool(c, "is_active")
	if err != nil {
		return h.fail(c, err)
	}
	from, err := queryDate(c, "from_date")
	if err != nil {
		return h.fail(c, err)
	}
	to, err := queryDate(c, "to_date")
	if err != nil {
		return h.fail(c, err)
	}
	p := utils.GetPagination(c, 1, scheme.DefaultPageSize)

	schemes, total, err := h.schemes.ListSchemes(c.UserContext(), actor, scheme.ListFilter{
		IsActive: isActive,
		Search:   c.Query("search"),
		FromDate: from,
		ToDate:   to,
		Page:     p.Page,
		Size:     p.Size,
	})
	if err != nil {
		return h.fail(c, err)
	}
	if p.Size > scheme.MaxPageSize {
		p.Size = scheme.MaxPageSize
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(schemes, p))
}

func (h *SchemeHandler) GetScheme(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	detail, err := h.schemes.GetScheme(c.UserContext(), actor, id)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, detail)
}

func (h *SchemeHandler) UpdateScheme(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	var input scheme.UpdateSchemeInput
	if err := parseBody(c, &input); err != nil {
		return h.fail(c, err)
	}

	s, err := h.schemes.UpdateScheme(c.UserContext(), actor, id, input)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, s)
}

type toggleStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

func (h *SchemeHandler) ToggleStatus(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	var input toggleStatusRequest
	if err := parseBody(c, &input); err != nil {
		return h.fail(c, err)
	}
	if input.IsActive == nil {
		return utils.BadRequest(c, "is_active is required")
	}

	s, err := h.schemes.ToggleStatus(c.UserContext(), actor, id, *input.IsActive)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, s)
}

func (h *SchemeHandler) DeleteScheme(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.schemes.DeleteScheme(c.UserContext(), actor, id); err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, fiber.Map{"success": true})
}

type transferRequest struct {
	NewOwnerID uint `json:"new_owner_id"`
}

func (h *SchemeHandler) TransferOwnership(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	var input transferRequest
	if err := parseBody(c, &input); err != nil {
		return h.fail(c, err)
	}

	s, err := h.schemes.TransferOwnership(c.UserContext(), actor, id, input.NewOwnerID)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, s)
}
