package handlers

import (
	"bytes"
	"fmt"

	"paynet/internal/services/commission"
	"paynet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CommissionHandler struct {
	commissions commission.Service
	log         *zap.Logger
}

func NewCommissionHandler(commissions commission.Service, log *zap.Logger) *CommissionHandler {
	return &CommissionHandler{commissions: commissions, log: log.Named("commission.handler")}
}

func (h *CommissionHandler) fail(c *fiber.Ctx, err error) error {
	return utils.Error(c, h.log, err)
}

// BulkCreateRequest is the body of a bulk create.
type BulkCreateRequest struct {
	ServiceType string                 `json:"service_type"`
	Entries     []commission.BulkEntry `json:"entries"`
}

// BulkUpdateRequest is the body of a bulk update.
type BulkUpdateRequest struct {
	ServiceType string                       `json:"service_type"`
	Entries     []commission.BulkUpdateEntry `json:"entries"`
}

func (h *CommissionHandler) CreateCommission(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	schemeID, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	var input commission.CreateCommissionInput
	if err := parseBody(c, &input); err != nil {
		return h.fail(c, err)
	}

	created, err := h.commissions.CreateCommission(c.UserContext(), actor, schemeID, input)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Created(c, created)
}

// BulkCreate answers 200 with the per-entry report even when every entry
// failed.
func (h *CommissionHandler) BulkCreate(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	schemeID, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	var input BulkCreateRequest
	if err := parseBody(c, &input); err != nil {
		return h.fail(c, err)
	}

	res, err := h.commissions.BulkCreateCommissions(c.UserContext(), actor, schemeID, input.ServiceType, input.Entries)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, res)
}

func (h *CommissionHandler) BulkUpdate(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	schemeID, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	var input BulkUpdateRequest
	if err := parseBody(c, &input); err != nil {
		return h.fail(c, err)
	}

	res, err := h.commissions.BulkUpdateCommissions(c.UserContext(), actor, schemeID, input.ServiceType, input.Entries)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, res)
}

func (h *CommissionHandler) ListCommissions(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	schemeID, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	list, err := h.commissions.ListCommissions(c.UserContext(), actor, schemeID, c.Query("service_type"))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, fiber.Map{"data": list, "count": len(list)})
}

func (h *CommissionHandler) ExportCSV(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	schemeID, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var buf bytes.Buffer
	if err := h.commissions.ExportCSV(c.UserContext(), actor, schemeID, c.Query("service_type"), &buf); err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="scheme-%d-commissions.csv"`, schemeID))
	return c.Send(buf.Bytes())
}

func (h *CommissionHandler) GetCommission(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	found, err := h.commissions.GetCommission(c.UserContext(), actor, id)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, found)
}

func (h *CommissionHandler) UpdateCommission(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	var input commission.UpdateCommissionInput
	if err := parseBody(c, &input); err != nil {
		return h.fail(c, err)
	}

	updated, err := h.commissions.UpdateCommission(c.UserContext(), actor, id, input)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, updated)
}

func (h *CommissionHandler) DeleteCommission(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.commissions.DeleteCommission(c.UserContext(), actor, id); err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, fiber.Map{"success": true})
}

func (h *CommissionHandler) CreateSlab(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	var input commission.SlabInput
	if err := parseBody(c, &input); err != nil {
		return h.fail(c, err)
	}

	slab, err := h.commissions.CreateSlab(c.UserContext(), actor, id, input)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Created(c, slab)
}

func (h *CommissionHandler) ListSlabs(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	slabs, err := h.commissions.ListSlabs(c.UserContext(), actor, id)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, fiber.Map{"data": slabs, "count": len(slabs)})
}

func (h *CommissionHandler) UpdateSlab(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	var input commission.UpdateSlabInput
	if err := parseBody(c, &input); err != nil {
		return h.fail(c, err)
	}

	slab, err := h.commissions.UpdateSlab(c.UserContext(), actor, id, input)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, slab)
}

func (h *CommissionHandler) DeleteSlab(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.commissions.DeleteSlab(c.UserContext(), actor, id); err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, fiber.Map{"success": true})
}

func (h *CommissionHandler) Calculate(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return h.fail(c, err)
	}
	var input commission.CalculateInput
	if err := parseBody(c, &input); err != nil {
		return h.fail(c, err)
	}

	res, err := h.commissions.Calculate(c.UserContext(), actor, input)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, res)
}
