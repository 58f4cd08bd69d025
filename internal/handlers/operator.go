package handlers

import (
	"paynet/internal/services/operator"
	"paynet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type OperatorHandler struct {
	operators operator.Service
	log       *zap.Logger
}

func NewOperatorHandler(operators operator.Service, log *zap.Logger) *OperatorHandler {
	return &OperatorHandler{operators: operators, log: log.Named("operator.handler")}
}

func (h *OperatorHandler) CreateOperator(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return utils.Error(c, h.log, err)
	}
	var input operator.CreateOperatorInput
	if err := parseBody(c, &input); err != nil {
		return utils.Error(c, h.log, err)
	}

	op, err := h.operators.CreateOperator(c.UserContext(), actor, input)
	if err != nil {
		return utils.Error(c, h.log, err)
	}
	return utils.Created(c, op)
}

func (h *OperatorHandler) ListOperators(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return utils.Error(c, h.log, err)
	}

	ops, err := h.operators.ListOperators(c.UserContext(), actor, c.Query("service_type"))
	if err != nil {
		return utils.Error(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"data": ops, "count": len(ops)})
}

func (h *OperatorHandler) GetOperator(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return utils.Error(c, h.log, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return utils.Error(c, h.log, err)
	}

	op, err := h.operators.GetOperator(c.UserContext(), actor, id)
	if err != nil {
		return utils.Error(c, h.log, err)
	}
	return utils.Success(c, op)
}
