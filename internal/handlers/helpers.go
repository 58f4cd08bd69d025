package handlers

import (
	"strconv"
	"time"

	domainErrors "paynet/internal/errors"
	"paynet/internal/middleware"
	"paynet/internal/models"

	"github.com/gofiber/fiber/v2"
)

func requestActor(c *fiber.Ctx) (models.Actor, error) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return models.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return actor, nil
}

// paramID parses a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domainErrors.ValidationFields("invalid path parameter",
			map[string]string{name: "must be a positive integer"})
	}
	return uint(id), nil
}

func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return domainErrors.Validation(domainErrors.CodeValidationFailed, "invalid request format: %v", err)
	}
	return nil
}

func queryBool(c *fiber.Ctx, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domainErrors.ValidationFields("invalid query parameter", map[string]string{name: "must be true or false"})
	}
	return &v, nil
}

// queryDate accepts YYYY-MM-DD or RFC 3339.
func queryDate(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, domainErrors.ValidationFields("invalid query parameter",
		map[string]string{name: "must be a date (YYYY-MM-DD) or RFC 3339 timestamp"})
}
