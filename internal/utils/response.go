package utils

import (
	"errors"

	domainErrors "paynet/internal/errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// Created sends a JSON response with status 201.
func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": message, "code": domainErrors.CodeValidationFailed})
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusUnauthorized, fiber.Map{"error": message})
}

// InternalError sends a JSON error response with status 500.
func InternalError(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusInternalServerError, fiber.Map{"error": message})
}

// StatusFor maps a domain error kind to its HTTP status.
func StatusFor(kind domainErrors.Kind) int {
	switch kind {
	case domainErrors.KindValidation:
		return fiber.StatusBadRequest
	case domainErrors.KindPermission:
		return fiber.StatusForbidden
	case domainErrors.KindNotFound:
		return fiber.StatusNotFound
	case domainErrors.KindConflict:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// Error writes err as a JSON error body. Domain errors keep their message,
// code and fields; fiber errors keep their status; anything else is logged
// and reported as a 500.
func Error(c *fiber.Ctx, log *zap.Logger, err error) error {
	if de, ok := domainErrors.As(err); ok {
		return Respond(c, StatusFor(de.Kind), de)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return Respond(c, fe.Code, fiber.Map{"error": fe.Message})
	}
	log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))
	return InternalError(c, "internal server error")
}
