// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"errors"
	"strings"

	domainErrors "paynet/internal/errors"
	"paynet/internal/models"
	"paynet/internal/services/hierarchy"
	"paynet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const claimsKey = "claims"

// AuthMiddleware validates the HS256 JWTs issued by the auth service and
// stores the caller's claims on the request context.
type AuthMiddleware struct {
	secret    []byte
	hierarchy *hierarchy.Hierarchy
	log       *zap.Logger
}

func NewAuthMiddleware(secret string, h *hierarchy.Hierarchy, log *zap.Logger) *AuthMiddleware {
	if h == nil {
		panic("hierarchy is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthMiddleware{secret: []byte(secret), hierarchy: h, log: log.Named("auth")}
}

// Handler validates JWT tokens and adds claims to the request context.
// It checks for:
// - Presence of Authorization header with Bearer token
// - Valid HS256 signature and expiry
// - A role known to the network hierarchy
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return unauthorized(c, "invalid authorization format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		m.log.Debug("token rejected", zap.Error(err))
		if errors.Is(err, jwt.ErrTokenExpired) {
			return unauthorized(c, "token expired")
		}
		return unauthorized(c, "invalid token")
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return unauthorized(c, "invalid claims")
	}
	if !m.hierarchy.Known(claims.Role) {
		m.log.Warn("token carries unknown role", zap.Uint("user_id", claims.UserID), zap.String("role", claims.Role))
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "unknown role", "code": domainErrors.CodeActionForbidden})
	}

	c.Locals(claimsKey, claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

// Claims returns the claims stored by Handler.
func Claims(c *fiber.Ctx) (*models.UserClaims, bool) {
	claims, ok := c.Locals(claimsKey).(*models.UserClaims)
	return claims, ok && claims != nil
}

// Actor returns the authenticated caller stored by Handler.
func Actor(c *fiber.Ctx) (models.Actor, bool) {
	claims, ok := Claims(c)
	if !ok {
		return models.Actor{}, false
	}
	return claims.Actor(), true
}

func unauthorized(c *fiber.Ctx, message string) error {
	return utils.Unauthorized(c, message)
}
