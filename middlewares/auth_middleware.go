package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/SanathRai33/RaiZen-Server/responses"
)

// Protect guards a route with bearer-token authentication. On success
// the token's user id, email and role are stored in Locals.
func Protect(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return responses.Unauthorized(c, "No auth token, access denied")
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
			return responses.Unauthorized(c, "Invalid authorization header format")
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(bearerToken[1], claims, func(t *jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			return responses.Unauthorized(c, "Token verification failed, access denied")
		}

		userID, ok := claims["id"].(string)
		if !ok || userID == "" {
			return responses.Unauthorized(c, "User ID not found in token")
		}
		c.Locals("userId", userID)
		if email, ok := claims["email"].(string); ok {
			c.Locals("email", email)
		}
		if role, ok := claims["role"].(string); ok {
			c.Locals("role", role)
		}

		return c.Next()
	}
}

// AdminOnly rejects callers whose token role is not admin. It must run
// after Protect.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok || role != "admin" {
			return responses.Unauthorized(c, "Admin access required")
		}
		return c.Next()
	}
}
