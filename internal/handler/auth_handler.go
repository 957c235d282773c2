package handler

import (
	"go-gudang-ws/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type tokenRequest struct {
	OperatorID string `json:"operator_id"`
	Name       string `json:"name"`
}

// IssueToken mints an operator token for development and testing. In a real
// deployment the external identity provider issues tokens with the same
// claim shape and this route is disabled.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req tokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.OperatorID == "" || req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "operator_id and name are required"})
	}

	token, err := jwt.GenerateToken(req.OperatorID, req.Name)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate token"})
	}
	return c.JSON(fiber.Map{"token": token})
}
