package handler

import (
	"errors"

	"go-gudang-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OpnameHandler struct {
	service service.OpnameService
}

func NewOpnameHandler(s service.OpnameService) *OpnameHandler {
	return &OpnameHandler{service: s}
}

func (h *OpnameHandler) CreateOpname(c *fiber.Ctx) error {
	var req service.OpnameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	// The officer on the record is the logged-in operator, not body input.
	record, err := h.service.Create(&req, getOperatorName(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock opname recorded", "data": record})
}

func (h *OpnameHandler) GetOpnames(c *fiber.Ctx) error {
	records, err := h.service.List()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(records)
}

func (h *OpnameHandler) GetOpname(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid opname ID"})
	}

	record, err := h.service.Get(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Opname record not found"})
	}
	return c.JSON(record)
}

func (h *OpnameHandler) UpdateOpname(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid opname ID"})
	}

	var req service.OpnameUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	record, err := h.service.Update(id, &req, getOperatorID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Opname record not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Stock opname updated", "data": record})
}
