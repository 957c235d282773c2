package handler

import (
	"errors"

	"go-gudang-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LedgerHandler struct {
	service service.LedgerService
}

func NewLedgerHandler(s service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: s}
}

// Operator identity is set in locals by the auth middleware; the fallbacks
// only matter on unprotected routes during development.
func getOperatorID(c *fiber.Ctx) string {
	id := c.Locals("operator_id")
	if id == nil {
		return "system"
	}
	return id.(string)
}

func getOperatorName(c *fiber.Ctx) string {
	name := c.Locals("operator_name")
	if name == nil {
		return "Unknown"
	}
	return name.(string)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

func (h *LedgerHandler) CreateIncoming(c *fiber.Ctx) error {
	var req service.IncomingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tx, err := h.service.RecordIncoming(&req, getOperatorID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Incoming transaction recorded", "data": tx})
}

func (h *LedgerHandler) GetIncoming(c *fiber.Ctx) error {
	txs, err := h.service.ListIncoming()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(txs)
}

func (h *LedgerHandler) UpdateIncoming(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	var req service.IncomingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tx, err := h.service.UpdateIncoming(id, &req, getOperatorID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Incoming transaction updated", "data": tx})
}

func (h *LedgerHandler) DeleteIncoming(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	if err := h.service.DeleteIncoming(id, getOperatorID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Incoming transaction deleted"})
}

func (h *LedgerHandler) CreateOutgoing(c *fiber.Ctx) error {
	var req service.OutgoingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tx, err := h.service.RecordOutgoing(&req, getOperatorID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Outgoing transaction recorded", "data": tx})
}

func (h *LedgerHandler) GetOutgoing(c *fiber.Ctx) error {
	txs, err := h.service.ListOutgoing()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(txs)
}

func (h *LedgerHandler) UpdateOutgoing(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	var req service.OutgoingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tx, err := h.service.UpdateOutgoing(id, &req, getOperatorID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Outgoing transaction updated", "data": tx})
}

func (h *LedgerHandler) DeleteOutgoing(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	if err := h.service.DeleteOutgoing(id, getOperatorID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Outgoing transaction deleted"})
}

// ImportIncoming accepts pre-parsed spreadsheet rows. Rows commit one by
// one: the response carries a success count and per-row errors, not an
// all-or-nothing result.
func (h *LedgerHandler) ImportIncoming(c *fiber.Ctx) error {
	var rows []service.IncomingRequest
	if err := c.BodyParser(&rows); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.ImportIncoming(rows, getOperatorID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Import finished", "result": result})
}

func (h *LedgerHandler) ImportOutgoing(c *fiber.Ctx) error {
	var rows []service.OutgoingRequest
	if err := c.BodyParser(&rows); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.ImportOutgoing(rows, getOperatorID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Import finished", "result": result})
}
