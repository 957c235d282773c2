package handler

import (
	"go-gudang-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StockHandler struct {
	service service.StockService
}

func NewStockHandler(s service.StockService) *StockHandler {
	return &StockHandler{service: s}
}

// GetStock returns supplier-level rows and item rollups matching the search
// filter. Query param: q (optional substring match).
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	view, err := h.service.Query(c.Query("q"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock view"})
	}
	return c.JSON(view)
}

// GetItems returns only the rollups, for selection controls.
func (h *StockHandler) GetItems(c *fiber.Ctx) error {
	view, err := h.service.Query(c.Query("q"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock view"})
	}
	return c.JSON(view.Rollups)
}
