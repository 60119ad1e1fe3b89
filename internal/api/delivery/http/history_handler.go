package http

import (
	"errors"
	"net/http"

	"equity-portfolio-tracker/internal/api/dto"
	"equity-portfolio-tracker/internal/api/service"
	"equity-portfolio-tracker/internal/valuation"
	"equity-portfolio-tracker/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// HistoryHandler handles writes to a stock's event history: transactions,
// splits, dividend events and bulk imports.
type HistoryHandler struct {
	historyService service.HistoryService
	logger         *logger.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyService service.HistoryService, logger *logger.Logger) *HistoryHandler {
	return &HistoryHandler{historyService: historyService, logger: logger}
}

// RegisterRoutes registers the history routes. Stock-scoped creates hang off
// the stocks group; id-scoped edits and deletes off the api root.
func (h *HistoryHandler) RegisterRoutes(stocks, root *echo.Group) {
	stocks.POST("/:id/transactions", h.CreateTransaction)
	stocks.POST("/:id/splits", h.CreateSplit)
	stocks.POST("/:id/dividends", h.CreateDividend)
	root.DELETE("/transactions/:id", h.DeleteTransaction)
	root.PUT("/splits/:id", h.UpdateSplit)
	root.DELETE("/splits/:id", h.DeleteSplit)
	root.POST("/imports", h.BulkImport)
}

// CreateTransaction records a buy or sell for the stock.
func (h *HistoryHandler) CreateTransaction(c echo.Context) error {
	stockID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid stock ID"})
	}
	var req dto.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	tx, err := h.historyService.RecordTransaction(c.Request().Context(), stockID, &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, tx)
}

// DeleteTransaction removes a transaction by id.
func (h *HistoryHandler) DeleteTransaction(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid transaction ID"})
	}
	if err := h.historyService.DeleteTransaction(c.Request().Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Transaction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateSplit records a stock split and triggers full re-adjustment of the
// stock's transactions. An invalid split (non-positive ratio, duplicate
// date) is rejected before anything is recomputed.
func (h *HistoryHandler) CreateSplit(c echo.Context) error {
	stockID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid stock ID"})
	}
	var req dto.CreateSplitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	split, err := h.historyService.ApplySplit(c.Request().Context(), stockID, &req)
	if err != nil {
		if errors.Is(err, valuation.ErrInvalidSplit) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to apply split", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, split)
}

// UpdateSplit edits a split and re-adjusts the stock's transactions.
func (h *HistoryHandler) UpdateSplit(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid split ID"})
	}
	var req dto.UpdateSplitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	split, err := h.historyService.UpdateSplit(c.Request().Context(), id, &req)
	if err != nil {
		if errors.Is(err, valuation.ErrInvalidSplit) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Split not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, split)
}

// DeleteSplit removes a split and re-adjusts the stock's transactions.
func (h *HistoryHandler) DeleteSplit(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid split ID"})
	}
	if err := h.historyService.RemoveSplit(c.Request().Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Split not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateDividend records a cash dividend or DRP issue.
func (h *HistoryHandler) CreateDividend(c echo.Context) error {
	stockID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid stock ID"})
	}
	var req dto.CreateDividendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	event, err := h.historyService.RecordDividend(c.Request().Context(), stockID, &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, event)
}

// BulkImport loads a stock's transaction and split history in one request.
func (h *HistoryHandler) BulkImport(c echo.Context) error {
	var req dto.BulkImportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.historyService.BulkImport(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, valuation.ErrInvalidSplit) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Bulk import failed", logger.ErrorField(err))
		if resp != nil {
			return c.JSON(http.StatusInternalServerError, resp)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, resp)
}
