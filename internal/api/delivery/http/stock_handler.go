package http

import (
	"errors"
	"net/http"
	"time"

	"equity-portfolio-tracker/internal/api/dto"
	"equity-portfolio-tracker/internal/api/service"
	"equity-portfolio-tracker/pkg/logger"
	"equity-portfolio-tracker/pkg/utils"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// StockHandler handles HTTP requests for the stock registry and per-stock
// position snapshots.
type StockHandler struct {
	stockService     service.StockService
	valuationService service.ValuationService
	logger           *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService service.StockService, valuationService service.ValuationService, logger *logger.Logger) *StockHandler {
	return &StockHandler{
		stockService:     stockService,
		valuationService: valuationService,
		logger:           logger,
	}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateStock)
	g.GET("", h.GetAllStocks)
	g.GET("/:id", h.GetStock)
	g.PUT("/:id/drp", h.UpdateDRP)
	g.PUT("/:id/market", h.UpdateMarket)
	g.GET("/:id/position", h.GetPosition)
}

// CreateStock registers a stock, deriving its Yahoo symbol from the market
// suffix when a market is given.
func (h *StockHandler) CreateStock(c echo.Context) error {
	var req dto.CreateStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	stock, err := h.stockService.Create(c.Request().Context(), &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, stock)
}

// GetAllStocks lists every registered stock.
func (h *StockHandler) GetAllStocks(c echo.Context) error {
	stocks, err := h.stockService.List(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list stocks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list stocks"})
	}
	return c.JSON(http.StatusOK, stocks)
}

// GetStock returns one stock by id.
func (h *StockHandler) GetStock(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid stock ID"})
	}
	stock, err := h.stockService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Stock not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stock)
}

// UpdateDRP toggles dividend reinvestment for the stock.
func (h *StockHandler) UpdateDRP(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid stock ID"})
	}
	var req dto.UpdateDRPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	stock, err := h.stockService.UpdateDRP(c.Request().Context(), id, req.DRP)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stock)
}

// UpdateMarket moves the stock to another market and re-derives its Yahoo
// symbol.
func (h *StockHandler) UpdateMarket(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid stock ID"})
	}
	var req dto.UpdateMarketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	stock, err := h.stockService.UpdateMarket(c.Request().Context(), id, req.MarketOrIndex)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stock)
}

// GetPosition computes the stock's position snapshot. An optional as_of query
// parameter (YYYY-MM-DD) restricts the event streams for historical
// valuation.
func (h *StockHandler) GetPosition(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid stock ID"})
	}

	var asOf *time.Time
	if raw := c.QueryParam("as_of"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid as_of date, want YYYY-MM-DD"})
		}
		asOf = utils.ToPointer(parsed)
	}

	snap, err := h.valuationService.ComputePosition(c.Request().Context(), id, asOf)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Stock not found"})
		}
		h.logger.Error("Position computation failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute position"})
	}
	return c.JSON(http.StatusOK, snap)
}
