package http

import (
	"errors"
	"net/http"
	"strconv"

	"equity-portfolio-tracker/internal/api/dto"
	"equity-portfolio-tracker/internal/api/service"
	"equity-portfolio-tracker/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// PortfolioHandler handles HTTP requests for portfolios and their valuation.
type PortfolioHandler struct {
	portfolioService service.PortfolioService
	valuationService service.ValuationService
	logger           *logger.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService service.PortfolioService, valuationService service.ValuationService, logger *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		valuationService: valuationService,
		logger:           logger,
	}
}

// RegisterRoutes registers the portfolio routes to the Echo group.
func (h *PortfolioHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreatePortfolio)
	g.GET("", h.GetAllPortfolios)
	g.DELETE("/:id", h.DeletePortfolio)
	g.POST("/:id/stocks", h.AddStock)
	g.DELETE("/:id/stocks/:stockID", h.RemoveStock)
	g.GET("/:id/valuation", h.GetValuation)
}

// CreatePortfolio creates a new named portfolio.
func (h *PortfolioHandler) CreatePortfolio(c echo.Context) error {
	var req dto.CreatePortfolioRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	portfolio, err := h.portfolioService.Create(c.Request().Context(), &req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, portfolio)
}

// GetAllPortfolios lists every portfolio.
func (h *PortfolioHandler) GetAllPortfolios(c echo.Context) error {
	portfolios, err := h.portfolioService.List(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list portfolios", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list portfolios"})
	}
	return c.JSON(http.StatusOK, portfolios)
}

// DeletePortfolio removes a portfolio and its stock links.
func (h *PortfolioHandler) DeletePortfolio(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid portfolio ID"})
	}
	if err := h.portfolioService.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// AddStock links a stock into the portfolio.
func (h *PortfolioHandler) AddStock(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid portfolio ID"})
	}
	var req dto.AddStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	if err := h.portfolioService.AddStock(c.Request().Context(), id, req.StockID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Portfolio or stock not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveStock unlinks a stock from the portfolio.
func (h *PortfolioHandler) RemoveStock(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid portfolio ID"})
	}
	stockID, err := parseID(c, "stockID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid stock ID"})
	}
	if err := h.portfolioService.RemoveStock(c.Request().Context(), id, stockID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// GetValuation values every stock in the portfolio and returns per-stock
// snapshots with portfolio totals. Stocks with warnings are flagged in their
// snapshots, never omitted.
func (h *PortfolioHandler) GetValuation(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid portfolio ID"})
	}

	resp, err := h.valuationService.ComputePortfolio(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Portfolio not found"})
		}
		h.logger.Error("Portfolio valuation failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to value portfolio"})
	}
	return c.JSON(http.StatusOK, resp)
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
