package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /transactions のリクエスト
type TransactionRequest struct {
	ProductID rawValue `json:"productId"`
	Amount    rawValue `json:"amount"`
}

// /transactions と /reports
type TransactionHandler struct {
	uc *usecase.InventoryUsecase
}

// DI
func NewTransactionHandler(uc *usecase.InventoryUsecase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

func (h *TransactionHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/transactions", h.record)
	e.GET("/reports", h.reports)
}

func (h *TransactionHandler) record(c echo.Context) error {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.uc.RecordTransaction(c.Request().Context(), usecase.TransactionInput{
		ProductID: string(req.ProductID),
		Amount:    string(req.Amount),
	})
	if err != nil {
		return writeError(c, err)
	}

	//更新後の商品を返す（元のAPIと同じ形）
	return c.JSON(http.StatusOK, p)
}

func (h *TransactionHandler) reports(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.ListTransactions(c.Request().Context()))
}
