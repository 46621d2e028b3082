package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-crowdfund/internal/ledger"
	"github.com/iliyamo/movie-crowdfund/internal/store"
)

// InvestmentHandler serves the investment endpoints on top of the
// ledger workflow.
type InvestmentHandler struct {
	Workflow    *ledger.Workflow
	Investments store.InvestmentStore
}

func NewInvestmentHandler(wf *ledger.Workflow, investments store.InvestmentStore) *InvestmentHandler {
	return &InvestmentHandler{Workflow: wf, Investments: investments}
}

type createInvestmentReq struct {
	MovieID    string `json:"movie_id"`
	InvestorID string `json:"investor_id"`
	StockCount int64  `json:"stock_count"`
}

type completePaymentReq struct {
	PaymentMethod string `json:"payment_method"`
}

// Create opens a pending investment and hands back the payment URL the
// investor must visit to confirm it.
func (h *InvestmentHandler) Create(c echo.Context) error {
	var req createInvestmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.MovieID = strings.TrimSpace(req.MovieID)
	req.InvestorID = strings.TrimSpace(req.InvestorID)
	if req.MovieID == "" || req.InvestorID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id and investor_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inv, err := h.Workflow.InitiateInvestment(ctx, req.MovieID, req.InvestorID, req.StockCount)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrMovieNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Movie not found"})
		case errors.Is(err, ledger.ErrCapacityExceeded):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Not enough stocks available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create investment"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"investment_id": inv.ID,
		"payment_url":   ledger.PaymentURL(inv.ID),
		"message":       "Investment created. Please complete payment to confirm your investment.",
	})
}

// CompletePayment confirms a pending investment. Confirming twice is
// rejected so the movie total is only incremented once.
func (h *InvestmentHandler) CompletePayment(c echo.Context) error {
	var req completePaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Workflow.ConfirmPayment(ctx, c.Param("id"), strings.TrimSpace(req.PaymentMethod)); err != nil {
		switch {
		case errors.Is(err, store.ErrInvestmentNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Investment not found"})
		case errors.Is(err, store.ErrAlreadyCompleted):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Payment already completed"})
		case errors.Is(err, store.ErrFundingExceeded):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Not enough stocks available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to complete payment"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Payment completed successfully. Your investment has been confirmed!",
	})
}

// List returns investments, filtered by investorId or by creatorId
// (investments into that creator's movies).
func (h *InvestmentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	filter := store.InvestmentFilter{
		InvestorID: strings.TrimSpace(c.QueryParam("investorId")),
		CreatorID:  strings.TrimSpace(c.QueryParam("creatorId")),
	}
	investments, err := h.Investments.ListInvestments(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch investments"})
	}
	return c.JSON(http.StatusOK, investments)
}

// Get returns one investment by id.
func (h *InvestmentHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inv, err := h.Investments.GetInvestment(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrInvestmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Investment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch investment"})
	}
	return c.JSON(http.StatusOK, inv)
}
