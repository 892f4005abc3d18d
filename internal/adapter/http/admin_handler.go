package http

import (
	"errors"
	"net/http"

	domain "credimonto-backend/internal/domain/loan"
	"credimonto-backend/internal/usecase/review"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct{ uc *review.Usecase }

func NewAdminHandler(uc *review.Usecase) *AdminHandler { return &AdminHandler{uc: uc} }

// ListLoans backs the administrative table; ?state= filters by label.
func (h *AdminHandler) ListLoans(c echo.Context) error {
	filter := domain.State(c.QueryParam("state"))
	dtos, err := h.uc.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not list loans"})
	}
	return c.JSON(http.StatusOK, dtos)
}

type updateStateReq struct {
	State string `json:"state" validate:"required,loanstate"`
}

func (h *AdminHandler) UpdateState(c echo.Context) error {
	var req updateStateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.TransitionState(c.Request().Context(), c.Param("loan_id"), domain.State(req.State))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "loan not found"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not update state"})
	}
	return c.JSON(http.StatusOK, dto)
}

type setFeesReq struct {
	LateFee       float64 `json:"late_fee" validate:"gte=0,dec2"`
	CollectionFee float64 `json:"collection_fee" validate:"gte=0,dec2"`
}

// SetFees records collections charges ("mora" and "cobranza") on a loan.
func (h *AdminHandler) SetFees(c echo.Context) error {
	var req setFeesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.SetCollectionFees(c.Request().Context(), c.Param("loan_id"), req.LateFee, req.CollectionFee)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "loan not found"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "loan is settled"})
	case err != nil:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}
