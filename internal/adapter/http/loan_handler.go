package http

import (
	"errors"
	"net/http"
	"strconv"

	domain "credimonto-backend/internal/domain/loan"
	"credimonto-backend/internal/usecase/loan"
	"credimonto-backend/internal/usecase/reconcile"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct {
	uc  *loan.Usecase
	rec *reconcile.Usecase
}

func NewLoanHandler(uc *loan.Usecase, rec *reconcile.Usecase) *LoanHandler {
	return &LoanHandler{uc: uc, rec: rec}
}

type createLoanReq struct {
	BorrowerID string  `json:"borrower_id" validate:"required"`
	Principal  float64 `json:"principal" validate:"required,gt=0,intlike"`
	TermDays   int     `json:"term_days" validate:"required,gte=7,lte=30"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Create(c.Request().Context(), loan.CreateLoanInput(req))
	switch {
	case errors.Is(err, domain.ErrActiveLoanExists), errors.Is(err, domain.ErrNotEligible):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case err != nil:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, dto)
}

// Quote prices a prospective credit from query parameters; nothing is stored.
func (h *LoanHandler) Quote(c echo.Context) error {
	principal, err := strconv.ParseFloat(c.QueryParam("principal"), 64)
	if err != nil || principal <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "principal must be a positive number"})
	}
	termDays, err := strconv.Atoi(c.QueryParam("term_days"))
	if err != nil || termDays < loan.MinTermDays || termDays > loan.MaxTermDays {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "term_days must be an integer in [7, 30]"})
	}
	return c.JSON(http.StatusOK, h.uc.Quote(principal, termDays))
}

func (h *LoanHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "loan not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not load loan"})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) History(c echo.Context) error {
	dtos, err := h.uc.History(c.Request().Context(), c.Param("borrower_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not load loan history"})
	}
	return c.JSON(http.StatusOK, dtos)
}

// currentLoanResponse is one evaluation pass flattened for the client.
type currentLoanResponse struct {
	Current          *loan.LoanDTO `json:"current,omitempty"`
	DaysOverdue      int           `json:"days_overdue"`
	MarkedDelinquent bool          `json:"marked_delinquent"`
	Renewal          *loan.LoanDTO `json:"renewal,omitempty"`
	AmountDueToday   float64       `json:"amount_due_today"`
	Eligible         bool          `json:"eligible"`
	ExtensionOpen    bool          `json:"extension_open"`
}

// Current runs the reconciliation pass for the borrower and returns the
// derived view. Write failures inside the pass do not fail the read.
func (h *LoanHandler) Current(c echo.Context) error {
	out, err := h.rec.Evaluate(c.Request().Context(), c.Param("borrower_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not evaluate current loan"})
	}
	resp := currentLoanResponse{
		DaysOverdue:      out.DaysOverdue,
		MarkedDelinquent: out.MarkedDelinquent,
		AmountDueToday:   out.AmountDueToday.InexactFloat64(),
		Eligible:         out.Eligible,
		ExtensionOpen:    out.ExtensionOpen,
	}
	if out.Current != nil {
		dto := loan.ToDTO(out.Current)
		resp.Current = &dto
	}
	if out.Renewal != nil {
		dto := loan.ToDTO(out.Renewal)
		resp.Renewal = &dto
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *LoanHandler) ExtensionQuote(c echo.Context) error {
	dto, err := h.uc.ExtensionQuote(c.Request().Context(), c.Param("borrower_id"))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "no current loan"})
	case errors.Is(err, domain.ErrExtensionClosed):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not quote extension"})
	}
	return c.JSON(http.StatusOK, dto)
}
