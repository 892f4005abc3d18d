package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domain "credimonto-backend/internal/domain/loan"
	"credimonto-backend/internal/notify"
	"credimonto-backend/internal/pricing"
	"credimonto-backend/internal/testutil/loanmock"
	"credimonto-backend/internal/testutil/uowmock"
	loanuc "credimonto-backend/internal/usecase/loan"
	"credimonto-backend/internal/usecase/reconcile"
	"credimonto-backend/pkg/clock"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func fixedNow() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newLoanHandler(repo *loanmock.Repo) *LoanHandler {
	clk := clock.NewFixed(fixedNow())
	uc := loanuc.NewUsecase(repo, clk, notify.Noop{}, zap.NewNop(), 100000, 200000)
	rec := reconcile.NewUsecase(repo, uowmock.New(), clk, notify.Noop{}, zap.NewNop())
	return NewLoanHandler(uc, rec)
}

func pricedFixture(state domain.State, requestedAt time.Time, termDays int) *domain.LoanRequest {
	principal := decimal.NewFromInt(200000)
	b := pricing.Quote(principal, termDays)
	return &domain.LoanRequest{
		LoanID:       "1709280000000abad1dea",
		BorrowerID:   "maria@example.com",
		Principal:    principal,
		TermDays:     termDays,
		RequestedAt:  requestedAt,
		DueAt:        requestedAt.AddDate(0, 0, termDays),
		Interest:     b.Interest,
		GuaranteeFee: b.GuaranteeFee,
		SignatureFee: b.SignatureFee,
		Discount:     b.Discount,
		TotalPayable: b.TotalPayable,
		State:        state,
	}
}

func TestQuoteEndpoint(t *testing.T) {
	h := newLoanHandler(&loanmock.Repo{})
	c, rec := newContext(newEcho(), http.MethodGet, "/loans/quote?principal=200000&term_days=7", "")

	if err := h.Quote(c); err != nil {
		t.Fatalf("Quote err: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var q loanuc.QuoteDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if q.TotalPayable != 272200 || q.SignatureFee != 155000 {
		t.Fatalf("quote = %+v", q)
	}
}

func TestQuoteEndpoint_BadParams(t *testing.T) {
	h := newLoanHandler(&loanmock.Repo{})
	for _, target := range []string{
		"/loans/quote?principal=abc&term_days=7",
		"/loans/quote?principal=200000&term_days=31",
		"/loans/quote?principal=-5&term_days=7",
	} {
		c, rec := newContext(newEcho(), http.MethodGet, target, "")
		if err := h.Quote(c); err != nil {
			t.Fatalf("Quote err: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", target, rec.Code)
		}
	}
}

func TestCreateLoanEndpoint(t *testing.T) {
	repo := &loanmock.Repo{}
	h := newLoanHandler(repo)
	body := `{"borrower_id":"maria@example.com","principal":200000,"term_days":7}`
	c, rec := newContext(newEcho(), http.MethodPost, "/loans", body)

	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan err: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var dto loanuc.LoanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dto.State != string(domain.StateRequested) {
		t.Fatalf("state = %s", dto.State)
	}
	if dto.TotalPayable != 272200 {
		t.Fatalf("total = %v", dto.TotalPayable)
	}
}

func TestCreateLoanEndpoint_Conflict(t *testing.T) {
	repo := &loanmock.Repo{
		ListActiveByBorrowerIDFn: func(_ context.Context, _ string) ([]domain.LoanRequest, error) {
			return []domain.LoanRequest{*pricedFixture(domain.StateDisbursed, fixedNow().AddDate(0, 0, -2), 7)}, nil
		},
	}
	h := newLoanHandler(repo)
	body := `{"borrower_id":"maria@example.com","principal":150000,"term_days":10}`
	c, rec := newContext(newEcho(), http.MethodPost, "/loans", body)

	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan err: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateLoanEndpoint_Validation(t *testing.T) {
	h := newLoanHandler(&loanmock.Repo{})
	body := `{"borrower_id":"maria@example.com","principal":150000.55,"term_days":3}`
	c, rec := newContext(newEcho(), http.MethodPost, "/loans", body)

	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan err: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !containsFieldMsg(resp.Details, "TermDays", "greater than or equal to 7") {
		t.Fatalf("details = %+v", resp.Details)
	}
	if !containsFieldMsg(resp.Details, "Principal", "integer") {
		t.Fatalf("details = %+v", resp.Details)
	}
}

func TestCurrentEndpoint_OverdueLoan(t *testing.T) {
	// Due 3 days ago; the read triggers the delinquency mark.
	l := pricedFixture(domain.StateDisbursed, fixedNow().AddDate(0, 0, -10), 7)
	repo := &loanmock.Repo{
		GetCurrentByBorrowerIDFn: func(_ context.Context, _ string) (*domain.LoanRequest, error) {
			return l, nil
		},
	}
	h := newLoanHandler(repo)
	c, rec := newContext(newEcho(), http.MethodGet, "/borrowers/maria@example.com/loans/current", "")
	c.SetParamNames("borrower_id")
	c.SetParamValues("maria@example.com")

	if err := h.Current(c); err != nil {
		t.Fatalf("Current err: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp currentLoanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Current == nil || resp.DaysOverdue != 3 || !resp.MarkedDelinquent {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Current.State != string(domain.StateDelinquent) {
		t.Fatalf("state = %s", resp.Current.State)
	}
	if resp.AmountDueToday != 277400 {
		t.Fatalf("amount due = %v, want 277400", resp.AmountDueToday)
	}
}

func TestCurrentEndpoint_NoHistory(t *testing.T) {
	h := newLoanHandler(&loanmock.Repo{})
	c, rec := newContext(newEcho(), http.MethodGet, "/borrowers/maria@example.com/loans/current", "")
	c.SetParamNames("borrower_id")
	c.SetParamValues("maria@example.com")

	if err := h.Current(c); err != nil {
		t.Fatalf("Current err: %v", err)
	}
	var resp currentLoanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Current != nil || !resp.Eligible {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestExtensionQuoteEndpoint(t *testing.T) {
	l := pricedFixture(domain.StateDisbursed, fixedNow().AddDate(0, 0, -4), 7) // due in 3 days
	repo := &loanmock.Repo{
		GetCurrentByBorrowerIDFn: func(_ context.Context, _ string) (*domain.LoanRequest, error) {
			return l, nil
		},
	}
	h := newLoanHandler(repo)
	c, rec := newContext(newEcho(), http.MethodGet, "/borrowers/maria@example.com/loans/current/extension", "")
	c.SetParamNames("borrower_id")
	c.SetParamValues("maria@example.com")

	if err := h.ExtensionQuote(c); err != nil {
		t.Fatalf("ExtensionQuote err: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var q loanuc.ExtensionQuoteDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if q.Total != 72200 {
		t.Fatalf("total = %v, want 72200", q.Total)
	}
}

func TestExtensionQuoteEndpoint_ClosedAndMissing(t *testing.T) {
	t.Run("window closed", func(t *testing.T) {
		l := pricedFixture(domain.StateDisbursed, fixedNow(), 30)
		repo := &loanmock.Repo{
			GetCurrentByBorrowerIDFn: func(_ context.Context, _ string) (*domain.LoanRequest, error) {
				return l, nil
			},
		}
		h := newLoanHandler(repo)
		c, rec := newContext(newEcho(), http.MethodGet, "/borrowers/x/loans/current/extension", "")
		c.SetParamNames("borrower_id")
		c.SetParamValues("x")
		if err := h.ExtensionQuote(c); err != nil {
			t.Fatalf("ExtensionQuote err: %v", err)
		}
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d", rec.Code)
		}
	})
	t.Run("no current loan", func(t *testing.T) {
		h := newLoanHandler(&loanmock.Repo{})
		c, rec := newContext(newEcho(), http.MethodGet, "/borrowers/x/loans/current/extension", "")
		c.SetParamNames("borrower_id")
		c.SetParamValues("x")
		if err := h.ExtensionQuote(c); err != nil {
			t.Fatalf("ExtensionQuote err: %v", err)
		}
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestGetLoanEndpoint(t *testing.T) {
	l := pricedFixture(domain.StateDisbursed, fixedNow().AddDate(0, 0, -2), 7)
	repo := &loanmock.Repo{
		GetByLoanIDFn: func(_ context.Context, loanID string) (*domain.LoanRequest, error) {
			if loanID != l.LoanID {
				return nil, domain.ErrNotFound
			}
			return l, nil
		},
	}
	h := newLoanHandler(repo)

	c, rec := newContext(newEcho(), http.MethodGet, "/loans/"+l.LoanID, "")
	c.SetParamNames("loan_id")
	c.SetParamValues(l.LoanID)
	if err := h.Get(c); err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	c, rec = newContext(newEcho(), http.MethodGet, "/loans/missing", "")
	c.SetParamNames("loan_id")
	c.SetParamValues("missing")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	repo := &loanmock.Repo{
		ListByBorrowerIDFn: func(_ context.Context, _ string) ([]domain.LoanRequest, error) {
			return []domain.LoanRequest{
				*pricedFixture(domain.StateDisbursed, fixedNow().AddDate(0, 0, -2), 7),
				*pricedFixture(domain.StatePaid, fixedNow().AddDate(0, 0, -80), 7),
			}, nil
		},
	}
	h := newLoanHandler(repo)
	c, rec := newContext(newEcho(), http.MethodGet, "/borrowers/maria@example.com/loans", "")
	c.SetParamNames("borrower_id")
	c.SetParamValues("maria@example.com")

	if err := h.History(c); err != nil {
		t.Fatalf("History err: %v", err)
	}
	var dtos []loanuc.LoanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dtos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(dtos) != 2 {
		t.Fatalf("history = %d entries", len(dtos))
	}
}
