package rest

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bibbank/credit-service/internal/application/dto"
	"github.com/bibbank/credit-service/internal/application/usecase"
)

// CreditHandler exposes the credit operations over HTTP/JSON.
type CreditHandler struct {
	uc     usecase.Set
	logger *slog.Logger
}

// NewCreditHandler creates a handler for the given use cases.
func NewCreditHandler(uc usecase.Set, logger *slog.Logger) *CreditHandler {
	return &CreditHandler{uc: uc, logger: logger}
}

// RegisterRoutes attaches the credit routes to r.
func (h *CreditHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/register", h.registerCustomer)
	r.POST("/check-eligibility", h.checkEligibility)
	r.POST("/create-loan", h.createLoan)
	r.GET("/view-loan/:loan_id", h.viewLoan)
	r.GET("/view-loans/:customer_id", h.viewCustomerLoans)
	r.POST("/loans/:loan_id/repayments", h.recordRepayment)
}

func (h *CreditHandler) registerCustomer(c *gin.Context) {
	var req dto.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.uc.RegisterCustomer.Execute(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CreditHandler) checkEligibility(c *gin.Context) {
	var req dto.LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.uc.CheckEligibility.Execute(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// createLoan answers 201 when a loan was created and 200 when the request
// was evaluated but declined.
func (h *CreditHandler) createLoan(c *gin.Context) {
	var req dto.LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.uc.CreateLoan.Execute(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	status := http.StatusOK
	if resp.LoanApproved {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

func (h *CreditHandler) viewLoan(c *gin.Context) {
	loanID, ok := pathID(c, "loan_id")
	if !ok {
		return
	}

	resp, err := h.uc.ViewLoan.Execute(c.Request.Context(), dto.GetLoanRequest{LoanID: loanID})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CreditHandler) viewCustomerLoans(c *gin.Context) {
	customerID, ok := pathID(c, "customer_id")
	if !ok {
		return
	}

	resp, err := h.uc.ListCustomerLoans.Execute(c.Request.Context(), dto.ListCustomerLoansRequest{CustomerID: customerID})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if resp == nil {
		resp = []dto.CustomerLoanResponse{}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CreditHandler) recordRepayment(c *gin.Context) {
	loanID, ok := pathID(c, "loan_id")
	if !ok {
		return
	}

	resp, err := h.uc.RecordRepayment.Execute(c.Request.Context(), dto.RecordRepaymentRequest{LoanID: loanID})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// pathID parses a positive integer path parameter, answering 400 otherwise.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
