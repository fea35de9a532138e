package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sahakari/bachatgat_ledger/internal/pkg/models"
	"sahakari/bachatgat_ledger/internal/pkg/services"
	"sahakari/bachatgat_ledger/internal/pkg/utils"
)

type LoanHandler struct {
	loanService services.LoanServiceInterface
}

func NewLoanHandler(loanService services.LoanServiceInterface) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

func (h *LoanHandler) CreateLoanRequest(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	userID, err := utils.ParseObjectID(caller)
	if err != nil {
		respondError(c, err)
		return
	}
	groupID, err := utils.ParseObjectID(c.Param("groupId"))
	if err != nil {
		respondError(c, err)
		return
	}

	var body models.CreateLoanRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		respondError(c, err)
		return
	}

	loan, err := h.loanService.CreateLoanRequest(c.Request.Context(), groupID, userID, body.Amount, body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"loan": loan})
}

func (h *LoanHandler) CastVote(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	userID, err := utils.ParseObjectID(caller)
	if err != nil {
		respondError(c, err)
		return
	}
	loanID, err := utils.ParseObjectID(c.Param("loanId"))
	if err != nil {
		respondError(c, err)
		return
	}

	var body models.VoteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		respondError(c, err)
		return
	}

	vote, status, err := h.loanService.CastVote(c.Request.Context(), loanID, userID, *body.Approved, body.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vote": vote, "loanStatus": status})
}

func (h *LoanHandler) FinalizeApproval(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	adminID, err := utils.ParseObjectID(caller)
	if err != nil {
		respondError(c, err)
		return
	}
	loanID, err := utils.ParseObjectID(c.Param("loanId"))
	if err != nil {
		respondError(c, err)
		return
	}

	loan, err := h.loanService.FinalizeApproval(c.Request.Context(), loanID, adminID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

func (h *LoanHandler) UpdateLoanTerms(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	adminID, err := utils.ParseObjectID(caller)
	if err != nil {
		respondError(c, err)
		return
	}
	loanID, err := utils.ParseObjectID(c.Param("loanId"))
	if err != nil {
		respondError(c, err)
		return
	}

	var body models.UpdateTermsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		respondError(c, err)
		return
	}

	terms := models.LoanTerms{
		Amount:         body.Amount,
		InterestRate:   body.InterestRate,
		DurationMonths: body.DurationMonths,
		RepaymentType:  models.RepaymentType(body.RepaymentType),
	}
	loan, err := h.loanService.UpdateLoanTerms(c.Request.Context(), loanID, adminID, terms)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

func (h *LoanHandler) CloseLoan(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	adminID, err := utils.ParseObjectID(caller)
	if err != nil {
		respondError(c, err)
		return
	}
	loanID, err := utils.ParseObjectID(c.Param("loanId"))
	if err != nil {
		respondError(c, err)
		return
	}

	loan, err := h.loanService.CloseLoan(c.Request.Context(), loanID, adminID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

func (h *LoanHandler) LoanDetails(c *gin.Context) {
	loanID, err := utils.ParseObjectID(c.Param("loanId"))
	if err != nil {
		respondError(c, err)
		return
	}

	details, err := h.loanService.GetLoanDetails(c.Request.Context(), loanID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *LoanHandler) PendingDisbursements(c *gin.Context) {
	groupID, err := utils.ParseObjectID(c.Param("groupId"))
	if err != nil {
		respondError(c, err)
		return
	}

	loans, err := h.loanService.PendingDisbursements(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": loans})
}

func (h *LoanHandler) ActiveLoans(c *gin.Context) {
	groupID, err := utils.ParseObjectID(c.Param("groupId"))
	if err != nil {
		respondError(c, err)
		return
	}

	loans, err := h.loanService.ActiveLoans(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": loans})
}
