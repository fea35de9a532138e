package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sahakari/bachatgat_ledger/internal/pkg/models"
	"sahakari/bachatgat_ledger/internal/pkg/services"
	"sahakari/bachatgat_ledger/internal/pkg/utils"
)

type WalletHandler struct {
	walletService services.WalletServiceInterface
}

func NewWalletHandler(walletService services.WalletServiceInterface) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func (h *WalletHandler) Contribute(c *gin.Context) {
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

	var body models.ContributeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		respondError(c, err)
		return
	}

	contribution, txn, err := h.walletService.Contribute(c.Request.Context(), groupID, userID, body.Amount, body.Description, body.IdempotencyKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contribution": contribution, "transaction": txn})
}

func (h *WalletHandler) Disburse(c *gin.Context) {
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

	// Body is optional; the key defaults to a per-loan value downstream.
	var body models.DisburseRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	txn, err := h.walletService.Disburse(c.Request.Context(), loanID, adminID, body.IdempotencyKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

func (h *WalletHandler) SubmitRepayment(c *gin.Context) {
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

	var body models.SubmitRepaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		respondError(c, err)
		return
	}

	scheduleID := primitive.NilObjectID
	if body.ScheduleID != "" {
		scheduleID, err = utils.ParseObjectID(body.ScheduleID)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	repayment, err := h.walletService.SubmitRepayment(c.Request.Context(), loanID, userID, body.Amount, body.Description, scheduleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"repayment": repayment})
}

func (h *WalletHandler) ApproveRepayment(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	adminID, err := utils.ParseObjectID(caller)
	if err != nil {
		respondError(c, err)
		return
	}
	repaymentID, err := utils.ParseObjectID(c.Param("repaymentId"))
	if err != nil {
		respondError(c, err)
		return
	}

	repayment, txn, distributions, err := h.walletService.ApproveRepayment(c.Request.Context(), repaymentID, adminID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"repayment":     repayment,
		"transaction":   txn,
		"distributions": distributions,
	})
}

func (h *WalletHandler) RejectRepayment(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	adminID, err := utils.ParseObjectID(caller)
	if err != nil {
		respondError(c, err)
		return
	}
	repaymentID, err := utils.ParseObjectID(c.Param("repaymentId"))
	if err != nil {
		respondError(c, err)
		return
	}

	var body models.RejectRepaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		respondError(c, err)
		return
	}

	repayment, err := h.walletService.RejectRepayment(c.Request.Context(), repaymentID, adminID, body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"repayment": repayment})
}

func (h *WalletHandler) Recalculate(c *gin.Context) {
	walletID, err := utils.ParseObjectID(c.Param("walletId"))
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.walletService.Recalculate(c.Request.Context(), walletID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *WalletHandler) WalletSummary(c *gin.Context) {
	groupID, err := utils.ParseObjectID(c.Param("groupId"))
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.walletService.GetWalletSummary(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *WalletHandler) LedgerFeed(c *gin.Context) {
	groupID, err := utils.ParseObjectID(c.Param("groupId"))
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.walletService.LedgerFeed(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": entries})
}
