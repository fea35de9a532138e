package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sahakari/bachatgat_ledger/internal/pkg/consts"
	"sahakari/bachatgat_ledger/internal/pkg/utils"
)

// statusForError maps the service error kinds onto HTTP statuses. Anything
// unrecognized is treated as an internal failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, consts.ErrorValidationFailed),
		errors.Is(err, consts.ErrorInvalidAmount),
		errors.Is(err, consts.ErrorInvalidDuration),
		errors.Is(err, consts.ErrorInvalidRepaymentType):
		return http.StatusBadRequest
	case errors.Is(err, consts.ErrorAuthorizationDenied):
		return http.StatusForbidden
	case errors.Is(err, consts.ErrorGroupNotFound),
		errors.Is(err, consts.ErrorWalletNotFound),
		errors.Is(err, consts.ErrorLoanNotFound),
		errors.Is(err, consts.ErrorRepaymentNotFound),
		errors.Is(err, consts.ErrorScheduleNotFound),
		errors.Is(err, consts.ErrorMemberNotFound):
		return http.StatusNotFound
	case errors.Is(err, consts.ErrorDuplicateTransaction),
		errors.Is(err, consts.ErrorDuplicateVote),
		errors.Is(err, consts.ErrorPendingLoanExists),
		errors.Is(err, consts.ErrorMemberAlreadyExists),
		errors.Is(err, consts.ErrorWalletAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, consts.ErrorInsufficientBalance),
		errors.Is(err, consts.ErrorNotEnoughMembers),
		errors.Is(err, consts.ErrorScheduleLocked):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusForError(err), gin.H{
		"error":     err.Error(),
		"errorCode": utils.GetErrorCode(err),
	})
}

// callerID reads the acting user from the X-User-Id header. Upstream auth
// is expected to have populated it; the ledger only enforces group roles.
func callerID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-User-Id")
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-Id header"})
		return "", false
	}
	return id, true
}
