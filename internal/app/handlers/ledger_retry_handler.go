package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type LedgerRetryServiceInterface interface {
	RetryLedgerEvents(ctx context.Context) ([]string, []string, error)
}

type LedgerRetryHandler struct {
	service LedgerRetryServiceInterface
}

func NewLedgerRetryHandler(service LedgerRetryServiceInterface) *LedgerRetryHandler {
	return &LedgerRetryHandler{service: service}
}

func (h *LedgerRetryHandler) RetryLedgerEvents(c *gin.Context) {
	published, failed, err := h.service.RetryLedgerEvents(c.Request.Context())
	if err != nil && len(published) > 0 {
		c.JSON(http.StatusOK, gin.H{"published": published, "failed": failed, "error": err.Error()})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"published": published, "failed": failed})
}
