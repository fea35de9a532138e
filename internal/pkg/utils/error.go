package utils

import "sahakari/bachatgat_ledger/internal/pkg/models"

func GetErrorCode(err error) string {
	if customErr, ok := err.(*models.CustomError); ok {
		return customErr.ErrorCode()
	}
	return "GATLEDGER_INTERNAL_ERROR"
}
