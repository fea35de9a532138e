package consts

import "sahakari/bachatgat_ledger/internal/pkg/models"

var (
	ErrorValidationFailed = &models.CustomError{
		Code:    "GATLEDGER_VALIDATION_FAILED",
		Message: "Request validation failed",
	}
	ErrorInvalidAmount = &models.CustomError{
		Code:    "GATLEDGER_VALIDATION_INVALID_AMOUNT",
		Message: "Amount must be greater than 0",
	}
	ErrorInsufficientBalance = &models.CustomError{
		Code:    "GATLEDGER_WALLET_INSUFFICIENT_BALANCE",
		Message: "Insufficient wallet balance",
	}
	ErrorDuplicateTransaction = &models.CustomError{
		Code:    "GATLEDGER_TRANSACTION_DUPLICATE",
		Message: "Transaction with this idempotency key already exists",
	}
	ErrorAuthorizationDenied = &models.CustomError{
		Code:    "GATLEDGER_AUTHORIZATION_DENIED",
		Message: "Not authorized for this operation",
	}
	ErrorGroupNotFound = &models.CustomError{
		Code:    "GATLEDGER_GROUP_NOT_FOUND",
		Message: "Group not found",
	}
	ErrorWalletNotFound = &models.CustomError{
		Code:    "GATLEDGER_WALLET_NOT_FOUND",
		Message: "Wallet not found",
	}
	ErrorLoanNotFound = &models.CustomError{
		Code:    "GATLEDGER_LOAN_NOT_FOUND",
		Message: "Loan not found",
	}
	ErrorRepaymentNotFound = &models.CustomError{
		Code:    "GATLEDGER_REPAYMENT_NOT_FOUND",
		Message: "Repayment not found",
	}
	ErrorScheduleNotFound = &models.CustomError{
		Code:    "GATLEDGER_EMI_SCHEDULE_NOT_FOUND",
		Message: "Installment schedule entry not found",
	}
	ErrorMemberNotFound = &models.CustomError{
		Code:    "GATLEDGER_MEMBER_NOT_FOUND",
		Message: "Group member not found",
	}
	ErrorNotEnoughMembers = &models.CustomError{
		Code:    "GATLEDGER_LOAN_NOT_ENOUGH_MEMBERS",
		Message: "Not enough members to process loan",
	}
	ErrorPendingLoanExists = &models.CustomError{
		Code:    "GATLEDGER_LOAN_PENDING_REQUEST_EXISTS",
		Message: "Requester already has a pending loan request in this group",
	}
	ErrorDuplicateVote = &models.CustomError{
		Code:    "GATLEDGER_LOAN_DUPLICATE_VOTE",
		Message: "Member has already voted on this loan",
	}
	ErrorScheduleLocked = &models.CustomError{
		Code:    "GATLEDGER_EMI_SCHEDULE_LOCKED",
		Message: "Installment schedule cannot be regenerated once an installment is paid",
	}
	ErrorMemberAlreadyExists = &models.CustomError{
		Code:    "GATLEDGER_MEMBER_ALREADY_EXISTS",
		Message: "User is already an active member of this group",
	}
	ErrorWalletAlreadyExists = &models.CustomError{
		Code:    "GATLEDGER_WALLET_ALREADY_EXISTS",
		Message: "Group already has a wallet",
	}
	ErrorInvalidDuration = &models.CustomError{
		Code:    "GATLEDGER_VALIDATION_INVALID_DURATION",
		Message: "Loan duration must be at least one month",
	}
	ErrorInvalidRepaymentType = &models.CustomError{
		Code:    "GATLEDGER_VALIDATION_INVALID_REPAYMENT_TYPE",
		Message: "Repayment type must be emi or bullet",
	}
)

// AuthorizationDenied wraps a predicate's reason in the denial error kind
// so errors.Is(err, ErrorAuthorizationDenied) still matches.
func AuthorizationDenied(reason string) error {
	if reason == "" {
		return ErrorAuthorizationDenied
	}
	return &models.CustomError{
		Code:    ErrorAuthorizationDenied.Code,
		Message: reason,
	}
}
