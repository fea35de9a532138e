package models

// Request bodies bound by the gin handlers. Validation tags are checked
// with the shared validator in utils before any service call.

type ContributeRequest struct {
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	Description    string  `json:"description"`
	IdempotencyKey string  `json:"idempotencyKey"`
}

type DisburseRequest struct {
	IdempotencyKey string `json:"idempotencyKey"`
}

type SubmitRepaymentRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description"`
	ScheduleID  string  `json:"scheduleId"`
}

type RejectRepaymentRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type CreateLoanRequestBody struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Reason string  `json:"reason" validate:"required"`
}

type VoteRequest struct {
	Approved *bool  `json:"approved" validate:"required"`
	Comment  string `json:"comment"`
}

type UpdateTermsRequest struct {
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	InterestRate   float64 `json:"interestRate" validate:"gte=0"`
	DurationMonths int     `json:"durationMonths" validate:"required,gte=1"`
	RepaymentType  string  `json:"repaymentType" validate:"required,oneof=emi bullet"`
}

type AddMemberRequest struct {
	UserID string `json:"userId" validate:"required"`
	Role   string `json:"role" validate:"omitempty,oneof=admin member"`
}

type RemoveMemberRequest struct {
	UserID string `json:"userId" validate:"required"`
	Reason string `json:"reason"`
}

type LeaveGroupRequest struct {
	Reason string `json:"reason"`
}

type TransferAdminRequest struct {
	ToUserID string `json:"toUserId" validate:"required"`
	Reason   string `json:"reason"`
}
