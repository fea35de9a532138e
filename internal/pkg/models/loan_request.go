package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LoanStatus string

const (
	LoanPending     LoanStatus = "pending"
	LoanPreApproved LoanStatus = "pre_approved"
	LoanApproved    LoanStatus = "approved"
	LoanRejected    LoanStatus = "rejected"
	LoanDisbursed   LoanStatus = "disbursed"
	LoanCompleted   LoanStatus = "completed"
)

type RepaymentType string

const (
	RepaymentEMI    RepaymentType = "emi"
	RepaymentBullet RepaymentType = "bullet"
)

// validLoanTransitions is the closed edge set of the loan state machine.
// rejected and completed are terminal.
var validLoanTransitions = map[LoanStatus][]LoanStatus{
	LoanPending:     {LoanPreApproved, LoanApproved, LoanRejected},
	LoanPreApproved: {LoanApproved, LoanRejected, LoanPending},
	LoanApproved:    {LoanDisbursed, LoanPending},
	LoanDisbursed:   {LoanCompleted, LoanPending},
	LoanRejected:    {},
	LoanCompleted:   {},
}

var ErrorInvalidStateTransition = &CustomError{
	Code:    "GATLEDGER_LOAN_INVALID_STATE_TRANSITION",
	Message: "Invalid loan state transition",
}

// LoanRequest is the central loan aggregate.
//
// Voting integrity: TotalEligibleVoters and RequiredApprovals are frozen
// at creation time so membership churn cannot retroactively change an
// ongoing vote; the effective quorum may only shrink the denominator.
type LoanRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	GroupID     primitive.ObjectID `bson:"groupId"`
	RequestedBy primitive.ObjectID `bson:"requestedBy"`

	Amount float64    `bson:"amount"`
	Reason string     `bson:"reason"`
	Status LoanStatus `bson:"status"`

	TotalEligibleVoters int `bson:"totalEligibleVoters"`
	RequiredApprovals   int `bson:"requiredApprovals"`

	// Terms and computed totals, set when the loan reaches quorum.
	InterestRate   float64       `bson:"interestRate,omitempty"`
	DurationMonths int           `bson:"loanDurationMonths,omitempty"`
	RepaymentType  RepaymentType `bson:"repaymentType,omitempty"`
	ApprovedAmount float64       `bson:"approvedAmount,omitempty"`
	TotalInterest  float64       `bson:"totalInterest,omitempty"`
	TotalRepayable float64       `bson:"totalRepayable,omitempty"`
	EMIAmount      float64       `bson:"emiAmount,omitempty"`

	ApprovedAt  *time.Time         `bson:"approvedAt,omitempty"`
	ApprovedBy  primitive.ObjectID `bson:"approvedBy,omitempty"`
	RejectedAt  *time.Time         `bson:"rejectedAt,omitempty"`
	RejectedBy  primitive.ObjectID `bson:"rejectedBy,omitempty"`
	DisbursedAt *time.Time         `bson:"disbursedAt,omitempty"`
	DisbursedBy primitive.ObjectID `bson:"disbursedBy,omitempty"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty"`

	TotalPrincipalRepaid float64 `bson:"totalPrincipalRepaid"`
	TotalInterestRepaid  float64 `bson:"totalInterestRepaid"`
	TotalRepaid          float64 `bson:"totalRepaid"`

	IsActive  bool       `bson:"isActive"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (l *LoanRequest) CanTransitionTo(next LoanStatus) bool {
	for _, allowed := range validLoanTransitions[l.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo moves the loan to the next status, stamping the matching
// timestamp and actor fields. Any edge outside validLoanTransitions is
// rejected.
func (l *LoanRequest) TransitionTo(next LoanStatus, byUserID primitive.ObjectID) error {
	if !l.CanTransitionTo(next) {
		return &CustomError{
			Code:    ErrorInvalidStateTransition.Code,
			Message: fmt.Sprintf("invalid loan state transition: %s -> %s", l.Status, next),
		}
	}

	now := time.Now().UTC()
	l.Status = next
	switch next {
	case LoanApproved:
		l.ApprovedAt = &now
		l.ApprovedBy = byUserID
	case LoanRejected:
		l.RejectedAt = &now
		l.RejectedBy = byUserID
	case LoanDisbursed:
		l.DisbursedAt = &now
		l.DisbursedBy = byUserID
	case LoanCompleted:
		l.CompletedAt = &now
	}
	return nil
}

func (l *LoanRequest) RemainingAmount() float64 {
	if l.TotalRepayable <= 0 {
		return 0
	}
	remaining := l.TotalRepayable - l.TotalRepaid
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (l *LoanRequest) IsFullyRepaid() bool {
	return l.TotalRepayable > 0 && l.TotalRepaid >= l.TotalRepayable
}

func (l *LoanRequest) DisburseAmount() float64 {
	if l.ApprovedAmount > 0 {
		return l.ApprovedAmount
	}
	return l.Amount
}
