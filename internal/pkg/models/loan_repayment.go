package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RepaymentStatus string

const (
	RepaymentPending  RepaymentStatus = "pending"
	RepaymentApproved RepaymentStatus = "approved"
	RepaymentRejected RepaymentStatus = "rejected"
)

// LoanRepayment is one submitted repayment. Submission records it as
// pending; only admin approval writes the ledger entry and moves money.
// GroupID is denormalized from the loan for per-group queries.
type LoanRepayment struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	LoanID  primitive.ObjectID `bson:"loanId"`
	GroupID primitive.ObjectID `bson:"groupId"`
	PaidBy  primitive.ObjectID `bson:"paidBy"`

	Amount             float64 `bson:"amount"`
	PrincipalComponent float64 `bson:"principalComponent"`
	InterestComponent  float64 `bson:"interestComponent"`

	EMIScheduleID primitive.ObjectID `bson:"emiScheduleId,omitempty"`

	Status          RepaymentStatus    `bson:"status"`
	ApprovedBy      primitive.ObjectID `bson:"approvedBy,omitempty"`
	ApprovedAt      *time.Time         `bson:"approvedAt,omitempty"`
	RejectionReason string             `bson:"rejectionReason,omitempty"`

	TransactionID  primitive.ObjectID `bson:"transactionId,omitempty"`
	IdempotencyKey string             `bson:"idempotencyKey"`

	SubmittedAt time.Time `bson:"submittedAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

// InterestDistribution records one beneficiary's share of the interest
// portion of one approved repayment, copied from the frozen snapshot.
type InterestDistribution struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	LoanID      primitive.ObjectID `bson:"loanId"`
	RepaymentID primitive.ObjectID `bson:"repaymentId"`

	BeneficiaryID          primitive.ObjectID `bson:"beneficiaryId"`
	ContributionAmount     float64            `bson:"contributionAmount"`
	ContributionPercentage float64            `bson:"contributionPercentage"`
	InterestEarned         float64            `bson:"interestEarned"`

	TransactionID primitive.ObjectID `bson:"transactionId,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
}
