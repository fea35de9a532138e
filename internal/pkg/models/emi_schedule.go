package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EMISchedule is one pre-computed installment of a loan. For every entry
// OpeningBalance - PrincipalComponent == ClosingBalance (clamped at zero),
// and the principal components across a schedule sum to the approved
// principal with any rounding remainder absorbed by the final installment.
type EMISchedule struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	LoanID primitive.ObjectID `bson:"loanId"`

	InstallmentNumber int       `bson:"installmentNumber"`
	DueDate           time.Time `bson:"dueDate"`

	EMIAmount          float64 `bson:"emiAmount"`
	PrincipalComponent float64 `bson:"principalComponent"`
	InterestComponent  float64 `bson:"interestComponent"`

	OpeningBalance float64 `bson:"openingBalance"`
	ClosingBalance float64 `bson:"closingBalance"`

	IsPaid      bool               `bson:"isPaid"`
	PaidAt      *time.Time         `bson:"paidAt,omitempty"`
	PaidAmount  float64            `bson:"paidAmount,omitempty"`
	RepaymentID primitive.ObjectID `bson:"repaymentId,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
}
