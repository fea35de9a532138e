package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoanContributionSnapshot freezes one non-borrower member's share of the
// contribution pool at disbursement time. Every later interest split on the
// loan uses these rows, regardless of how contributions change afterwards.
// Created exactly once per (loan, user); immutable.
type LoanContributionSnapshot struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	LoanID primitive.ObjectID `bson:"loanId"`
	UserID primitive.ObjectID `bson:"userId"`

	ContributionAmount     float64 `bson:"contributionAmount"`
	ContributionPercentage float64 `bson:"contributionPercentage"`
	TotalEligiblePool      float64 `bson:"totalEligiblePool"`

	CreatedAt time.Time `bson:"createdAt"`
}
