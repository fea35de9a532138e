package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoanApproval is one member's vote on a loan request. A unique index on
// (loanId, userId) rejects a second vote by the same member.
type LoanApproval struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	LoanID   primitive.ObjectID `bson:"loanId"`
	UserID   primitive.ObjectID `bson:"userId"`
	Approved bool               `bson:"approved"`
	Comment  string             `bson:"comment,omitempty"`
	VotedAt  time.Time          `bson:"votedAt"`
}
