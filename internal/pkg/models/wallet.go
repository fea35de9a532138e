package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupWallet holds the cached financial aggregates for one group.
// The cached values are derived from the WalletTransaction ledger;
// isDirty marks a cache that may have diverged and RecalculateWallet
// reconciles it against the ledger.
type GroupWallet struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	GroupID primitive.ObjectID `bson:"groupId"`

	Balance             float64 `bson:"balance"`
	TotalContributed    float64 `bson:"totalContributed"`
	TotalDisbursed      float64 `bson:"totalDisbursed"`
	TotalInterestEarned float64 `bson:"totalInterestEarned"`

	IsDirty            bool      `bson:"isDirty"`
	LastRecalculatedAt time.Time `bson:"lastRecalculatedAt"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MemberLedger tracks one member's cumulative position in one wallet:
// principal paid in and interest earned from loans. TotalBalance is kept
// equal to PrincipalContributed + InterestEarned on every mutation.
type MemberLedger struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	WalletID primitive.ObjectID `bson:"walletId"`
	UserID   primitive.ObjectID `bson:"userId"`

	PrincipalContributed float64 `bson:"principalContributed"`
	InterestEarned       float64 `bson:"interestEarned"`
	TotalBalance         float64 `bson:"totalBalance"`

	LastContributionAt   *time.Time `bson:"lastContributionAt,omitempty"`
	LastInterestCreditAt *time.Time `bson:"lastInterestCreditAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MemberContribution is one pay-in event, linked to its ledger entry.
type MemberContribution struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	WalletID      primitive.ObjectID `bson:"walletId"`
	UserID        primitive.ObjectID `bson:"userId"`
	Amount        float64            `bson:"amount"`
	Description   string             `bson:"description,omitempty"`
	TransactionID primitive.ObjectID `bson:"transactionId,omitempty"`
	ContributedAt time.Time          `bson:"contributedAt"`
}
