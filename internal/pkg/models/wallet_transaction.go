package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransactionType string

const (
	TxnContribution         TransactionType = "contribution"
	TxnLoanDisbursement     TransactionType = "loan_disbursement"
	TxnRepayment            TransactionType = "repayment"
	TxnInterestDistribution TransactionType = "interest_distribution"
	TxnRefund               TransactionType = "refund"
)

// WalletTransaction is the single source of truth for all wallet movements.
// Amount is signed: positive = inflow, negative = outflow. Entries are never
// mutated except to set the reversal fields, and never deleted.
type WalletTransaction struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	WalletID primitive.ObjectID `bson:"walletId"`

	TransactionType TransactionType `bson:"transactionType"`
	Amount          float64         `bson:"amount"`
	BalanceAfter    float64         `bson:"balanceAfter"`

	ReferenceType string             `bson:"referenceType,omitempty"`
	ReferenceID   primitive.ObjectID `bson:"referenceId,omitempty"`

	CreatedBy     primitive.ObjectID `bson:"createdBy"`
	BeneficiaryID primitive.ObjectID `bson:"beneficiaryId,omitempty"`
	Description   string             `bson:"description,omitempty"`

	// Caller-supplied token with a unique index; a retried operation with
	// the same key is rejected at insert time rather than applied twice.
	IdempotencyKey string `bson:"idempotencyKey"`

	IsReversed   bool               `bson:"isReversed"`
	ReversedAt   *time.Time         `bson:"reversedAt,omitempty"`
	ReversedByID primitive.ObjectID `bson:"reversedById,omitempty"`

	PublishedToKafka bool      `bson:"publishedToKafka"`
	CreatedAt        time.Time `bson:"createdAt"`
}
