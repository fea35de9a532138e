package common

import (
	"encoding/json"
	"time"

	"sahakari/bachatgat_ledger/internal/pkg/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func SerializeWalletTransaction(walletID primitive.ObjectID, txnType models.TransactionType, amount float64, balanceAfter float64, referenceType string, referenceID primitive.ObjectID, createdBy primitive.ObjectID, beneficiaryID primitive.ObjectID, description string, idempotencyKey string) models.WalletTransaction {
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	return models.WalletTransaction{
		ID:               primitive.NewObjectID(),
		WalletID:         walletID,
		TransactionType:  txnType,
		Amount:           amount,
		BalanceAfter:     balanceAfter,
		ReferenceType:    referenceType,
		ReferenceID:      referenceID,
		CreatedBy:        createdBy,
		BeneficiaryID:    beneficiaryID,
		Description:      description,
		IdempotencyKey:   idempotencyKey,
		PublishedToKafka: false,
		CreatedAt:        time.Now().UTC(),
	}
}

func SerializeGroupWallet(groupID primitive.ObjectID) models.GroupWallet {
	now := time.Now().UTC()
	return models.GroupWallet{
		ID:                 primitive.NewObjectID(),
		GroupID:            groupID,
		IsDirty:            false,
		LastRecalculatedAt: now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func SerializeGroupMember(groupID, userID primitive.ObjectID, role models.MemberRole) models.GroupMember {
	now := time.Now().UTC()
	return models.GroupMember{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		UserID:    userID,
		Role:      role,
		IsActive:  true,
		JoinedAt:  now,
		UpdatedAt: now,
	}
}

// LedgerEvent is the wire shape published to the ledger-events topic.
type LedgerEvent struct {
	TransactionID   string    `json:"transactionId"`
	WalletID        string    `json:"walletId"`
	TransactionType string    `json:"transactionType"`
	Amount          float64   `json:"amount"`
	BalanceAfter    float64   `json:"balanceAfter"`
	ReferenceType   string    `json:"referenceType,omitempty"`
	ReferenceID     string    `json:"referenceId,omitempty"`
	CreatedBy       string    `json:"createdBy"`
	BeneficiaryID   string    `json:"beneficiaryId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func SerializeLedgerEvent(txn models.WalletTransaction) ([]byte, error) {
	event := LedgerEvent{
		TransactionID:   txn.ID.Hex(),
		WalletID:        txn.WalletID.Hex(),
		TransactionType: string(txn.TransactionType),
		Amount:          txn.Amount,
		BalanceAfter:    txn.BalanceAfter,
		ReferenceType:   txn.ReferenceType,
		CreatedBy:       txn.CreatedBy.Hex(),
		CreatedAt:       txn.CreatedAt,
	}
	if !txn.ReferenceID.IsZero() {
		event.ReferenceID = txn.ReferenceID.Hex()
	}
	if !txn.BeneficiaryID.IsZero() {
		event.BeneficiaryID = txn.BeneficiaryID.Hex()
	}
	return json.Marshal(event)
}
