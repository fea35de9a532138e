package db

import (
	"context"
	"time"

	"sahakari/bachatgat_ledger/internal/pkg/consts"
	"sahakari/bachatgat_ledger/internal/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the uniqueness constraints the ledger relies on.
// The idempotency-key indexes are what make duplicate detection atomic
// with the insert: a replayed operation fails on the index, there is no
// separate lookup that could race.
func EnsureIndexes() {
	if MDB == nil || MDB.Database == nil {
		logger.Info("Skipping index setup: MongoDB is not connected")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	type indexSpec struct {
		collection string
		keys       bson.D
		unique     bool
		name       string
	}

	specs := []indexSpec{
		{consts.WalletTransactionsCollection, bson.D{{Key: "idempotencyKey", Value: 1}}, true, "unique_idempotency_key"},
		{consts.WalletTransactionsCollection, bson.D{{Key: "walletId", Value: 1}, {Key: "createdAt", Value: 1}}, false, "wallet_created_at"},
		{consts.LoanRepaymentsCollection, bson.D{{Key: "idempotencyKey", Value: 1}}, true, "unique_repayment_idempotency_key"},
		{consts.LoanApprovalsCollection, bson.D{{Key: "loanId", Value: 1}, {Key: "userId", Value: 1}}, true, "unique_loan_vote"},
		{consts.MemberLedgersCollection, bson.D{{Key: "walletId", Value: 1}, {Key: "userId", Value: 1}}, true, "unique_member_ledger"},
		{consts.EMISchedulesCollection, bson.D{{Key: "loanId", Value: 1}, {Key: "installmentNumber", Value: 1}}, true, "unique_loan_installment"},
		{consts.ContributionSnapshotsCollection, bson.D{{Key: "loanId", Value: 1}, {Key: "userId", Value: 1}}, true, "unique_loan_contribution_snapshot"},
		{consts.GroupWalletsCollection, bson.D{{Key: "groupId", Value: 1}}, true, "unique_group_wallet"},
		{consts.GroupMembersCollection, bson.D{{Key: "groupId", Value: 1}, {Key: "userId", Value: 1}, {Key: "isActive", Value: 1}}, false, "group_member_active"},
		{consts.LoanRequestsCollection, bson.D{{Key: "groupId", Value: 1}, {Key: "status", Value: 1}}, false, "loan_group_status"},
	}

	for _, spec := range specs {
		model := mongo.IndexModel{
			Keys:    spec.keys,
			Options: options.Index().SetName(spec.name).SetUnique(spec.unique),
		}
		if _, err := MDB.Database.Collection(spec.collection).Indexes().CreateOne(ctx, model); err != nil {
			logger.Error("Failed to create index %s on %s: %v", spec.name, spec.collection, err)
		}
	}

	logger.Info("Index setup complete")
}
