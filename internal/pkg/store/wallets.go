package store

import (
	"context"
	"errors"
	"time"

	"sahakari/bachatgat_ledger/internal/pkg/consts"
	"sahakari/bachatgat_ledger/internal/pkg/db"
	"sahakari/bachatgat_ledger/internal/pkg/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type WalletRepository struct {
	repo *MongoRepository[models.GroupWallet]
}

func NewWalletRepository() *WalletRepository {
	collection := db.MDB.Database.Collection(consts.GroupWalletsCollection)
	return &WalletRepository{repo: NewMongoRepository[models.GroupWallet](collection)}
}

func (r *WalletRepository) Insert(ctx context.Context, wallet models.GroupWallet) error {
	_, err := r.repo.Create(ctx, wallet)
	if mongo.IsDuplicateKeyError(err) {
		return consts.ErrorWalletAlreadyExists
	}
	return err
}

func (r *WalletRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.GroupWallet, error) {
	wallet, err := r.repo.Read(ctx, bson.M{"_id": id})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return wallet, consts.ErrorWalletNotFound
	}
	return wallet, err
}

func (r *WalletRepository) GetByGroupID(ctx context.Context, groupID primitive.ObjectID) (models.GroupWallet, error) {
	wallet, err := r.repo.Read(ctx, bson.M{"groupId": groupID})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return wallet, consts.ErrorWalletNotFound
	}
	return wallet, err
}

// CreditContribution applies an inflow to the cached aggregates and marks
// the cache clean. Must run in the same unit of work as the ledger insert.
func (r *WalletRepository) CreditContribution(ctx context.Context, id primitive.ObjectID, amount float64, now time.Time) error {
	return r.repo.UpdateRaw(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"balance": amount, "totalContributed": amount},
		"$set": bson.M{"isDirty": false, "lastRecalculatedAt": now, "updatedAt": now},
	})
}

// DebitIfSufficient is a compare-and-swap on the wallet row: the debit
// only applies when the stored balance still covers the amount, so two
// racing disbursements cannot both pass the balance check.
func (r *WalletRepository) DebitIfSufficient(ctx context.Context, id primitive.ObjectID, amount float64, now time.Time) (models.GroupWallet, error) {
	filter := bson.M{"_id": id, "balance": bson.M{"$gte": amount}}
	update := bson.M{
		"$inc": bson.M{"balance": -amount, "totalDisbursed": amount},
		"$set": bson.M{"isDirty": false, "lastRecalculatedAt": now, "updatedAt": now},
	}
	wallet, err := r.repo.FindOneAndUpdateRaw(ctx, filter, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return wallet, consts.ErrorInsufficientBalance
	}
	return wallet, err
}

// CreditRepayment applies a repayment inflow; interest is the portion
// counted toward totalInterestEarned.
func (r *WalletRepository) CreditRepayment(ctx context.Context, id primitive.ObjectID, amount, interest float64, now time.Time) error {
	return r.repo.UpdateRaw(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"balance": amount, "totalInterestEarned": interest},
		"$set": bson.M{"isDirty": false, "lastRecalculatedAt": now, "updatedAt": now},
	})
}

// OverwriteAggregates replaces the cached values with recalculated ones.
func (r *WalletRepository) OverwriteAggregates(ctx context.Context, id primitive.ObjectID, balance, contributed, disbursed float64, now time.Time) error {
	return r.repo.Update(ctx, bson.M{"_id": id}, bson.M{
		"balance":            balance,
		"totalContributed":   contributed,
		"totalDisbursed":     disbursed,
		"isDirty":            false,
		"lastRecalculatedAt": now,
		"updatedAt":          now,
	})
}

// MarkClean clears the dirty flag without touching the aggregates.
func (r *WalletRepository) MarkClean(ctx context.Context, id primitive.ObjectID, now time.Time) error {
	return r.repo.Update(ctx, bson.M{"_id": id}, bson.M{
		"isDirty":            false,
		"lastRecalculatedAt": now,
		"updatedAt":          now,
	})
}
