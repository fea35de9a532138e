package store

import (
	"context"
	"time"

	"sahakari/bachatgat_ledger/internal/pkg/consts"
	"sahakari/bachatgat_ledger/internal/pkg/db"
	"sahakari/bachatgat_ledger/internal/pkg/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TransactionRepository is the append-only ledger store. Entries are only
// ever inserted, flagged published, or flagged reversed; never deleted.
type TransactionRepository struct {
	repo *MongoRepository[models.WalletTransaction]
}

func NewTransactionRepository() *TransactionRepository {
	collection := db.MDB.Database.Collection(consts.WalletTransactionsCollection)
	return &TransactionRepository{repo: NewMongoRepository[models.WalletTransaction](collection)}
}

// Insert appends one ledger entry. The unique index on idempotencyKey
// makes replay detection atomic with the insert.
func (r *TransactionRepository) Insert(ctx context.Context, txn models.WalletTransaction) error {
	_, err := r.repo.Create(ctx, txn)
	if mongo.IsDuplicateKeyError(err) {
		return consts.ErrorDuplicateTransaction
	}
	return err
}

// FindActiveByWallet returns all non-reversed entries of one wallet in
// insertion order.
func (r *TransactionRepository) FindActiveByWallet(ctx context.Context, walletID primitive.ObjectID) ([]models.WalletTransaction, error) {
	filter := bson.M{"walletId": walletID, "isReversed": false}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.repo.FindAll(ctx, filter, opts)
}

func (r *TransactionRepository) MarkPublished(ctx context.Context, id primitive.ObjectID) error {
	return r.repo.Update(ctx, bson.M{"_id": id}, bson.M{"publishedToKafka": true})
}

// FindUnpublished returns entries not yet delivered to the event topic,
// bounded to a recent window for the retry sweep.
func (r *TransactionRepository) FindUnpublished(ctx context.Context, windowHours int) ([]models.WalletTransaction, error) {
	threshold := time.Now().Add(-time.Duration(windowHours) * time.Hour)
	filter := bson.M{
		"publishedToKafka": false,
		"createdAt":        bson.M{"$gte": threshold},
	}
	return r.repo.FindAll(ctx, filter)
}
