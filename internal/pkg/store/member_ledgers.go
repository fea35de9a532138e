package store

import (
	"context"
	"time"

	"sahakari/bachatgat_ledger/internal/pkg/consts"
	"sahakari/bachatgat_ledger/internal/pkg/db"
	"sahakari/bachatgat_ledger/internal/pkg/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MemberLedgerRepository struct {
	repo *MongoRepository[models.MemberLedger]
}

func NewMemberLedgerRepository() *MemberLedgerRepository {
	collection := db.MDB.Database.Collection(consts.MemberLedgersCollection)
	return &MemberLedgerRepository{repo: NewMongoRepository[models.MemberLedger](collection)}
}

// CreditPrincipal upserts the (wallet, user) ledger and adds a
// contribution. TotalBalance moves by the same amount, keeping
// totalBalance == principalContributed + interestEarned.
func (r *MemberLedgerRepository) CreditPrincipal(ctx context.Context, walletID, userID primitive.ObjectID, amount float64, now time.Time) error {
	filter := bson.M{"walletId": walletID, "userId": userID}
	update := bson.M{
		"$inc":         bson.M{"principalContributed": amount, "totalBalance": amount},
		"$set":         bson.M{"lastContributionAt": now, "updatedAt": now},
		"$setOnInsert": bson.M{"walletId": walletID, "userId": userID, "createdAt": now},
	}
	return r.repo.UpdateRaw(ctx, filter, update, options.Update().SetUpsert(true))
}

// CreditInterest upserts the (wallet, user) ledger and adds an interest
// credit.
func (r *MemberLedgerRepository) CreditInterest(ctx context.Context, walletID, userID primitive.ObjectID, amount float64, now time.Time) error {
	filter := bson.M{"walletId": walletID, "userId": userID}
	update := bson.M{
		"$inc":         bson.M{"interestEarned": amount, "totalBalance": amount},
		"$set":         bson.M{"lastInterestCreditAt": now, "updatedAt": now},
		"$setOnInsert": bson.M{"walletId": walletID, "userId": userID, "createdAt": now},
	}
	return r.repo.UpdateRaw(ctx, filter, update, options.Update().SetUpsert(true))
}

func (r *MemberLedgerRepository) FindByWallet(ctx context.Context, walletID primitive.ObjectID) ([]models.MemberLedger, error) {
	return r.repo.FindAll(ctx, bson.M{"walletId": walletID})
}

// FindContributorsExcluding returns ledgers with positive principal,
// leaving out the given user. This is the snapshot basis at disbursement:
// the borrower never appears in their own loan's snapshot.
func (r *MemberLedgerRepository) FindContributorsExcluding(ctx context.Context, walletID, excludedUserID primitive.ObjectID) ([]models.MemberLedger, error) {
	filter := bson.M{
		"walletId":             walletID,
		"userId":               bson.M{"$ne": excludedUserID},
		"principalContributed": bson.M{"$gt": 0},
	}
	return r.repo.FindAll(ctx, filter)
}
