package store

import (
	"context"
	"errors"

	"sahakari/bachatgat_ledger/internal/pkg/consts"
	"sahakari/bachatgat_ledger/internal/pkg/db"
	"sahakari/bachatgat_ledger/internal/pkg/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RepaymentRepository struct {
	repo *MongoRepository[models.LoanRepayment]
}

func NewRepaymentRepository() *RepaymentRepository {
	collection := db.MDB.Database.Collection(consts.LoanRepaymentsCollection)
	return &RepaymentRepository{repo: NewMongoRepository[models.LoanRepayment](collection)}
}

func (r *RepaymentRepository) Insert(ctx context.Context, repayment models.LoanRepayment) error {
	_, err := r.repo.Create(ctx, repayment)
	if mongo.IsDuplicateKeyError(err) {
		return consts.ErrorDuplicateTransaction
	}
	return err
}

func (r *RepaymentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.LoanRepayment, error) {
	repayment, err := r.repo.Read(ctx, bson.M{"_id": id})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repayment, consts.ErrorRepaymentNotFound
	}
	return repayment, err
}

func (r *RepaymentRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	return r.repo.Update(ctx, bson.M{"_id": id}, fields)
}

func (r *RepaymentRepository) FindByLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.LoanRepayment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}})
	return r.repo.FindAll(ctx, bson.M{"loanId": loanID}, opts)
}

// CountPendingByPayerAndGroup backs the leave-group check: a member with a
// repayment awaiting admin review cannot exit.
func (r *RepaymentRepository) CountPendingByPayerAndGroup(ctx context.Context, groupID, payerID primitive.ObjectID) (int64, error) {
	return r.repo.Count(ctx, bson.M{
		"groupId": groupID,
		"paidBy":  payerID,
		"status":  models.RepaymentPending,
	})
}
