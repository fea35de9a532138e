package store

import (
	"context"

	"sahakari/bachatgat_ledger/internal/pkg/consts"
	"sahakari/bachatgat_ledger/internal/pkg/db"
	"sahakari/bachatgat_ledger/internal/pkg/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ApprovalRepository struct {
	repo *MongoRepository[models.LoanApproval]
}

func NewApprovalRepository() *ApprovalRepository {
	collection := db.MDB.Database.Collection(consts.LoanApprovalsCollection)
	return &ApprovalRepository{repo: NewMongoRepository[models.LoanApproval](collection)}
}

// Insert records a vote. The unique (loanId, userId) index rejects a second
// vote from the same member.
func (r *ApprovalRepository) Insert(ctx context.Context, approval models.LoanApproval) error {
	_, err := r.repo.Create(ctx, approval)
	if mongo.IsDuplicateKeyError(err) {
		return consts.ErrorDuplicateVote
	}
	return err
}

func (r *ApprovalRepository) CountByLoan(ctx context.Context, loanID primitive.ObjectID, approved bool) (int64, error) {
	return r.repo.Count(ctx, bson.M{"loanId": loanID, "approved": approved})
}

func (r *ApprovalRepository) FindByLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.LoanApproval, error) {
	return r.repo.FindAll(ctx, bson.M{"loanId": loanID})
}

func (r *ApprovalRepository) HasVoted(ctx context.Context, loanID, userID primitive.ObjectID) (bool, error) {
	count, err := r.repo.Count(ctx, bson.M{"loanId": loanID, "userId": userID})
	return count > 0, err
}
