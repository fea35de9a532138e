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
)

type LoanRepository struct {
	repo *MongoRepository[models.LoanRequest]
}

func NewLoanRepository() *LoanRepository {
	collection := db.MDB.Database.Collection(consts.LoanRequestsCollection)
	return &LoanRepository{repo: NewMongoRepository[models.LoanRequest](collection)}
}

func (r *LoanRepository) Insert(ctx context.Context, loan models.LoanRequest) error {
	_, err := r.repo.Create(ctx, loan)
	return err
}

func (r *LoanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.LoanRequest, error) {
	loan, err := r.repo.Read(ctx, bson.M{"_id": id})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return loan, consts.ErrorLoanNotFound
	}
	return loan, err
}

func (r *LoanRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	return r.repo.Update(ctx, bson.M{"_id": id}, fields)
}

// FindPendingByRequester reports open requests (any non-terminal state before
// disbursement) raised by one member in one group.
func (r *LoanRepository) FindPendingByRequester(ctx context.Context, groupID, userID primitive.ObjectID) ([]models.LoanRequest, error) {
	filter := bson.M{
		"groupId":     groupID,
		"requestedBy": userID,
		"status": bson.M{"$in": []models.LoanStatus{
			models.LoanPending, models.LoanPreApproved, models.LoanApproved,
		}},
	}
	return r.repo.FindAll(ctx, filter)
}

func (r *LoanRepository) FindByGroupAndStatus(ctx context.Context, groupID primitive.ObjectID, statuses []models.LoanStatus) ([]models.LoanRequest, error) {
	filter := bson.M{"groupId": groupID}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	return r.repo.FindAll(ctx, filter)
}

func (r *LoanRepository) FindByBorrower(ctx context.Context, groupID, userID primitive.ObjectID, statuses []models.LoanStatus) ([]models.LoanRequest, error) {
	filter := bson.M{"groupId": groupID, "requestedBy": userID}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	return r.repo.FindAll(ctx, filter)
}
