package store

import (
	"context"

	"sahakari/bachatgat_ledger/internal/pkg/consts"
	"sahakari/bachatgat_ledger/internal/pkg/db"
	"sahakari/bachatgat_ledger/internal/pkg/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SnapshotRepository struct {
	repo *MongoRepository[models.LoanContributionSnapshot]
}

func NewSnapshotRepository() *SnapshotRepository {
	collection := db.MDB.Database.Collection(consts.ContributionSnapshotsCollection)
	return &SnapshotRepository{repo: NewMongoRepository[models.LoanContributionSnapshot](collection)}
}

func (r *SnapshotRepository) InsertMany(ctx context.Context, snapshots []models.LoanContributionSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	docs := make([]interface{}, len(snapshots))
	for i, d := range snapshots {
		docs[i] = d
	}
	return r.repo.CreateMany(ctx, docs)
}

func (r *SnapshotRepository) FindByLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.LoanContributionSnapshot, error) {
	return r.repo.FindAll(ctx, bson.M{"loanId": loanID})
}

func (r *SnapshotRepository) CountByLoan(ctx context.Context, loanID primitive.ObjectID) (int64, error) {
	return r.repo.Count(ctx, bson.M{"loanId": loanID})
}
