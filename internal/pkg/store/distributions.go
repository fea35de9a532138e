package store

import (
	"context"

	"sahakari/bachatgat_ledger/internal/pkg/consts"
	"sahakari/bachatgat_ledger/internal/pkg/db"
	"sahakari/bachatgat_ledger/internal/pkg/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DistributionRepository struct {
	repo *MongoRepository[models.InterestDistribution]
}

func NewDistributionRepository() *DistributionRepository {
	collection := db.MDB.Database.Collection(consts.InterestDistributionsCollection)
	return &DistributionRepository{repo: NewMongoRepository[models.InterestDistribution](collection)}
}

func (r *DistributionRepository) InsertMany(ctx context.Context, distributions []models.InterestDistribution) error {
	if len(distributions) == 0 {
		return nil
	}
	docs := make([]interface{}, len(distributions))
	for i, d := range distributions {
		docs[i] = d
	}
	return r.repo.CreateMany(ctx, docs)
}

func (r *DistributionRepository) FindByLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.InterestDistribution, error) {
	return r.repo.FindAll(ctx, bson.M{"loanId": loanID})
}
