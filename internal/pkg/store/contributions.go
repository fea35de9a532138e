package store

import (
	"context"

	"sahakari/bachatgat_ledger/internal/pkg/consts"
	"sahakari/bachatgat_ledger/internal/pkg/db"
	"sahakari/bachatgat_ledger/internal/pkg/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ContributionRepository struct {
	repo *MongoRepository[models.MemberContribution]
}

func NewContributionRepository() *ContributionRepository {
	collection := db.MDB.Database.Collection(consts.MemberContributionsCollection)
	return &ContributionRepository{repo: NewMongoRepository[models.MemberContribution](collection)}
}

func (r *ContributionRepository) Insert(ctx context.Context, contribution models.MemberContribution) error {
	_, err := r.repo.Create(ctx, contribution)
	return err
}

func (r *ContributionRepository) FindByWallet(ctx context.Context, walletID primitive.ObjectID) ([]models.MemberContribution, error) {
	opts := options.Find().SetSort(bson.D{{Key: "contributedAt", Value: -1}})
	return r.repo.FindAll(ctx, bson.M{"walletId": walletID}, opts)
}
