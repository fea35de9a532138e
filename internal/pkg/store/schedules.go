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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ScheduleRepository struct {
	repo *MongoRepository[models.EMISchedule]
}

func NewScheduleRepository() *ScheduleRepository {
	collection := db.MDB.Database.Collection(consts.EMISchedulesCollection)
	return &ScheduleRepository{repo: NewMongoRepository[models.EMISchedule](collection)}
}

func (r *ScheduleRepository) InsertMany(ctx context.Context, schedules []models.EMISchedule) error {
	if len(schedules) == 0 {
		return nil
	}
	docs := make([]interface{}, len(schedules))
	for i, d := range schedules {
		docs[i] = d
	}
	return r.repo.CreateMany(ctx, docs)
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.EMISchedule, error) {
	schedule, err := r.repo.Read(ctx, bson.M{"_id": id})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return schedule, consts.ErrorScheduleNotFound
	}
	return schedule, err
}

func (r *ScheduleRepository) FindByLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.EMISchedule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "installmentNumber", Value: 1}})
	return r.repo.FindAll(ctx, bson.M{"loanId": loanID}, opts)
}

// FirstUnpaid returns the earliest installment not yet settled.
func (r *ScheduleRepository) FirstUnpaid(ctx context.Context, loanID primitive.ObjectID) (models.EMISchedule, error) {
	schedules, err := r.FindByLoan(ctx, loanID)
	if err != nil {
		return models.EMISchedule{}, err
	}
	for _, s := range schedules {
		if !s.IsPaid {
			return s, nil
		}
	}
	return models.EMISchedule{}, consts.ErrorScheduleNotFound
}

func (r *ScheduleRepository) DeleteByLoan(ctx context.Context, loanID primitive.ObjectID) error {
	return r.repo.DeleteMany(ctx, bson.M{"loanId": loanID})
}

func (r *ScheduleRepository) CountPaid(ctx context.Context, loanID primitive.ObjectID) (int64, error) {
	return r.repo.Count(ctx, bson.M{"loanId": loanID, "isPaid": true})
}

func (r *ScheduleRepository) MarkPaid(ctx context.Context, id, repaymentID primitive.ObjectID, paidAmount float64, now time.Time) error {
	return r.repo.Update(ctx, bson.M{"_id": id}, bson.M{
		"isPaid":      true,
		"paidAt":      now,
		"paidAmount":  paidAmount,
		"repaymentId": repaymentID,
	})
}
