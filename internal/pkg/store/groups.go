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

type GroupRepository struct {
	repo *MongoRepository[models.Group]
}

func NewGroupRepository() *GroupRepository {
	collection := db.MDB.Database.Collection(consts.GroupsCollection)
	return &GroupRepository{repo: NewMongoRepository[models.Group](collection)}
}

func (r *GroupRepository) Insert(ctx context.Context, group models.Group) error {
	_, err := r.repo.Create(ctx, group)
	return err
}

func (r *GroupRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	group, err := r.repo.Read(ctx, bson.M{"_id": id, "isActive": true})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return group, consts.ErrorGroupNotFound
	}
	return group, err
}

type MemberRepository struct {
	repo *MongoRepository[models.GroupMember]
}

func NewMemberRepository() *MemberRepository {
	collection := db.MDB.Database.Collection(consts.GroupMembersCollection)
	return &MemberRepository{repo: NewMongoRepository[models.GroupMember](collection)}
}

func (r *MemberRepository) Insert(ctx context.Context, member models.GroupMember) error {
	_, err := r.repo.Create(ctx, member)
	return err
}

// GetActive returns the active membership of one user in one group.
func (r *MemberRepository) GetActive(ctx context.Context, groupID, userID primitive.ObjectID) (models.GroupMember, error) {
	member, err := r.repo.Read(ctx, bson.M{"groupId": groupID, "userId": userID, "isActive": true})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return member, consts.ErrorMemberNotFound
	}
	return member, err
}

func (r *MemberRepository) CountActive(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return r.repo.Count(ctx, bson.M{"groupId": groupID, "isActive": true})
}

func (r *MemberRepository) CountActiveAdmins(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return r.repo.Count(ctx, bson.M{"groupId": groupID, "role": models.RoleAdmin, "isActive": true})
}

// Deactivate soft-deletes a membership.
func (r *MemberRepository) Deactivate(ctx context.Context, id primitive.ObjectID, reason string, now time.Time) error {
	return r.repo.Update(ctx, bson.M{"_id": id}, bson.M{
		"isActive":      false,
		"deletedAt":     now,
		"deletedReason": reason,
		"updatedAt":     now,
	})
}

func (r *MemberRepository) SetRole(ctx context.Context, id primitive.ObjectID, role models.MemberRole, now time.Time) error {
	return r.repo.Update(ctx, bson.M{"_id": id}, bson.M{"role": role, "updatedAt": now})
}

type AdminTransferRepository struct {
	repo *MongoRepository[models.AdminTransferHistory]
}

func NewAdminTransferRepository() *AdminTransferRepository {
	collection := db.MDB.Database.Collection(consts.AdminTransferHistoryCollection)
	return &AdminTransferRepository{repo: NewMongoRepository[models.AdminTransferHistory](collection)}
}

func (r *AdminTransferRepository) Insert(ctx context.Context, transfer models.AdminTransferHistory) error {
	_, err := r.repo.Create(ctx, transfer)
	return err
}
