package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a savings group (bachat gat). Each group has exactly one wallet.
type Group struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"createdBy"`

	// Loan terms applied when a loan reaches quorum.
	DefaultInterestRate   float64 `bson:"defaultInterestRate"`
	DefaultDurationMonths int     `bson:"defaultLoanDurationMonths"`
	DefaultRepaymentType  string  `bson:"defaultRepaymentType"`
	UseFlatRate           bool    `bson:"useFlatRate"`

	IsActive  bool      `bson:"isActive"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type MemberRole string

const (
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

// GroupMember is a membership record. Members are never hard-deleted:
// leaving sets isActive=false and the deletion metadata.
type GroupMember struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	GroupID primitive.ObjectID `bson:"groupId"`
	UserID  primitive.ObjectID `bson:"userId"`
	Role    MemberRole         `bson:"role"`

	IsActive      bool       `bson:"isActive"`
	DeletedAt     *time.Time `bson:"deletedAt,omitempty"`
	DeletedReason string     `bson:"deletedReason,omitempty"`

	JoinedAt  time.Time `bson:"joinedAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// AdminTransferHistory is the audit row written when admin rights move
// from one member to another.
type AdminTransferHistory struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	GroupID       primitive.ObjectID `bson:"groupId"`
	FromUserID    primitive.ObjectID `bson:"fromUserId"`
	ToUserID      primitive.ObjectID `bson:"toUserId"`
	Reason        string             `bson:"reason,omitempty"`
	TransferredAt time.Time          `bson:"transferredAt"`
}
