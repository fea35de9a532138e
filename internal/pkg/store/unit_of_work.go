package store

import (
	"context"

	"sahakari/bachatgat_ledger/internal/pkg/db"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// UnitOfWork runs a callback inside one mongo transaction. Every
// financially-mutating operation goes through Run so that either every
// write of the operation commits (ledger entry, cache update, member
// ledger, state transition) or none do.
type UnitOfWork struct {
	client *mongo.Client
}

func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{client: db.MDB.Client}
}

func NewUnitOfWorkWithClient(client *mongo.Client) *UnitOfWork {
	return &UnitOfWork{client: client}
}

func (u *UnitOfWork) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := u.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, txnOpts)
	return err
}
