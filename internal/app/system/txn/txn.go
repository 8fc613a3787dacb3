// Package txn wraps multi-document MongoDB transactions with a fallback
// detection helper for deployments that cannot run them (standalone servers
// without a replica set).
package txn

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a multi-document transaction when the deployment
// supports them. On a standalone server (no replica set) it logs once and
// re-runs fn outside a transaction; callers that need stronger guarantees
// in that mode must compensate on partial failure themselves.
//
// The context passed to fn is a session context during transactional runs,
// so all store calls made with it participate in the transaction.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	err := WithTransaction(ctx, db.Client(), func(sc mongo.SessionContext) error {
		return fn(sc)
	})
	if err == nil {
		return nil
	}
	if !IsNotSupported(err) {
		return err
	}

	log.Warn("transactions not supported by deployment; running writes sequentially",
		zap.Error(err))
	return fn(ctx)
}

// WithTransaction runs fn inside a MongoDB transaction using a session from
// the given client. The callback's writes must use the session context it
// receives. The transaction commits when fn returns nil and aborts on error.
//
// Callers should check the returned error with IsNotSupported and fall back
// to sequential writes with compensation when transactions are unavailable.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// Mongo server error codes that indicate transactions cannot run on this
// deployment topology.
const (
	codeIllegalOperation      = 20
	codeCommandNotSupported   = 51
	codeOperationNotSupported = 263
)

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (e.g., a standalone mongod without a replica
// set). Checks the known command error codes first, then falls back to
// keyword matching for drivers that wrap the server message.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if ok := errorAs(err, &cmdErr); ok {
		switch cmdErr.Code {
		case codeIllegalOperation, codeCommandNotSupported, codeOperationNotSupported:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") || strings.Contains(msg, "session") {
		if strings.Contains(msg, "replica set") ||
			strings.Contains(msg, "not supported") ||
			strings.Contains(msg, "illegal operation") ||
			(strings.Contains(msg, "transaction") && strings.Contains(msg, "session")) {
			return true
		}
	}
	return false
}

// errorAs matches mongo.CommandError whether it arrives as a value or
// wrapped; mongo.CommandError does not implement Unwrap targets cleanly
// across driver versions, so check the direct value too.
func errorAs(err error, target *mongo.CommandError) bool {
	if ce, ok := err.(mongo.CommandError); ok {
		*target = ce
		return true
	}
	for {
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
		if err == nil {
			return false
		}
		if ce, ok := err.(mongo.CommandError); ok {
			*target = ce
			return true
		}
	}
}
