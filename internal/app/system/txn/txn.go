// internal/app/system/txn/txn.go

// Package txn runs multi-document write sequences inside a MongoDB
// transaction. Transactions need a replica set (or mongos); against a
// plain standalone server the driver rejects session writes, so WithTransaction
// detects that case and falls back to running the callback without a
// session. Production deployments run replica sets and always get the
// atomic path.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction executes fn within a single transaction: every write fn
// performs through the session-bound context commits together or not at
// all. fn must use the ctx it is handed for every storage call.
//
// Errors from fn pass through unchanged, so domain errors keep their kind
// and a commit/abort failure surfaces as the driver error. No retry is
// attempted here; retry policy belongs to the caller.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		// Standalone server: the transaction failed before any write stuck.
		return fn(ctx)
	}
	return err
}

// Server error codes that indicate transactions are unavailable:
// 20 IllegalOperation on standalone, 51 IllegalOperation variants,
// 263 OperationNotSupportedInTransaction.
var notSupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

// IsNotSupported reports whether err means the server cannot run
// multi-document transactions, as opposed to a transaction that ran and
// failed.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && notSupportedCodes[cmdErr.Code] {
		return true
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set"):
		return true
	case strings.Contains(msg, "session") && strings.Contains(msg, "not supported"):
		return true
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "session"):
		return true
	case strings.Contains(msg, "illegal operation"):
		return true
	}
	return false
}
