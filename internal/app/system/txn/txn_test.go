package txn

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"github.com/rabindra-basnet/team-project-saas/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"plain domain error", apperror.NotFound("Workspace not found"), false},
		{"standalone server, code 20", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"}, true},
		{"illegal operation, code 51", mongo.CommandError{Code: 51, Message: "Illegal operation"}, true},
		{"not supported in transaction, code 263", mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"}, true},
		{"unrelated command error", mongo.CommandError{Code: 11000, Message: "duplicate key"}, false},
		{"wrapped command error", fmt.Errorf("starting session: %w", mongo.CommandError{Code: 20, Message: "replica set required"}), true},
		{"replica set message without code", errors.New("Transaction numbers are only allowed on a REPLICA SET member"), true},
		{"sessions unavailable message", errors.New("session operations are not supported on this server"), true},
		{"transaction mentioned alone", errors.New("transaction aborted"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithTransactionCommitsCallbackWrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	c := db.Collection("items")

	calls := 0
	err := WithTransaction(ctx, db.Client(), func(ctx context.Context) error {
		calls++
		_, err := c.InsertOne(ctx, bson.M{"n": calls})
		return err
	})
	if err != nil {
		t.Fatalf("WithTransaction: %v", err)
	}
	if calls == 0 {
		t.Fatal("callback never ran")
	}

	count, err := c.CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if count != 1 {
		t.Errorf("committed documents: got %d, want 1", count)
	}
}

// A callback error that merely looks like a missing-transaction-support
// error triggers at most one sessionless rerun, never a loop.
func TestWithTransactionRerunsUnsupportedAtMostOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	fake := mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"}
	calls := 0
	err := WithTransaction(ctx, db.Client(), func(ctx context.Context) error {
		calls++
		return fake
	})
	if err == nil {
		t.Fatal("expected the callback error to surface")
	}
	if !IsNotSupported(err) {
		t.Errorf("error lost its classification: %v", err)
	}
	if calls < 1 || calls > 2 {
		t.Errorf("callback ran %d times, want 1 or 2", calls)
	}
}

func TestWithTransactionPassesThroughDomainErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	want := apperror.NotFound("Workspace not found")
	err := WithTransaction(ctx, db.Client(), func(ctx context.Context) error {
		return want
	})
	if apperror.Kind(err) != apperror.KindNotFound {
		t.Errorf("domain error kind lost: got %v", err)
	}
}
