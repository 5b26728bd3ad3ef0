// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureAccounts(ctx, db); err != nil {
		problems = append(problems, "accounts: "+err.Error())
	}
	if err := ensureWorkspaces(ctx, db); err != nil {
		problems = append(problems, "workspaces: "+err.Error())
	}
	if err := ensureRoles(ctx, db); err != nil {
		problems = append(problems, "roles: "+err.Error())
	}
	if err := ensureMembers(ctx, db); err != nil {
		problems = append(problems, "members: "+err.Error())
	}
	if err := ensureProjects(ctx, db); err != nil {
		problems = append(problems, "projects: "+err.Error())
	}
	if err := ensureTasks(ctx, db); err != nil {
		problems = append(problems, "tasks: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_user_email"),
		},
	})
	return err
}

func ensureAccounts(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("accounts").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "provider", Value: 1}, {Key: "provider_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_account_provider_id"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_account_user"),
		},
	})
	return err
}

func ensureWorkspaces(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("workspaces").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "invite_code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_workspace_invite_code"),
		},
		{
			Keys:    bson.D{{Key: "owner", Value: 1}},
			Options: options.Index().SetName("idx_workspace_owner"),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_workspace_name_ci"),
		},
	})
	return err
}

func ensureRoles(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("roles").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_role_name"),
		},
	})
	return err
}

func ensureMembers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("members").Indexes().CreateMany(ctx, []mongo.IndexModel{
		// One membership per user per workspace
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "workspace_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_member_user_workspace"),
		},
		{
			Keys:    bson.D{{Key: "workspace_id", Value: 1}},
			Options: options.Index().SetName("idx_member_workspace"),
		},
	})
	return err
}

func ensureProjects(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("projects").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workspace_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_project_workspace_created"),
		},
	})
	return err
}

func ensureTasks(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("tasks").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workspace_id", Value: 1}, {Key: "project_id", Value: 1}},
			Options: options.Index().SetName("idx_task_workspace_project"),
		},
		{
			Keys:    bson.D{{Key: "workspace_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_task_workspace_status"),
		},
		{
			Keys:    bson.D{{Key: "workspace_id", Value: 1}, {Key: "due_date", Value: 1}},
			Options: options.Index().SetName("idx_task_workspace_due"),
		},
	})
	return err
}
