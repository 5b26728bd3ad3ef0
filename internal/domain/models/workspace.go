// internal/domain/models/workspace.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workspace is the top-level tenant container. Projects, tasks, and
// memberships all belong to exactly one workspace via their workspace_id
// field.
//
// Owner is set at creation and never reassigned; deleting a workspace is
// restricted to its owner. InviteCode is an opaque token that lets a
// signed-in user join the workspace with the default member role; it is
// unique across workspaces and can be rotated.
type Workspace struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"` // case-insensitive for search and sorting
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	InviteCode  string             `bson:"invite_code" json:"invite_code"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
