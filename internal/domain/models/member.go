// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member binds a user to a workspace with an assigned role. At most one
// member document exists per (user_id, workspace_id) pair; the role may be
// reassigned later, the binding itself never changes identity.
type Member struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	WorkspaceID primitive.ObjectID `bson:"workspace_id" json:"workspace_id"`
	RoleID      primitive.ObjectID `bson:"role_id" json:"role_id"`
	JoinedAt    time.Time          `bson:"joined_at" json:"joined_at"`
}
