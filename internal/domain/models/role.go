// internal/domain/models/role.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role names. The set is closed; members always carry one of these.
const (
	RoleOwner  = "OWNER"
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// Role is a reference-table document pairing a role name with its
// permission set. The collection is seeded at startup from the static
// table in system/authz and read, never written, by request flows.
type Role struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Permissions []string           `bson:"permissions" json:"permissions"`
}

// IsValidRoleName checks a value against the closed role enumeration.
func IsValidRoleName(name string) bool {
	switch name {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}
