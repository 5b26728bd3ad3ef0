// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the identity record for anyone who can sign in, whether they
// registered with a password or arrived through a federated provider.
//
// CurrentWorkspace is the workspace context used for requests that do not
// name one explicitly. It is nil only while the user belongs to no
// workspace at all (for example right after their last workspace was
// deleted).
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password,omitempty" json:"-"` // bcrypt hash, empty for federated-only users
	ProfilePicture string             `bson:"profile_picture,omitempty" json:"profile_picture,omitempty"`

	CurrentWorkspace *primitive.ObjectID `bson:"current_workspace,omitempty" json:"current_workspace,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// OmitPassword returns a copy safe to hand to transport layers.
func (u User) OmitPassword() User {
	u.Password = ""
	return u
}
