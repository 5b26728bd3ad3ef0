// internal/domain/models/account.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Provider values for Account.Provider.
const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

// Account links one login identity to a User. A user may hold several
// accounts (password plus Google, say), but each (provider, provider_id)
// pair maps to exactly one account.
//
// For the "email" provider, ProviderID is the normalized email address.
// For federated providers it is the provider-assigned subject id.
type Account struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	Provider   string             `bson:"provider" json:"provider"`
	ProviderID string             `bson:"provider_id" json:"provider_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
