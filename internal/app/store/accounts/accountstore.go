// internal/app/store/accounts/accountstore.go
package accountstore

import (
	"context"
	"errors"
	"time"

	"github.com/rabindra-basnet/team-project-saas/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("account not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("accounts")}
}

// GetByProvider loads the account for a (provider, providerID) pair.
func (s *Store) GetByProvider(ctx context.Context, provider, providerID string) (models.Account, error) {
	var a models.Account
	err := s.c.FindOne(ctx, bson.M{"provider": provider, "provider_id": providerID}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Account{}, ErrNotFound
		}
		return models.Account{}, err
	}
	return a, nil
}

// ListByUser returns every account linked to the user.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Account, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var accounts []models.Account
	if err := cur.All(ctx, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// NewDoc builds an insert-ready account document.
func NewDoc(userID primitive.ObjectID, provider, providerID string) models.Account {
	return models.Account{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		Provider:   provider,
		ProviderID: providerID,
		CreatedAt:  time.Now().UTC(),
	}
}
