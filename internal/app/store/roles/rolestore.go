// internal/app/store/roles/rolestore.go

// Package rolestore reads the roles reference collection. The collection
// mirrors the static permission table and is written only by Seed at
// startup; request flows treat it as read-only.
package rolestore

import (
	"context"
	"errors"
	"time"

	"github.com/rabindra-basnet/team-project-saas/internal/app/system/authz"
	"github.com/rabindra-basnet/team-project-saas/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("role not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("roles")}
}

// GetByName loads a role by its name within the given context (which may be
// a transaction session context).
func (s *Store) GetByName(ctx context.Context, name string) (models.Role, error) {
	var role models.Role
	err := s.c.FindOne(ctx, bson.M{"name": name}).Decode(&role)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Role{}, ErrNotFound
		}
		return models.Role{}, err
	}
	return role, nil
}

// GetByID loads a role by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Role, error) {
	var role models.Role
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&role)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Role{}, ErrNotFound
		}
		return models.Role{}, err
	}
	return role, nil
}

// List returns every role, name and id only (permission sets stay server-side).
func (s *Store) List(ctx context.Context) ([]models.Role, error) {
	opts := options.Find().SetProjection(bson.M{"name": 1}).SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var roles []models.Role
	if err := cur.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// Seed upserts one role document per entry in the table. Permission sets
// in the collection are overwritten so a table change in a new build takes
// effect on restart. Idempotent.
func (s *Store) Seed(ctx context.Context, table authz.RoleTable) error {
	for name, perms := range table {
		filter := bson.M{"name": name}
		update := bson.M{
			"$set":         bson.M{"permissions": authz.Strings(perms)},
			"$setOnInsert": bson.M{"created_at": time.Now().UTC()},
		}
		if _, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return err
		}
	}
	return nil
}
