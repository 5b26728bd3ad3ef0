// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/normalize"
	"github.com/rabindra-basnet/team-project-saas/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("user not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByEmail looks up a user by normalized email.
// Returns ErrNotFound if no user has the email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// SetCurrentWorkspace repoints the user's current workspace. Pass nil to
// clear the pointer (the user's last workspace was deleted).
func (s *Store) SetCurrentWorkspace(ctx context.Context, userID primitive.ObjectID, workspaceID *primitive.ObjectID) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	update := bson.M{"$set": set}
	if workspaceID != nil {
		set["current_workspace"] = *workspaceID
	} else {
		update["$unset"] = bson.M{"current_workspace": ""}
	}
	res, err := s.c.UpdateByID(ctx, userID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// NewDoc builds an insert-ready user document with normalized fields and
// timestamps. Callers inside transactions insert it themselves.
func NewDoc(name, email, passwordHash, picture string) models.User {
	now := time.Now().UTC()
	n := normalize.Name(name)
	return models.User{
		ID:             primitive.NewObjectID(),
		Name:           n,
		NameCI:         text.Fold(n),
		Email:          normalize.Email(email),
		Password:       passwordHash,
		ProfilePicture: picture,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
