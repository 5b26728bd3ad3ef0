// internal/app/store/workspaces/workspacestore.go

// Package workspacestore owns the workspace collection and the lifecycle
// flows that span it: transactional create (workspace + owner membership +
// current-workspace pointer) and transactional delete (cascade over
// projects, tasks, and members, with the acting user's current-workspace
// pointer repointed).
package workspacestore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	rolestore "github.com/rabindra-basnet/team-project-saas/internal/app/store/roles"
	userstore "github.com/rabindra-basnet/team-project-saas/internal/app/store/users"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/normalize"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/txn"
	"github.com/rabindra-basnet/team-project-saas/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	db       *mongo.Database
	c        *mongo.Collection
	members  *mongo.Collection
	projects *mongo.Collection
	tasks    *mongo.Collection
	users    *mongo.Collection
	log      *zap.Logger

	roles    *rolestore.Store
	userDocs *userstore.Store
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:       db,
		c:        db.Collection("workspaces"),
		members:  db.Collection("members"),
		projects: db.Collection("projects"),
		tasks:    db.Collection("tasks"),
		users:    db.Collection("users"),
		log:      logger,
		roles:    rolestore.New(db),
		userDocs: userstore.New(db),
	}
}

// NewInviteCode returns a fresh opaque invite token: 8 hex chars of a v4
// uuid, enough to be unguessable in combination with the unique index.
func NewInviteCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// NewDoc builds an insert-ready workspace document with a fresh invite
// code. Callers inside transactions insert it themselves.
func NewDoc(name, description string, owner primitive.ObjectID) models.Workspace {
	now := time.Now().UTC()
	n := normalize.Name(name)
	return models.Workspace{
		ID:          primitive.NewObjectID(),
		Name:        n,
		NameCI:      text.Fold(n),
		Description: normalize.Description(description),
		Owner:       owner,
		InviteCode:  NewInviteCode(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Create provisions a workspace for an owning user: the workspace itself,
// an OWNER member record, and the user's current-workspace pointer, all in
// one transaction.
func (s *Store) Create(ctx context.Context, ownerID primitive.ObjectID, name, description string) (models.Workspace, error) {
	var ws models.Workspace

	err := txn.WithTransaction(ctx, s.db.Client(), func(ctx context.Context) error {
		user, err := s.userDocs.GetByID(ctx, ownerID)
		if err != nil {
			if err == userstore.ErrNotFound {
				return apperror.NotFound("User not found")
			}
			return err
		}

		ownerRole, err := s.roles.GetByName(ctx, models.RoleOwner)
		if err != nil {
			if err == rolestore.ErrNotFound {
				return apperror.NotFound("Owner role not found")
			}
			return err
		}

		ws = NewDoc(name, description, user.ID)
		if _, err := s.c.InsertOne(ctx, ws); err != nil {
			return err
		}

		member := models.Member{
			ID:          primitive.NewObjectID(),
			UserID:      user.ID,
			WorkspaceID: ws.ID,
			RoleID:      ownerRole.ID,
			JoinedAt:    time.Now().UTC(),
		}
		if _, err := s.members.InsertOne(ctx, member); err != nil {
			return err
		}

		return s.userDocs.SetCurrentWorkspace(ctx, user.ID, &ws.ID)
	})
	if err != nil {
		return models.Workspace{}, err
	}

	s.log.Info("workspace created",
		zap.String("workspace_id", ws.ID.Hex()),
		zap.String("owner_id", ownerID.Hex()))
	return ws, nil
}

// GetByID retrieves a workspace.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Workspace, error) {
	var ws models.Workspace
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ws)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Workspace{}, apperror.NotFound("Workspace not found")
		}
		return models.Workspace{}, err
	}
	return ws, nil
}

// GetByInviteCode resolves an invite token to its workspace.
func (s *Store) GetByInviteCode(ctx context.Context, code string) (models.Workspace, error) {
	var ws models.Workspace
	err := s.c.FindOne(ctx, bson.M{"invite_code": code}).Decode(&ws)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Workspace{}, apperror.NotFound("Invalid invite code or URL")
		}
		return models.Workspace{}, err
	}
	return ws, nil
}

// ListForUser returns every workspace the user is a member of, most
// recently joined first.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Workspace, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: -1}})
	cur, err := s.members.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.Member
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []models.Workspace{}, nil
	}

	ids := make([]primitive.ObjectID, len(memberships))
	for i, m := range memberships {
		ids[i] = m.WorkspaceID
	}

	wcur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer wcur.Close(ctx)

	byID := make(map[primitive.ObjectID]models.Workspace, len(ids))
	var loaded []models.Workspace
	if err := wcur.All(ctx, &loaded); err != nil {
		return nil, err
	}
	for _, ws := range loaded {
		byID[ws.ID] = ws
	}

	// Preserve membership order.
	out := make([]models.Workspace, 0, len(ids))
	for _, id := range ids {
		if ws, ok := byID[id]; ok {
			out = append(out, ws)
		}
	}
	return out, nil
}

// Update persists new name/description. Empty values leave the existing
// field unchanged; the workspace must exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, name, description string) (models.Workspace, error) {
	ws, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Workspace{}, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if n := normalize.Name(name); n != "" {
		ws.Name = n
		ws.NameCI = text.Fold(n)
		set["name"] = ws.Name
		set["name_ci"] = ws.NameCI
	}
	if d := normalize.Description(description); d != "" {
		ws.Description = d
		set["description"] = d
	}

	if _, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
		return models.Workspace{}, err
	}
	return ws, nil
}

// ResetInviteCode rotates the workspace invite token and returns the
// updated workspace.
func (s *Store) ResetInviteCode(ctx context.Context, id primitive.ObjectID) (models.Workspace, error) {
	ws, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Workspace{}, err
	}

	ws.InviteCode = NewInviteCode()
	_, err = s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"invite_code": ws.InviteCode,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return models.Workspace{}, err
	}

	s.log.Info("invite code reset", zap.String("workspace_id", id.Hex()))
	return ws, nil
}

// Delete removes a workspace and everything scoped to it in one
// transaction: projects, tasks, members, then the workspace itself. Only
// the owner may delete. If the acting user's current workspace was the one
// deleted, the pointer moves to their most recently joined remaining
// membership, or is cleared when none remain. Returns the resulting
// current-workspace pointer.
func (s *Store) Delete(ctx context.Context, workspaceID, actingUserID primitive.ObjectID) (*primitive.ObjectID, error) {
	var current *primitive.ObjectID

	err := txn.WithTransaction(ctx, s.db.Client(), func(ctx context.Context) error {
		ws, err := s.GetByID(ctx, workspaceID)
		if err != nil {
			return err
		}

		if ws.Owner != actingUserID {
			return apperror.Forbidden("You are not authorized to delete this workspace")
		}

		user, err := s.userDocs.GetByID(ctx, actingUserID)
		if err != nil {
			if err == userstore.ErrNotFound {
				return apperror.NotFound("User not found")
			}
			return err
		}

		if _, err := s.projects.DeleteMany(ctx, bson.M{"workspace_id": ws.ID}); err != nil {
			return err
		}
		if _, err := s.tasks.DeleteMany(ctx, bson.M{"workspace_id": ws.ID}); err != nil {
			return err
		}
		if _, err := s.members.DeleteMany(ctx, bson.M{"workspace_id": ws.ID}); err != nil {
			return err
		}

		current = user.CurrentWorkspace
		if user.CurrentWorkspace != nil && *user.CurrentWorkspace == ws.ID {
			// Deterministic repoint: the most recently joined remaining
			// membership wins; none left means no current workspace.
			var next models.Member
			opts := options.FindOne().SetSort(bson.D{{Key: "joined_at", Value: -1}})
			err := s.members.FindOne(ctx, bson.M{"user_id": user.ID}, opts).Decode(&next)
			switch err {
			case nil:
				current = &next.WorkspaceID
			case mongo.ErrNoDocuments:
				current = nil
			default:
				return err
			}
			if err := s.userDocs.SetCurrentWorkspace(ctx, user.ID, current); err != nil {
				return err
			}
		}

		_, err = s.c.DeleteOne(ctx, bson.M{"_id": ws.ID})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("workspace deleted",
		zap.String("workspace_id", workspaceID.Hex()),
		zap.String("acting_user_id", actingUserID.Hex()))
	return current, nil
}
