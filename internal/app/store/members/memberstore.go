// internal/app/store/members/memberstore.go

// Package memberstore owns the members collection: joining workspaces by
// invite code and resolving a user's role within a workspace, which every
// permission check starts from.
package memberstore

import (
	"context"
	"errors"
	"time"

	rolestore "github.com/rabindra-basnet/team-project-saas/internal/app/store/roles"
	workspacestore "github.com/rabindra-basnet/team-project-saas/internal/app/store/workspaces"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"github.com/rabindra-basnet/team-project-saas/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a membership does not exist.
var ErrNotFound = errors.New("member not found")

type Store struct {
	c   *mongo.Collection
	log *zap.Logger

	workspaces *workspacestore.Store
	roles      *rolestore.Store
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		c:          db.Collection("members"),
		log:        logger,
		workspaces: workspacestore.New(db, logger),
		roles:      rolestore.New(db),
	}
}

// NewDoc builds an insert-ready membership document. Callers inside
// transactions insert it themselves.
func NewDoc(userID, workspaceID, roleID primitive.ObjectID) models.Member {
	return models.Member{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		WorkspaceID: workspaceID,
		RoleID:      roleID,
		JoinedAt:    time.Now().UTC(),
	}
}

// Get returns the membership of a user in a workspace, or ErrNotFound.
func (s *Store) Get(ctx context.Context, userID, workspaceID primitive.ObjectID) (models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{
		"user_id":      userID,
		"workspace_id": workspaceID,
	}).Decode(&m)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Member{}, ErrNotFound
		}
		return models.Member{}, err
	}
	return m, nil
}

// JoinByInvite adds the user to the workspace behind the invite code with
// the MEMBER role. Joining a workspace the user already belongs to is a
// no-op that returns the existing membership, so replaying an invite link
// never duplicates a member. Returns the membership, the workspace, and
// the member's role name.
func (s *Store) JoinByInvite(ctx context.Context, userID primitive.ObjectID, inviteCode string) (models.Member, models.Workspace, string, error) {
	ws, err := s.workspaces.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		return models.Member{}, models.Workspace{}, "", err
	}

	if existing, err := s.Get(ctx, userID, ws.ID); err == nil {
		role, rerr := s.roles.GetByID(ctx, existing.RoleID)
		if rerr != nil {
			return models.Member{}, models.Workspace{}, "", rerr
		}
		return existing, ws, role.Name, nil
	} else if err != ErrNotFound {
		return models.Member{}, models.Workspace{}, "", err
	}

	memberRole, err := s.roles.GetByName(ctx, models.RoleMember)
	if err != nil {
		if err == rolestore.ErrNotFound {
			return models.Member{}, models.Workspace{}, "", apperror.NotFound("Member role not found")
		}
		return models.Member{}, models.Workspace{}, "", err
	}

	member := NewDoc(userID, ws.ID, memberRole.ID)
	if _, err := s.c.InsertOne(ctx, member); err != nil {
		return models.Member{}, models.Workspace{}, "", err
	}

	s.log.Info("member joined by invite",
		zap.String("workspace_id", ws.ID.Hex()),
		zap.String("user_id", userID.Hex()))
	return member, ws, memberRole.Name, nil
}

// RoleInWorkspace resolves the user's role name inside the workspace. A
// missing workspace is a not-found; a user who is not a member is refused
// outright, which keeps non-members from learning anything about the
// workspace.
func (s *Store) RoleInWorkspace(ctx context.Context, userID, workspaceID primitive.ObjectID) (string, error) {
	if _, err := s.workspaces.GetByID(ctx, workspaceID); err != nil {
		return "", err
	}

	member, err := s.Get(ctx, userID, workspaceID)
	if err != nil {
		if err == ErrNotFound {
			return "", apperror.Unauthorized("You are not a member of this workspace")
		}
		return "", err
	}

	role, err := s.roles.GetByID(ctx, member.RoleID)
	if err != nil {
		if err == rolestore.ErrNotFound {
			return "", apperror.NotFound("Role not found")
		}
		return "", err
	}
	return role.Name, nil
}
