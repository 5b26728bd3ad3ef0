// internal/app/store/workspaces/members.go

package workspacestore

import (
	"context"
	"time"

	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"github.com/rabindra-basnet/team-project-saas/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MemberDetail is a membership joined with its user profile and role,
// the shape the member-listing endpoint returns.
type MemberDetail struct {
	ID             primitive.ObjectID `json:"id"`
	UserID         primitive.ObjectID `json:"userId"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	ProfilePicture string             `json:"profilePicture,omitempty"`
	RoleID         primitive.ObjectID `json:"roleId"`
	RoleName       string             `json:"roleName"`
	JoinedAt       time.Time          `json:"joinedAt"`
}

// Members lists the workspace's memberships with user and role details,
// oldest membership first.
func (s *Store) Members(ctx context.Context, workspaceID primitive.ObjectID) ([]MemberDetail, error) {
	if _, err := s.GetByID(ctx, workspaceID); err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}})
	cur, err := s.members.Find(ctx, bson.M{"workspace_id": workspaceID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.Member
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []MemberDetail{}, nil
	}

	userIDs := make([]primitive.ObjectID, 0, len(memberships))
	roleIDs := make([]primitive.ObjectID, 0, len(memberships))
	for _, m := range memberships {
		userIDs = append(userIDs, m.UserID)
		roleIDs = append(roleIDs, m.RoleID)
	}

	users := make(map[primitive.ObjectID]models.User, len(userIDs))
	ucur, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, err
	}
	defer ucur.Close(ctx)
	var loadedUsers []models.User
	if err := ucur.All(ctx, &loadedUsers); err != nil {
		return nil, err
	}
	for _, u := range loadedUsers {
		users[u.ID] = u
	}

	roles := make(map[primitive.ObjectID]models.Role, len(roleIDs))
	rcur, err := s.db.Collection("roles").Find(ctx, bson.M{"_id": bson.M{"$in": roleIDs}})
	if err != nil {
		return nil, err
	}
	defer rcur.Close(ctx)
	var loadedRoles []models.Role
	if err := rcur.All(ctx, &loadedRoles); err != nil {
		return nil, err
	}
	for _, r := range loadedRoles {
		roles[r.ID] = r
	}

	out := make([]MemberDetail, 0, len(memberships))
	for _, m := range memberships {
		d := MemberDetail{
			ID:       m.ID,
			UserID:   m.UserID,
			RoleID:   m.RoleID,
			JoinedAt: m.JoinedAt,
		}
		if u, ok := users[m.UserID]; ok {
			d.Name = u.Name
			d.Email = u.Email
			d.ProfilePicture = u.ProfilePicture
		}
		if r, ok := roles[m.RoleID]; ok {
			d.RoleName = r.Name
		}
		out = append(out, d)
	}
	return out, nil
}

// ChangeMemberRole reassigns a member's role within the workspace. The
// workspace, the role, and the membership must all exist.
func (s *Store) ChangeMemberRole(ctx context.Context, workspaceID, memberUserID, roleID primitive.ObjectID) (models.Member, error) {
	if _, err := s.GetByID(ctx, workspaceID); err != nil {
		return models.Member{}, err
	}

	var role models.Role
	err := s.db.Collection("roles").FindOne(ctx, bson.M{"_id": roleID}).Decode(&role)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Member{}, apperror.NotFound("Role not found")
		}
		return models.Member{}, err
	}

	var member models.Member
	err = s.members.FindOne(ctx, bson.M{
		"user_id":      memberUserID,
		"workspace_id": workspaceID,
	}).Decode(&member)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Member{}, apperror.NotFound("Member not found in the workspace")
		}
		return models.Member{}, err
	}

	member.RoleID = role.ID
	_, err = s.members.UpdateByID(ctx, member.ID, bson.M{"$set": bson.M{"role_id": role.ID}})
	if err != nil {
		return models.Member{}, err
	}

	s.log.Info("member role changed",
		zap.String("workspace_id", workspaceID.Hex()),
		zap.String("member_user_id", memberUserID.Hex()),
		zap.String("role", role.Name))
	return member, nil
}

// Analytics summarizes task counts for the workspace: everything, the
// overdue slice (past due and not yet done), and the done slice.
type Analytics struct {
	TotalTasks     int64 `json:"totalTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
	CompletedTasks int64 `json:"completedTasks"`
}

// WorkspaceAnalytics computes task analytics scoped to the workspace.
func (s *Store) WorkspaceAnalytics(ctx context.Context, workspaceID primitive.ObjectID) (Analytics, error) {
	if _, err := s.GetByID(ctx, workspaceID); err != nil {
		return Analytics{}, err
	}

	now := time.Now().UTC()

	total, err := s.tasks.CountDocuments(ctx, bson.M{"workspace_id": workspaceID})
	if err != nil {
		return Analytics{}, err
	}
	overdue, err := s.tasks.CountDocuments(ctx, bson.M{
		"workspace_id": workspaceID,
		"due_date":     bson.M{"$lt": now},
		"status":       bson.M{"$ne": models.StatusDone},
	})
	if err != nil {
		return Analytics{}, err
	}
	completed, err := s.tasks.CountDocuments(ctx, bson.M{
		"workspace_id": workspaceID,
		"status":       models.StatusDone,
	})
	if err != nil {
		return Analytics{}, err
	}

	return Analytics{TotalTasks: total, OverdueTasks: overdue, CompletedTasks: completed}, nil
}
