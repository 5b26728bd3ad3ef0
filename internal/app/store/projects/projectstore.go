// internal/app/store/projects/projectstore.go

// Package projectstore owns the projects collection. Every operation is
// scoped to a workspace; a project id is only meaningful together with the
// workspace it belongs to.
package projectstore

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/normalize"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/paging"
	"github.com/rabindra-basnet/team-project-saas/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	c     *mongo.Collection
	tasks *mongo.Collection
	log   *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		c:     db.Collection("projects"),
		tasks: db.Collection("tasks"),
		log:   logger,
	}
}

// Create inserts a project in the workspace.
func (s *Store) Create(ctx context.Context, workspaceID, createdBy primitive.ObjectID, name, description, emoji string) (models.Project, error) {
	now := time.Now().UTC()
	n := normalize.Name(name)
	if emoji == "" {
		emoji = "📊"
	}
	p := models.Project{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		Name:        n,
		NameCI:      text.Fold(n),
		Description: normalize.Description(description),
		Emoji:       emoji,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	s.log.Info("project created",
		zap.String("project_id", p.ID.Hex()),
		zap.String("workspace_id", workspaceID.Hex()))
	return p, nil
}

// GetByID retrieves a project, requiring it to belong to the workspace.
func (s *Store) GetByID(ctx context.Context, workspaceID, projectID primitive.ObjectID) (models.Project, error) {
	var p models.Project
	err := s.c.FindOne(ctx, bson.M{
		"_id":          projectID,
		"workspace_id": workspaceID,
	}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Project{}, apperror.NotFound("Project not found or does not belong to this workspace")
		}
		return models.Project{}, err
	}
	return p, nil
}

// ListPage returns one page of the workspace's projects, newest first.
func (s *Store) ListPage(ctx context.Context, workspaceID primitive.ObjectID, req paging.Request) ([]models.Project, paging.Meta, error) {
	req = req.Normalize()
	filter := bson.M{"workspace_id": workspaceID}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, paging.Meta{}, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(req.Skip())).
		SetLimit(int64(req.PageSize))
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, paging.Meta{}, err
	}
	defer cur.Close(ctx)

	projects := []models.Project{}
	if err := cur.All(ctx, &projects); err != nil {
		return nil, paging.Meta{}, err
	}
	return projects, paging.NewMeta(req, total), nil
}

// Update persists new name/description/emoji. Empty values leave the
// existing field unchanged.
func (s *Store) Update(ctx context.Context, workspaceID, projectID primitive.ObjectID, name, description, emoji string) (models.Project, error) {
	p, err := s.GetByID(ctx, workspaceID, projectID)
	if err != nil {
		return models.Project{}, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if n := normalize.Name(name); n != "" {
		p.Name = n
		p.NameCI = text.Fold(n)
		set["name"] = p.Name
		set["name_ci"] = p.NameCI
	}
	if d := normalize.Description(description); d != "" {
		p.Description = d
		set["description"] = d
	}
	if emoji != "" {
		p.Emoji = emoji
		set["emoji"] = emoji
	}

	if _, err := s.c.UpdateByID(ctx, p.ID, bson.M{"$set": set}); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// Delete removes the project and every task filed under it.
func (s *Store) Delete(ctx context.Context, workspaceID, projectID primitive.ObjectID) error {
	p, err := s.GetByID(ctx, workspaceID, projectID)
	if err != nil {
		return err
	}

	if _, err := s.tasks.DeleteMany(ctx, bson.M{"project_id": p.ID}); err != nil {
		return err
	}
	if _, err := s.c.DeleteOne(ctx, bson.M{"_id": p.ID}); err != nil {
		return err
	}

	s.log.Info("project deleted",
		zap.String("project_id", p.ID.Hex()),
		zap.String("workspace_id", workspaceID.Hex()))
	return nil
}

// Analytics summarizes the project's task counts: total, overdue (past
// due and not done), and done.
type Analytics struct {
	TotalTasks     int64 `json:"totalTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
	CompletedTasks int64 `json:"completedTasks"`
}

// ProjectAnalytics computes task analytics scoped to one project.
func (s *Store) ProjectAnalytics(ctx context.Context, workspaceID, projectID primitive.ObjectID) (Analytics, error) {
	p, err := s.GetByID(ctx, workspaceID, projectID)
	if err != nil {
		return Analytics{}, err
	}

	now := time.Now().UTC()
	base := bson.M{"project_id": p.ID, "workspace_id": workspaceID}

	total, err := s.tasks.CountDocuments(ctx, base)
	if err != nil {
		return Analytics{}, err
	}
	overdue, err := s.tasks.CountDocuments(ctx, bson.M{
		"project_id":   p.ID,
		"workspace_id": workspaceID,
		"due_date":     bson.M{"$lt": now},
		"status":       bson.M{"$ne": models.StatusDone},
	})
	if err != nil {
		return Analytics{}, err
	}
	completed, err := s.tasks.CountDocuments(ctx, bson.M{
		"project_id":   p.ID,
		"workspace_id": workspaceID,
		"status":       models.StatusDone,
	})
	if err != nil {
		return Analytics{}, err
	}

	return Analytics{TotalTasks: total, OverdueTasks: overdue, CompletedTasks: completed}, nil
}
