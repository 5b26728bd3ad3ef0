// internal/app/store/tasks/taskstore.go

// Package taskstore owns the tasks collection: creation with generated
// task codes, assignee validation against workspace membership, filtered
// paginated listing, and the usual scoped CRUD.
package taskstore

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
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
	c        *mongo.Collection
	projects *mongo.Collection
	members  *mongo.Collection
	log      *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		c:        db.Collection("tasks"),
		projects: db.Collection("projects"),
		members:  db.Collection("members"),
		log:      logger,
	}
}

// NewTaskCode returns a short human-facing task identifier,
// e.g. "task-f3a".
func NewTaskCode() string {
	return "task-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:3]
}

// Input carries the mutable fields of a task. Zero values on Update mean
// "leave unchanged"; on Create they fall back to defaults (status TODO,
// priority MEDIUM).
type Input struct {
	Title       string
	Description string
	Status      string
	Priority    string
	AssignedTo  *primitive.ObjectID
	DueDate     *time.Time
}

// Create inserts a task in the given project. The project must belong to
// the workspace and an assignee, when set, must be a member of the
// workspace.
func (s *Store) Create(ctx context.Context, workspaceID, projectID, createdBy primitive.ObjectID, in Input) (models.Task, error) {
	if err := s.requireProject(ctx, workspaceID, projectID); err != nil {
		return models.Task{}, err
	}
	if err := s.validateInput(ctx, workspaceID, in); err != nil {
		return models.Task{}, err
	}

	if in.Status == "" {
		in.Status = models.StatusTodo
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}

	now := time.Now().UTC()
	t := models.Task{
		ID:          primitive.NewObjectID(),
		TaskCode:    NewTaskCode(),
		WorkspaceID: workspaceID,
		ProjectID:   projectID,
		Title:       normalize.Name(in.Title),
		Description: normalize.Description(in.Description),
		Status:      in.Status,
		Priority:    in.Priority,
		AssignedTo:  in.AssignedTo,
		CreatedBy:   createdBy,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}

	s.log.Info("task created",
		zap.String("task_id", t.ID.Hex()),
		zap.String("task_code", t.TaskCode),
		zap.String("project_id", projectID.Hex()))
	return t, nil
}

// GetByID retrieves a task, requiring it to belong to both the project and
// the workspace.
func (s *Store) GetByID(ctx context.Context, workspaceID, projectID, taskID primitive.ObjectID) (models.Task, error) {
	if err := s.requireProject(ctx, workspaceID, projectID); err != nil {
		return models.Task{}, err
	}

	var t models.Task
	err := s.c.FindOne(ctx, bson.M{
		"_id":          taskID,
		"project_id":   projectID,
		"workspace_id": workspaceID,
	}).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Task{}, apperror.NotFound("Task not found")
		}
		return models.Task{}, err
	}
	return t, nil
}

// Update persists changed fields of a task. Empty/nil input fields leave
// the stored value unchanged.
func (s *Store) Update(ctx context.Context, workspaceID, projectID, taskID primitive.ObjectID, in Input) (models.Task, error) {
	t, err := s.GetByID(ctx, workspaceID, projectID, taskID)
	if err != nil {
		return models.Task{}, err
	}
	if err := s.validateInput(ctx, workspaceID, in); err != nil {
		return models.Task{}, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if title := normalize.Name(in.Title); title != "" {
		t.Title = title
		set["title"] = title
	}
	if d := normalize.Description(in.Description); d != "" {
		t.Description = d
		set["description"] = d
	}
	if in.Status != "" {
		t.Status = in.Status
		set["status"] = in.Status
	}
	if in.Priority != "" {
		t.Priority = in.Priority
		set["priority"] = in.Priority
	}
	if in.AssignedTo != nil {
		t.AssignedTo = in.AssignedTo
		set["assigned_to"] = *in.AssignedTo
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
		set["due_date"] = *in.DueDate
	}

	if _, err := s.c.UpdateByID(ctx, t.ID, bson.M{"$set": set}); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Delete removes a task from the workspace.
func (s *Store) Delete(ctx context.Context, workspaceID, taskID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{
		"_id":          taskID,
		"workspace_id": workspaceID,
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("Task not found")
	}
	return nil
}

// Filter narrows a workspace task listing. Zero values are ignored.
type Filter struct {
	ProjectID  *primitive.ObjectID
	Statuses   []string
	Priorities []string
	AssignedTo []primitive.ObjectID
	Keyword    string
	DueDate    *time.Time
}

func (f Filter) query(workspaceID primitive.ObjectID) bson.M {
	q := bson.M{"workspace_id": workspaceID}
	if f.ProjectID != nil {
		q["project_id"] = *f.ProjectID
	}
	if len(f.Statuses) > 0 {
		q["status"] = bson.M{"$in": f.Statuses}
	}
	if len(f.Priorities) > 0 {
		q["priority"] = bson.M{"$in": f.Priorities}
	}
	if len(f.AssignedTo) > 0 {
		q["assigned_to"] = bson.M{"$in": f.AssignedTo}
	}
	if f.Keyword != "" {
		kw := bson.M{"$regex": regexp.QuoteMeta(f.Keyword), "$options": "i"}
		q["$or"] = bson.A{
			bson.M{"title": kw},
			bson.M{"description": kw},
		}
	}
	if f.DueDate != nil {
		q["due_date"] = *f.DueDate
	}
	return q
}

// ListPage returns one page of the workspace's tasks matching the filter,
// newest first.
func (s *Store) ListPage(ctx context.Context, workspaceID primitive.ObjectID, f Filter, req paging.Request) ([]models.Task, paging.Meta, error) {
	req = req.Normalize()
	filter := f.query(workspaceID)

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

	tasks := []models.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, paging.Meta{}, err
	}
	return tasks, paging.NewMeta(req, total), nil
}

func (s *Store) requireProject(ctx context.Context, workspaceID, projectID primitive.ObjectID) error {
	err := s.projects.FindOne(ctx, bson.M{
		"_id":          projectID,
		"workspace_id": workspaceID,
	}).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperror.NotFound("Project not found or does not belong to this workspace")
		}
		return err
	}
	return nil
}

func (s *Store) validateInput(ctx context.Context, workspaceID primitive.ObjectID, in Input) error {
	if in.Status != "" && !models.IsValidTaskStatus(in.Status) {
		return apperror.BadRequest("Invalid task status: " + in.Status)
	}
	if in.Priority != "" && !models.IsValidTaskPriority(in.Priority) {
		return apperror.BadRequest("Invalid task priority: " + in.Priority)
	}
	if in.AssignedTo != nil {
		err := s.members.FindOne(ctx, bson.M{
			"user_id":      *in.AssignedTo,
			"workspace_id": workspaceID,
		}).Err()
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return apperror.BadRequest("Assigned user is not a member of this workspace")
			}
			return err
		}
	}
	return nil
}
