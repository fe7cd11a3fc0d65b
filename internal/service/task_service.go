package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Vennela009/task-management-api/internal/model"
	"github.com/Vennela009/task-management-api/pkg/apierror"
)

type TaskStore interface {
	Create(ctx context.Context, task model.Task) (model.Task, error)
	ListByAssignee(ctx context.Context, assigneeID int64) ([]model.Task, error)
	FindByID(ctx context.Context, id int64) (model.Task, error)
	Update(ctx context.Context, task model.Task) (model.Task, error)
	Delete(ctx context.Context, id int64) error
}

type TaskService struct {
	store TaskStore
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

// Create assigns the task to actorID unless the request names another
// assignee explicitly.
func (s *TaskService) Create(ctx context.Context, actorID int64, req model.CreateTaskRequest) (model.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.Task{}, apierror.New("BAD_REQUEST", "title is required", "", http.StatusBadRequest)
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = "pending"
	}

	assigneeID := req.AssigneeID
	if assigneeID == 0 {
		assigneeID = actorID
	}

	now := time.Now().UTC()
	return s.store.Create(ctx, model.Task{
		Title:       title,
		Description: req.Description,
		Status:      status,
		AssigneeID:  assigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// ListAssigned returns the tasks assigned to the given account.
func (s *TaskService) ListAssigned(ctx context.Context, assigneeID int64) ([]model.Task, error) {
	return s.store.ListByAssignee(ctx, assigneeID)
}

func (s *TaskService) Get(ctx context.Context, id int64) (model.Task, error) {
	return s.store.FindByID(ctx, id)
}

func (s *TaskService) Update(ctx context.Context, id int64, req model.UpdateTaskRequest) (model.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.Task{}, apierror.New("BAD_REQUEST", "title is required", "", http.StatusBadRequest)
	}

	task, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.Task{}, err
	}

	task.Title = title
	task.Description = req.Description
	if status := strings.TrimSpace(req.Status); status != "" {
		task.Status = status
	}
	task.UpdatedAt = time.Now().UTC()

	return s.store.Update(ctx, task)
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
