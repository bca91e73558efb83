package taskboard

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

type CreateTaskMessage struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
}

func (e CreateTaskMessage) Type() string { return "task.create" }

func (e CreateTaskMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(
			&e.Title,
			validation.Required,
		),
		validation.Field(
			&e.Description,
			validation.Required,
		),
	)
}

type UpdateTaskMessage struct {
	UpdatedTitle       string `json:"updatedTitle"`
	UpdatedDescription string `json:"updatedDescription"`
}

func (e UpdateTaskMessage) Type() string { return "task.update" }

// TaskManager coordinates task records and the per user ownership links
// stored on users.task_ids. Callers are expected to pass the id of the
// authenticated user; handlers here do not verify that a given task id is
// linked to that user, ownership is only consulted when listing.
type TaskManager struct {
	repo   RepositoryManager
	logger Logger
}

func NewTaskManager(repo RepositoryManager) *TaskManager {
	return &TaskManager{
		repo:   repo,
		logger: defLogger{},
	}
}

func (m *TaskManager) WithLogger(logger Logger) *TaskManager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// CreateTask stores the task and then links it to the owner. The two writes
// are not transactional: a failure on the link leaves the task record behind
// without an owner, which we surface in the error and log.
func (m *TaskManager) CreateTask(ctx context.Context, ownerID uuid.UUID, event CreateTaskMessage) (*Task, error) {
	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "title and description are required").
			WithCode(goerrors.CodeBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	task, err := m.repo.Tasks().Create(ctx, &Task{
		Title:       event.Title,
		Description: event.Description,
		Status:      event.Status,
	})
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create task")
	}

	if err := m.repo.Users().AppendTask(ctx, ownerID, task.ID); err != nil {
		m.logger.Error("task created but owner link failed",
			"task_id", task.ID.String(),
			"user_id", ownerID.String(),
			"error", err,
		)
		if goerrors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to link task to user")
	}

	return task, nil
}

// ListUserTasks returns the owner's tasks in the order they were linked.
func (m *TaskManager) ListUserTasks(ctx context.Context, ownerID uuid.UUID) ([]*Task, error) {
	user, err := m.repo.Users().GetByIdentifier(ctx, ownerID.String())
	if err != nil {
		if goerrors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user")
	}

	tasks, err := m.repo.Tasks().ListByIDs(ctx, user.TaskIDs)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list tasks")
	}

	if len(tasks) < len(user.TaskIDs) {
		m.logger.Debug("skipped dangling task references",
			"user_id", ownerID.String(),
			"linked", len(user.TaskIDs),
			"resolved", len(tasks),
		)
	}

	return tasks, nil
}

func (m *TaskManager) GetTask(ctx context.Context, taskID uuid.UUID) (*Task, error) {
	task, err := m.repo.Tasks().FindByID(ctx, taskID)
	if err != nil {
		if goerrors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			return nil, ErrTaskNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load task")
	}
	return task, nil
}

// UpdateTask writes only the fields that differ from the stored record. A
// payload that matches the stored values is a no-op, not an error: the task
// is returned as is without touching the store.
func (m *TaskManager) UpdateTask(ctx context.Context, taskID uuid.UUID, event UpdateTaskMessage) (*Task, error) {
	if event.UpdatedTitle == "" && event.UpdatedDescription == "" {
		return nil, goerrors.New("at least one field is required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	current, err := m.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	changed := false

	if event.UpdatedTitle != "" && event.UpdatedTitle != current.Title {
		current.Title = event.UpdatedTitle
		changed = true
	}

	if event.UpdatedDescription != "" && event.UpdatedDescription != current.Description {
		current.Description = event.UpdatedDescription
		changed = true
	}

	if !changed {
		return current, nil
	}

	updated, err := m.repo.Tasks().Update(ctx, current)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update task")
	}

	return updated, nil
}

// UpdateStatus overwrites the task status unconditionally, so a repeated
// move to the same status still refreshes updated_at. Unknown values are
// rejected by the storage layer's status constraint.
func (m *TaskManager) UpdateStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus) (*Task, error) {
	if status == "" {
		return nil, goerrors.New("status is required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	current, err := m.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	current.Status = status

	updated, err := m.repo.Tasks().Update(ctx, current)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update task status")
	}

	return updated, nil
}

// DeleteTask removes the task record. The owner's task_ids entry is left in
// place and skipped when the list is next resolved.
func (m *TaskManager) DeleteTask(ctx context.Context, taskID uuid.UUID) (*Task, error) {
	task, err := m.repo.Tasks().DeleteByID(ctx, taskID)
	if err != nil {
		if goerrors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			return nil, ErrTaskNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete task")
	}
	return task, nil
}
