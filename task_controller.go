package taskboard

import (
	"net/http"

	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

func RegisterTaskRoutes[T any](app router.Router[T], protected router.MiddlewareFunc, opts ...TaskControllerOption) {
	controller := NewTaskController(opts...)

	app.Post(controller.Routes.Create, protected(controller.Create)).
		SetName("tasks.create")

	app.Get(controller.Routes.List, protected(controller.List)).
		SetName("tasks.list")

	app.Get(controller.Routes.Get, protected(controller.Get)).
		SetName("tasks.get")

	app.Put(controller.Routes.Update, protected(controller.Update)).
		SetName("tasks.update")

	app.Put(controller.Routes.UpdateStatus, protected(controller.UpdateStatus)).
		SetName("tasks.update-status")

	app.Delete(controller.Routes.Delete, protected(controller.Delete)).
		SetName("tasks.delete")
}

type TaskControllerRoutes struct {
	Create       string
	List         string
	Get          string
	Update       string
	UpdateStatus string
	Delete       string
}

type TaskController struct {
	Logger     Logger
	Manager    *TaskManager
	ContextKey string
	Routes     *TaskControllerRoutes
}

type TaskControllerOption func(*TaskController) *TaskController

func WithTaskLogger(logger Logger) TaskControllerOption {
	return func(c *TaskController) *TaskController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithTaskManager(manager *TaskManager) TaskControllerOption {
	return func(c *TaskController) *TaskController {
		c.Manager = manager
		return c
	}
}

func WithTaskContextKey(key string) TaskControllerOption {
	return func(c *TaskController) *TaskController {
		if key != "" {
			c.ContextKey = key
		}
		return c
	}
}

func NewTaskController(opts ...TaskControllerOption) *TaskController {
	c := &TaskController{
		Logger:     defLogger{},
		ContextKey: "user",
		Routes: &TaskControllerRoutes{
			Create:       "/tasks/create-task",
			List:         "/tasks/user-tasks",
			Get:          "/tasks/task/:taskId",
			Update:       "/tasks/update-task/:taskId",
			UpdateStatus: "/tasks/task-status/:taskId",
			Delete:       "/tasks/delete-task/:taskId",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Manager == nil {
		panic("Missing TaskManager in task controller...")
	}

	return c
}

func (t *TaskController) Create(ctx router.Context) error {
	user, ok := GetRouterUser(ctx, t.ContextKey)
	if !ok {
		return RespondError(ctx, t.Logger, ErrTokenMissing)
	}

	payload := new(CreateTaskMessage)
	if err := ctx.Bind(payload); err != nil {
		t.Logger.Error("create task parse payload: ", "error", err)
		return RespondError(ctx, t.Logger, badRequest("failed to parse request body", err))
	}

	task, err := t.Manager.CreateTask(ctx.Context(), user.ID, *payload)
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	return RespondOK(ctx, http.StatusCreated, "task created successfully", task)
}

func (t *TaskController) List(ctx router.Context) error {
	user, ok := GetRouterUser(ctx, t.ContextKey)
	if !ok {
		return RespondError(ctx, t.Logger, ErrTokenMissing)
	}

	tasks, err := t.Manager.ListUserTasks(ctx.Context(), user.ID)
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	return RespondOK(ctx, http.StatusOK, "user tasks", tasks)
}

func (t *TaskController) Get(ctx router.Context) error {
	taskID, err := t.taskIDParam(ctx)
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	task, err := t.Manager.GetTask(ctx.Context(), taskID)
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	return RespondOK(ctx, http.StatusOK, "task", task)
}

func (t *TaskController) Update(ctx router.Context) error {
	taskID, err := t.taskIDParam(ctx)
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	payload := new(UpdateTaskMessage)
	if err := ctx.Bind(payload); err != nil {
		t.Logger.Error("update task parse payload: ", "error", err)
		return RespondError(ctx, t.Logger, badRequest("failed to parse request body", err))
	}

	task, err := t.Manager.UpdateTask(ctx.Context(), taskID, *payload)
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	return RespondOK(ctx, http.StatusOK, "task updated successfully", task)
}

// UpdateStatusRequest payload
type UpdateStatusRequest struct {
	StatusTask TaskStatus `form:"statusTask" json:"statusTask"`
}

func (t *TaskController) UpdateStatus(ctx router.Context) error {
	taskID, err := t.taskIDParam(ctx)
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	payload := new(UpdateStatusRequest)
	if err := ctx.Bind(payload); err != nil {
		t.Logger.Error("update status parse payload: ", "error", err)
		return RespondError(ctx, t.Logger, badRequest("failed to parse request body", err))
	}

	task, err := t.Manager.UpdateStatus(ctx.Context(), taskID, payload.StatusTask)
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	return RespondOK(ctx, http.StatusOK, "task status updated", task)
}

func (t *TaskController) Delete(ctx router.Context) error {
	taskID, err := t.taskIDParam(ctx)
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	task, err := t.Manager.DeleteTask(ctx.Context(), taskID)
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	return RespondOK(ctx, http.StatusOK, "task deleted successfully", task)
}

func (t *TaskController) taskIDParam(ctx router.Context) (uuid.UUID, error) {
	raw := ctx.Param("taskId", "")
	if raw == "" {
		return uuid.Nil, badRequest("taskId is required", nil)
	}

	taskID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, badRequest("taskId must be a valid uuid", err)
	}

	return taskID, nil
}
