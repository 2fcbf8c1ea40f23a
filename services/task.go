package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Gin_postgres_redis_task_api/db"
	"Gin_postgres_redis_task_api/models"

	"go.uber.org/zap"
)

// TasksPerPage 列表固定每页 10 条
const TasksPerPage = 10

type TaskService struct {
	repo *db.Repo
	log  *zap.Logger
}

func NewTaskService(repo *db.Repo, log *zap.Logger) *TaskService {
	return &TaskService{repo: repo, log: log}
}

type TaskFilter struct {
	Status string
	UserID *uint
	Page   int
}

// TaskPage 分页结果，字段名沿用 current_page / last_page 这套
type TaskPage struct {
	CurrentPage int           `json:"current_page"`
	Data        []models.Task `json:"data"`
	From        *int          `json:"from"`
	LastPage    int           `json:"last_page"`
	PerPage     int           `json:"per_page"`
	To          *int          `json:"to"`
	Total       int64         `json:"total"`
}

// List Client 只能看到自己的任务，忽略传入的 user_id；Admin 可按 user_id 过滤
func (s *TaskService) List(ctx context.Context, caller *models.User, f TaskFilter) (*TaskPage, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	q := db.TaskQuery{
		Status: strings.TrimSpace(f.Status),
		Page:   db.Page{Page: f.Page, Size: TasksPerPage},
	}
	switch {
	case HasRole(caller, models.RoleClient):
		id := caller.ID
		q.UserID = &id
	case IsAdmin(caller):
		q.UserID = f.UserID
	default:
		// 没有任何角色：同 Client 处理
		id := caller.ID
		q.UserID = &id
	}

	res, err := s.repo.ListTasks(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return newTaskPage(res), nil
}

func newTaskPage(res db.TaskList) *TaskPage {
	p := &TaskPage{
		CurrentPage: res.Page.Page,
		Data:        res.Tasks,
		PerPage:     res.Page.Size,
		Total:       res.Total,
		LastPage:    1,
	}
	if res.Total > 0 {
		p.LastPage = int((res.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
	}
	if n := len(res.Tasks); n > 0 {
		from := res.Page.Offset() + 1
		to := res.Page.Offset() + n
		p.From, p.To = &from, &to
	}
	return p
}

type CreateTaskInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description"`
	Status      string  `json:"status" validate:"required,oneof=Pending Completed"`
	UserID      uint    `json:"user_id" validate:"required"`
}

// Create 不检查归属：任何登录用户都可以给任意 user_id 建任务
func (s *TaskService) Create(ctx context.Context, caller *models.User, in CreateTaskInput) (*models.Task, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	ok, err := s.repo.UserExists(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fieldError("user_id", "The selected user id is invalid.")
	}

	t := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		UserID:      in.UserID,
	}
	if err := s.repo.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.log.Info("task created",
		zap.Uint("task_id", t.ID),
		zap.Uint("user_id", t.UserID),
		zap.Uint("created_by", caller.ID),
	)
	return t, nil
}

// find 查任务并执行策略检查
func (s *TaskService) find(ctx context.Context, caller *models.User, id uint, allow func(*models.User, *models.Task) bool) (*models.Task, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	t, err := s.repo.FindTaskByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, &NotFoundError{Resource: "Task"}
	}
	if err != nil {
		return nil, err
	}
	if !allow(caller, t) {
		return nil, ErrForbidden
	}
	return t, nil
}

func (s *TaskService) Show(ctx context.Context, caller *models.User, id uint) (*models.Task, error) {
	return s.find(ctx, caller, id, CanView)
}

// UpdateTaskInput nil 字段保持原值；description 显式传 null 会清空
type UpdateTaskInput struct {
	Title       *string          `json:"title"`
	Description Optional[string] `json:"description"`
	Status      *string          `json:"status"`
	UserID      *uint            `json:"user_id"`
}

func (in UpdateTaskInput) validate() error {
	v := &ValidationError{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		switch {
		case title == "":
			v.Add("title", "The title field is required.")
		case len(title) > 255:
			v.Add("title", "The title field must not be greater than 255 characters.")
		}
	}
	if in.Status != nil && !models.ValidTaskStatus(*in.Status) {
		v.Add("status", "The selected status is invalid.")
	}
	if in.UserID != nil && *in.UserID == 0 {
		v.Add("user_id", "The selected user id is invalid.")
	}
	return v.OrNil()
}

// Update 可以改归属人（user_id 必须是已存在的用户）
func (s *TaskService) Update(ctx context.Context, caller *models.User, id uint, in UpdateTaskInput) (*models.Task, error) {
	t, err := s.find(ctx, caller, id, CanUpdate)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.UserID != nil && *in.UserID != t.UserID {
		ok, err := s.repo.UserExists(ctx, *in.UserID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fieldError("user_id", "The selected user id is invalid.")
		}
	}

	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description.Set {
		t.Description = in.Description.Value
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.UserID != nil && *in.UserID != t.UserID {
		s.log.Info("task reassigned",
			zap.Uint("task_id", t.ID),
			zap.Uint("from_user_id", t.UserID),
			zap.Uint("to_user_id", *in.UserID),
			zap.Uint("updated_by", caller.ID),
		)
		t.UserID = *in.UserID
	}
	if err := s.repo.SaveTask(ctx, t); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

func (s *TaskService) Destroy(ctx context.Context, caller *models.User, id uint) error {
	t, err := s.find(ctx, caller, id, CanDelete)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTask(ctx, t.ID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return &NotFoundError{Resource: "Task"}
		}
		return fmt.Errorf("delete task: %w", err)
	}
	s.log.Info("task deleted", zap.Uint("task_id", t.ID), zap.Uint("deleted_by", caller.ID))
	return nil
}
