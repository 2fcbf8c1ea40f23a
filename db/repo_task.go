package db

import (
	"context"

	"Gin_postgres_redis_task_api/models"
)

// TaskQuery UserID 为 nil 表示不按用户过滤
type TaskQuery struct {
	UserID *uint
	Status string
	Page   Page
}

type TaskList struct {
	Tasks []models.Task
	Total int64
	Page  Page
}

func (r *Repo) ListTasks(ctx context.Context, q TaskQuery) (TaskList, error) {
	p := q.Page.normalize(10, 100)

	tx := r.DB.WithContext(ctx).Model(&models.Task{})
	if q.UserID != nil {
		tx = tx.Where("user_id = ?", *q.UserID)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return TaskList{}, err
	}

	tasks := []models.Task{}
	if err := tx.Order("id ASC").Scopes(paginate(p)).Find(&tasks).Error; err != nil {
		return TaskList{}, err
	}
	return TaskList{Tasks: tasks, Total: total, Page: p}, nil
}

func (r *Repo) CreateTask(ctx context.Context, t *models.Task) error {
	return translate(r.DB.WithContext(ctx).Create(t).Error)
}

func (r *Repo) FindTaskByID(ctx context.Context, id uint) (*models.Task, error) {
	var t models.Task
	if err := r.DB.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// SaveTask 写回整行（调用方已合并好字段）
func (r *Repo) SaveTask(ctx context.Context, t *models.Task) error {
	return translate(r.DB.WithContext(ctx).Save(t).Error)
}

func (r *Repo) DeleteTask(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Task{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
