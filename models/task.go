package models

import "time"

const TaskTable = "tasks"

const (
	TaskPending   = "Pending"
	TaskCompleted = "Completed"
)

// TaskStatuses 没有状态流转限制，两个值可以互相切换
var TaskStatuses = []string{TaskPending, TaskCompleted}

func ValidTaskStatus(s string) bool {
	for _, v := range TaskStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	Status      string    `gorm:"size:20;not null;index;default:'Pending'" json:"status"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Task) TableName() string { return TaskTable }
