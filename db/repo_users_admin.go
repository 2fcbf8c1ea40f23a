package db

import (
	"Gin_postgres_redis_task_api/models"
	"context"
	"fmt"
)

// AssignRole 给用户追加角色（已有则忽略）
func (r *Repo) AssignRole(ctx context.Context, userID uint, roleName string) error {
	var role models.Role
	if err := r.DB.WithContext(ctx).Where("name = ?", roleName).First(&role).Error; err != nil {
		return fmt.Errorf("role %s: %w", roleName, translate(err))
	}
	u := models.User{ID: userID}
	return r.DB.WithContext(ctx).Model(&u).Association("Roles").Append(&role)
}

func (r *Repo) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Table("user_roles").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.name = ?", models.RoleAdmin).
		Count(&n).Error
	return n, err
}
