// app/bootstrap.go
package app

import (
	"context"
	"errors"
	"fmt"

	"Gin_postgres_redis_task_api/config"
	"Gin_postgres_redis_task_api/db"
	"Gin_postgres_redis_task_api/models"
	"Gin_postgres_redis_task_api/password"

	"go.uber.org/zap"
)

// BootstrapFirstAdmin 配置了 ADMIN_EMAIL / ADMIN_PASSWORD 时确保该管理员存在
func BootstrapFirstAdmin(ctx context.Context, cfg config.Config, repo *db.Repo, logger *zap.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		n, err := repo.CountAdmins(ctx)
		if err == nil && n == 0 {
			logger.Warn("no admin user configured; set ADMIN_EMAIL and ADMIN_PASSWORD")
		}
		return nil
	}

	existing, err := repo.FindUserByEmail(ctx, cfg.AdminEmail)
	switch {
	case err == nil:
		// 已存在：只补 Admin 角色
		if err := repo.AssignRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("bootstrap assign admin: %w", err)
		}
		return nil
	case !errors.Is(err, db.ErrNotFound):
		return fmt.Errorf("bootstrap lookup admin: %w", err)
	}

	hash, err := password.Hash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("bootstrap hash password: %w", err)
	}
	u := &models.User{Name: "Admin", Email: cfg.AdminEmail, Password: hash}
	if err := repo.CreateUser(ctx, u, models.RoleAdmin); err != nil {
		return fmt.Errorf("bootstrap create admin: %w", err)
	}
	logger.Info("[BOOTSTRAP] admin user created", zap.Uint("user_id", u.ID), zap.String("email", u.Email))
	return nil
}
