package db

import (
	"context"
	"strings"
	"time"

	"Gin_postgres_redis_task_api/models"

	"gorm.io/gorm/clause"
)

func (r *Repo) CreateInvite(ctx context.Context, inv *models.Invitation) error {
	inv.Email = strings.ToLower(strings.TrimSpace(inv.Email))
	return translate(r.DB.WithContext(ctx).Create(inv).Error)
}

func (r *Repo) InviteExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Invitation{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&n).Error
	return n > 0, err
}

// LockInviteByEmail 在事务里用 SELECT ... FOR UPDATE 锁行（sqlite 忽略锁）
func (r *Repo) LockInviteByEmail(ctx context.Context, email string) (*models.Invitation, error) {
	return r.findInvite(ctx, true, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *Repo) LockInviteByToken(ctx context.Context, token string) (*models.Invitation, error) {
	return r.findInvite(ctx, true, "token = ?", token)
}

func (r *Repo) GetInviteByToken(ctx context.Context, token string) (*models.Invitation, error) {
	return r.findInvite(ctx, false, "token = ?", token)
}

func (r *Repo) findInvite(ctx context.Context, lock bool, query string, args ...any) (*models.Invitation, error) {
	var inv models.Invitation
	tx := r.DB.WithContext(ctx)
	if lock {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := tx.Where(query, args...).First(&inv).Error; err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

// RotateInvite 换新 token 并重置过期时间，其他字段不动
func (r *Repo) RotateInvite(ctx context.Context, inv *models.Invitation, token string, expiresAt time.Time) error {
	err := r.DB.WithContext(ctx).Model(inv).Updates(map[string]any{
		"token":      token,
		"expires_at": expiresAt,
	}).Error
	if err != nil {
		return translate(err)
	}
	inv.Token = token
	inv.ExpiresAt = expiresAt
	return nil
}

func (r *Repo) MarkInviteUsed(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&models.Invitation{}).
		Where("id = ? AND is_used = ?", id, false).
		Update("is_used", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
