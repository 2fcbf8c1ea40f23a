package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Gin_postgres_redis_task_api/db"
	"Gin_postgres_redis_task_api/models"
	"Gin_postgres_redis_task_api/password"
	"Gin_postgres_redis_task_api/session"

	"go.uber.org/zap"
)

// TokenIssuer is the bearer token backend; session.TokenStore in production.
type TokenIssuer interface {
	Issue(ctx context.Context, userID uint) (string, error)
	Lookup(ctx context.Context, token string) (*session.AccessToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID uint) error
}

type AuthService struct {
	repo   *db.Repo
	tokens TokenIssuer
	log    *zap.Logger
}

func NewAuthService(repo *db.Repo, tokens TokenIssuer, log *zap.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, log: log}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Register 新用户默认 Client 角色
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.repo.Transaction(ctx, func(tx *db.Repo) error {
		u, err := createUser(ctx, tx, in.Name, in.Email, in.Password)
		user = u
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// createUser 校验邮箱唯一、hash 密码、写入并赋予 Client；调用方负责事务
func createUser(ctx context.Context, tx *db.Repo, name, email, plain string) (*models.User, error) {
	taken, err := tx.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fieldError("email", "The email has already been taken.")
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return nil, err
	}
	u := &models.User{Name: name, Email: email, Password: hash}
	if err := tx.CreateUser(ctx, u, models.RoleClient); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, fieldError("email", "The email has already been taken.")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login 不区分“邮箱不存在”和“密码错误”
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return "", err
	}

	u, err := s.repo.FindUserByEmail(ctx, in.Email)
	if errors.Is(err, db.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	ok, err := password.Verify(in.Password, u.Password)
	if err != nil {
		s.log.Warn("password verify failed", zap.Uint("user_id", u.ID), zap.Error(err))
		return "", ErrInvalidCredentials
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, u.ID)
	if err != nil {
		return "", err
	}
	if err := s.repo.TouchUserLogin(ctx, u.ID); err != nil {
		// 不阻塞登录
		s.log.Warn("touch user login", zap.Uint("user_id", u.ID), zap.Error(err))
	}
	return token, nil
}

// Logout 撤销调用者全部 token（包括当前这个）
func (s *AuthService) Logout(ctx context.Context, caller *models.User) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if err := s.tokens.RevokeAllForUser(ctx, caller.ID); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	return nil
}

// Resolve bearer token -> 用户（带角色）
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.User, error) {
	at, err := s.tokens.Lookup(ctx, token)
	if errors.Is(err, session.ErrTokenNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	u, err := s.repo.FindUserByID(ctx, at.UserID)
	if errors.Is(err, db.ErrNotFound) {
		_ = s.tokens.Revoke(ctx, token)
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
