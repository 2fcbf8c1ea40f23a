package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"Gin_postgres_redis_task_api/db"
	"Gin_postgres_redis_task_api/mailer"
	"Gin_postgres_redis_task_api/models"

	"go.uber.org/zap"
)

const (
	InviteTokenLength = 32
	DefaultInviteTTL  = 24 * time.Hour
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

type InvitationService struct {
	repo      *db.Repo
	mail      mailer.Mailer
	log       *zap.Logger
	ttl       time.Duration
	webOrigin string
	appName   string
	now       func() time.Time
}

type InvitationOptions struct {
	TTL       time.Duration
	WebOrigin string
	AppName   string
}

func NewInvitationService(repo *db.Repo, mail mailer.Mailer, log *zap.Logger, opts InvitationOptions) *InvitationService {
	if opts.TTL <= 0 {
		opts.TTL = DefaultInviteTTL
	}
	return &InvitationService{
		repo:      repo,
		mail:      mail,
		log:       log,
		ttl:       opts.TTL,
		webOrigin: strings.TrimRight(opts.WebOrigin, "/"),
		appName:   opts.AppName,
		now:       time.Now,
	}
}

// newInviteToken 32 位 URL 安全字母数字
func newInviteToken() (string, error) {
	b := make([]byte, InviteTokenLength)
	size := big.NewInt(int64(len(tokenAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("generate invite token: %w", err)
		}
		b[i] = tokenAlphabet[n.Int64()]
	}
	return string(b), nil
}

type InviteInput struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// Invite 每个邮箱只能有一条邀请记录（过期后也不能再邀请）
func (s *InvitationService) Invite(ctx context.Context, inviter *models.User, in InviteInput) (*models.Invitation, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	exists, err := s.repo.InviteExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fieldError("email", "The email has already been taken.")
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, err
	}
	inv := &models.Invitation{
		Email:     in.Email,
		Token:     token,
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}
	if inviter != nil {
		inv.InvitedBy = &inviter.ID
	}
	if err := s.repo.CreateInvite(ctx, inv); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, fieldError("email", "The email has already been taken.")
		}
		return nil, fmt.Errorf("create invite: %w", err)
	}

	s.deliver(inv, false)
	return inv, nil
}

// ResendInvite 轮换 token 和过期时间；已使用或已过期的不会被复活
func (s *InvitationService) ResendInvite(ctx context.Context, in InviteInput) (*models.Invitation, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var inv *models.Invitation
	err := s.repo.Transaction(ctx, func(tx *db.Repo) error {
		found, err := tx.LockInviteByEmail(ctx, in.Email)
		if errors.Is(err, db.ErrNotFound) {
			return &NotFoundError{Resource: "Invitation"}
		}
		if err != nil {
			return err
		}
		if !found.ValidAt(s.now()) {
			return ErrInvalid
		}

		token, err := newInviteToken()
		if err != nil {
			return err
		}
		if err := tx.RotateInvite(ctx, found, token, s.now().Add(s.ttl).UTC()); err != nil {
			return fmt.Errorf("rotate invite: %w", err)
		}
		inv = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deliver(inv, true)
	return inv, nil
}

type AcceptInviteInput struct {
	Token    string `json:"token" validate:"required,len=32"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// AcceptInvite 用邀请邮箱注册 Client 并把邀请标记为已使用
func (s *InvitationService) AcceptInvite(ctx context.Context, in AcceptInviteInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Token = strings.TrimSpace(in.Token)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.repo.Transaction(ctx, func(tx *db.Repo) error {
		inv, err := tx.LockInviteByToken(ctx, in.Token)
		if errors.Is(err, db.ErrNotFound) {
			return &NotFoundError{Resource: "Invitation"}
		}
		if err != nil {
			return err
		}
		if !inv.ValidAt(s.now()) {
			return ErrInvalid
		}

		u, err := createUser(ctx, tx, in.Name, inv.Email, in.Password)
		if err != nil {
			return err
		}
		if err := tx.MarkInviteUsed(ctx, inv.ID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return ErrInvalid
			}
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("invitation accepted", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

func (s *InvitationService) link(token string) string {
	return s.webOrigin + "/register?invite=" + url.QueryEscape(token)
}

// deliver 发邮件失败只记日志，不影响请求结果
func (s *InvitationService) deliver(inv *models.Invitation, resend bool) {
	link := s.link(inv.Token)
	msg := "invitation created"
	if resend {
		msg = "invitation resent"
	}
	s.log.Info(msg, zap.String("email", inv.Email), zap.Time("expires_at", inv.ExpiresAt))

	subject := fmt.Sprintf("%s Invitation", s.appName)
	body := fmt.Sprintf(`<p>Hello,</p>
<p>You have been invited to join <b>%s</b>.</p>
<p><a href="%s">Accept Invitation</a></p>
<p>Or open this link directly: %s</p>
<p>This invitation will expire at %s.</p>`,
		s.appName, link, link, inv.ExpiresAt.Format(time.RFC1123))

	if err := s.mail.Send(inv.Email, subject, body); err != nil {
		s.log.Warn("invite email send failed", zap.String("email", inv.Email), zap.Error(err))
	}
}
