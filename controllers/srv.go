// controllers/srv.go
package controllers

import (
	"strconv"

	"Gin_postgres_redis_task_api/app"
	"Gin_postgres_redis_task_api/config"
	"Gin_postgres_redis_task_api/db"
	"Gin_postgres_redis_task_api/mailer"
	"Gin_postgres_redis_task_api/services"
	"Gin_postgres_redis_task_api/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Srv 所有 controller 共用的依赖
type Srv struct {
	Repo    *db.Repo
	Tokens  *session.TokenStore
	Auth    *services.AuthService
	Tasks   *services.TaskService
	Invites *services.InvitationService
	Cfg     config.Config
	Log     *zap.Logger
}

func GetSrv(a *app.App) *Srv {
	repo := db.NewRepo(a.DB)
	tokens := session.NewTokenStore(a.RDB, a.Config.TokenTTL)
	smtp := a.Config.SMTP
	mail := mailer.New(smtp.Host, smtp.Port, smtp.Username, smtp.Password, smtp.From, a.Config.Name, a.Logger)

	return &Srv{
		Repo:   repo,
		Tokens: tokens,
		Auth:   services.NewAuthService(repo, tokens, a.Logger.Named("auth")),
		Tasks:  services.NewTaskService(repo, a.Logger.Named("tasks")),
		Invites: services.NewInvitationService(repo, mail, a.Logger.Named("invitations"), services.InvitationOptions{
			TTL:       a.Config.InviteTTL,
			WebOrigin: a.Config.WebOrigin,
			AppName:   a.Config.Name,
		}),
		Cfg: a.Config,
		Log: a.Logger,
	}
}

// --- helpers ---

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
