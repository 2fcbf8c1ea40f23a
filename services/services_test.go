package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Gin_postgres_redis_task_api/db"
	"Gin_postgres_redis_task_api/models"
	"Gin_postgres_redis_task_api/password"
	"Gin_postgres_redis_task_api/services"
	"Gin_postgres_redis_task_api/session"
	"Gin_postgres_redis_task_api/testutil"
)

type fixture struct {
	repo    *db.Repo
	tokens  *session.TokenStore
	auth    *services.AuthService
	tasks   *services.TaskService
	invites *services.InvitationService
	mail    *recordingMailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := db.NewRepo(testutil.NewDB(t))
	rdb, _ := testutil.NewRedis(t)
	tokens := session.NewTokenStore(rdb, 0)
	mail := &recordingMailer{}
	logger := zap.NewNop()

	return &fixture{
		repo:   repo,
		tokens: tokens,
		auth:   services.NewAuthService(repo, tokens, logger),
		tasks:  services.NewTaskService(repo, logger),
		invites: services.NewInvitationService(repo, mail, logger, services.InvitationOptions{
			WebOrigin: "https://tasks.example/",
			AppName:   "Task API",
		}),
		mail: mail,
	}
}

// user 直接写库，角色可指定
func (f *fixture) user(t *testing.T, email, role string) *models.User {
	t.Helper()
	ctx := context.Background()
	hash, err := password.Hash("password123")
	require.NoError(t, err)
	u := &models.User{Name: email, Email: email, Password: hash}
	require.NoError(t, f.repo.CreateUser(ctx, u, role))
	got, err := f.repo.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	return got
}

type sentMail struct {
	To, Subject, Body string
}

type recordingMailer struct {
	sent []sentMail
}

func (m *recordingMailer) Send(address, subject, body string) error {
	m.sent = append(m.sent, sentMail{To: address, Subject: subject, Body: body})
	return nil
}

func fieldsOf(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}
