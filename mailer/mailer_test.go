package mailer_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"Gin_postgres_redis_task_api/mailer"
)

func TestNewFallsBackToLogOnly(t *testing.T) {
	m := mailer.New("", 587, "", "", "", "Task API", zap.NewNop())
	require.IsType(t, &mailer.LogOnly{}, m)

	m = mailer.New("smtp.example", 587, "", "", "", "Task API", zap.NewNop())
	require.IsType(t, &mailer.LogOnly{}, m)

	m = mailer.New("smtp.example", 587, "bot@example.com", "pw", "", "Task API", zap.NewNop())
	require.IsType(t, &mailer.SMTP{}, m)
}

func TestLogOnlyLogsTheMessage(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := &mailer.LogOnly{Logger: zap.New(core)}

	require.NoError(t, m.Send("a@example.com", "Invitation", "<a href=\"x\">x</a>"))
	require.Equal(t, 1, logs.Len())

	fields := logs.All()[0].ContextMap()
	require.Equal(t, "a@example.com", fields["to"])
	require.Equal(t, "Invitation", fields["subject"])
}
