package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Gin_postgres_redis_task_api/config"
	"Gin_postgres_redis_task_api/db"
	"Gin_postgres_redis_task_api/models"
	"Gin_postgres_redis_task_api/services"
	"Gin_postgres_redis_task_api/testutil"
)

func TestRateLimiterDisabled(t *testing.T) {
	require.Nil(t, NewRateLimiter(0))
	require.NotNil(t, (*RateLimiter)(nil).Handler())
}

func TestRateLimiterBlocksBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", NewRateLimiter(10).Handler(), func(c *gin.Context) {
		Respond(c, http.StatusOK, "ok", nil)
	})

	// 10 rpm -> burst 1
	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for header, want := range map[string]string{
		"Bearer abc":  "abc",
		"bearer  abc": "abc",
		"Basic abc":   "",
		"":            "",
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set("Authorization", header)
		require.Equal(t, want, BearerToken(c), header)
	}
}

func TestAdminOnlyRendersUnauthorizedEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	client := &models.User{ID: 1, Roles: []models.Role{{Name: models.RoleClient}}}
	r.GET("/users", func(c *gin.Context) { c.Set(userKey, client) }, AdminOnly(), func(c *gin.Context) {
		Respond(c, http.StatusOK, "ok", nil)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"status":400,"message":"This action is unauthorized.","data":[]}`, w.Body.String())
}

func TestRecoveryRendersEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()), Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
	require.JSONEq(t, `{"status":500,"message":"Server Error.","data":[]}`, w.Body.String())
}

func TestBootstrapFirstAdmin(t *testing.T) {
	ctx := context.Background()
	repo := db.NewRepo(testutil.NewDB(t))
	cfg := config.Config{AdminEmail: "root@example.com", AdminPassword: "password123"}

	require.NoError(t, BootstrapFirstAdmin(ctx, cfg, repo, zap.NewNop()))
	// 第二次不重复创建
	require.NoError(t, BootstrapFirstAdmin(ctx, cfg, repo, zap.NewNop()))

	u, err := repo.FindUserByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.True(t, services.IsAdmin(u))

	n, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestBootstrapSkipsWithoutCredentials(t *testing.T) {
	repo := db.NewRepo(testutil.NewDB(t))
	require.NoError(t, BootstrapFirstAdmin(context.Background(), config.Config{}, repo, zap.NewNop()))

	n, err := repo.CountAdmins(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestTouchLastSeenIsThrottled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	repo := db.NewRepo(testutil.NewDB(t))
	rdb, mr := testutil.NewRedis(t)

	u := &models.User{Name: "a", Email: "a@example.com", Password: "x"}
	require.NoError(t, repo.CreateUser(ctx, u, models.RoleClient))

	r := gin.New()
	r.GET("/tasks", func(c *gin.Context) { c.Set(userKey, u) }, TouchLastSeen(repo, rdb, time.Minute, zap.NewNop()), func(c *gin.Context) {
		Respond(c, http.StatusOK, "ok", nil)
	})
	hit := func() {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	hit()
	got, err := repo.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastSeenAt)
	require.True(t, mr.Exists("user:lastseen:"+strconv.FormatUint(uint64(u.ID), 10)))

	// 节流期内不再写库
	require.NoError(t, repo.DB.Model(&models.User{}).Where("id = ?", u.ID).Update("last_seen_at", nil).Error)
	hit()
	got, err = repo.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Nil(t, got.LastSeenAt)

	mr.FastForward(2 * time.Minute)
	hit()
	got, err = repo.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastSeenAt)
}
