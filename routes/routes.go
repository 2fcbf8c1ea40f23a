package routes

import (
	"net/http"

	"Gin_postgres_redis_task_api/app"
	"Gin_postgres_redis_task_api/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) *controllers.Srv {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	authCtl := controllers.GetAuthController(s)
	inviteCtl := controllers.GetInvitationController(s)
	taskCtl := controllers.GetTaskController(s)
	userCtl := controllers.GetUserController(s)

	// 复用的中间件
	authMW := app.AuthRequired(s.Auth)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, a.Config.SeenThrottle, a.Logger)
	limitMW := app.NewRateLimiter(a.Config.RateLimitRPM).Handler()

	r.GET("/healthz", func(c *app.Ctx) {
		app.Respond(c, http.StatusOK, "ok", app.H{"ok": true})
	})

	// 同一套路由挂在根路径和 /api 下
	for _, g := range []*gin.RouterGroup{&r.RouterGroup, r.Group("/api")} {
		// ------------------------------
		// 公开：注册/登录/邀请
		// ------------------------------
		public := g.Group("", limitMW)
		{
			public.POST("/register", authCtl.Register)
			public.POST("/login", authCtl.Login)

			public.POST("/invitations", inviteCtl.Invite)
			public.PUT("/invitations", inviteCtl.Resend)
			public.PATCH("/invitations", inviteCtl.Resend)
			public.POST("/invitations/accept", inviteCtl.Accept)
		}

		authed := g.Group("", authMW, seenMW)
		{
			authed.POST("/logout", authCtl.Logout)
			authed.GET("/me", authCtl.Me)

			authed.GET("/tasks", taskCtl.Index)
			authed.POST("/tasks", taskCtl.Store)
			authed.GET("/tasks/:id", taskCtl.Show)
			authed.PUT("/tasks/:id", taskCtl.Update)
			authed.PATCH("/tasks/:id", taskCtl.Update)
			authed.DELETE("/tasks/:id", taskCtl.Destroy)
		}

		// ------------------------------
		// 用户管理（仅管理员）
		// ------------------------------
		admin := g.Group("", authMW, adminMW)
		{
			admin.GET("/users", userCtl.ListUsers) // ?q=&page=&size=
		}
	}

	r.NoRoute(func(c *app.Ctx) {
		app.Respond(c, http.StatusNotFound, "Not found.", nil)
	})
	return s
}
