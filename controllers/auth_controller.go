package controllers

import (
	"net/http"

	"Gin_postgres_redis_task_api/app"
	"Gin_postgres_redis_task_api/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct{ *Srv }

func GetAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// POST /register
func (ac *AuthController) Register(c *gin.Context) {
	var in services.RegisterInput
	if !ac.bindJSON(c, &in) {
		return
	}
	u, err := ac.Auth.Register(c.Request.Context(), in)
	if err != nil {
		ac.fail(c, err, "Failed to register user.")
		return
	}
	app.Respond(c, http.StatusOK, "User registered successfully.", u)
}

// POST /login
func (ac *AuthController) Login(c *gin.Context) {
	var in services.LoginInput
	if !ac.bindJSON(c, &in) {
		return
	}
	token, err := ac.Auth.Login(c.Request.Context(), in)
	if err != nil {
		ac.fail(c, err, "Failed to login.")
		return
	}
	app.Respond(c, http.StatusOK, "Successfully logged in.", gin.H{"token": token})
}

// POST /logout 撤销该用户所有 token
func (ac *AuthController) Logout(c *gin.Context) {
	u, _ := app.CurrentUser(c)
	if err := ac.Auth.Logout(c.Request.Context(), u); err != nil {
		ac.fail(c, err, "Failed to logout.")
		return
	}
	app.Respond(c, http.StatusOK, "Logged out successfully.", nil)
}

// GET /me
func (ac *AuthController) Me(c *gin.Context) {
	u, _ := app.CurrentUser(c)
	app.Respond(c, http.StatusOK, "Successfully retrieved", gin.H{
		"user":  u,
		"roles": u.RoleNames(),
	})
}
