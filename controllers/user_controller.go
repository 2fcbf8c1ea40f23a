package controllers

import (
	"net/http"

	"Gin_postgres_redis_task_api/app"
	"Gin_postgres_redis_task_api/db"

	"github.com/gin-gonic/gin"
)

type UserController struct{ *Srv }

func GetUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// GET /users?q=alice&page=1&size=20
func (uc *UserController) ListUsers(c *gin.Context) {
	page := db.Page{
		Page: queryInt(c, "page", 1),
		Size: queryInt(c, "size", 20),
	}
	res, err := uc.Repo.ListUsers(c.Request.Context(), c.Query("q"), page)
	if err != nil {
		uc.fail(c, err, "Failed to retrieve users.")
		return
	}
	app.Respond(c, http.StatusOK, "Users retrieved successfully.", res)
}
