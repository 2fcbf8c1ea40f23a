package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_task_api/app"
	"Gin_postgres_redis_task_api/services"

	"github.com/gin-gonic/gin"
)

type TaskController struct{ *Srv }

func GetTaskController(s *Srv) *TaskController { return &TaskController{Srv: s} }

// taskID 非数字 id 按不存在处理
func (tc *TaskController) taskID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		app.Respond(c, http.StatusNotFound, "Task not found.", nil)
		return 0, false
	}
	return uint(id), true
}

// GET /tasks?status=&user_id=&page=
func (tc *TaskController) Index(c *gin.Context) {
	u, _ := app.CurrentUser(c)

	f := services.TaskFilter{
		Status: c.Query("status"),
		Page:   queryInt(c, "page", 1),
	}
	if raw, ok := c.GetQuery("user_id"); ok && raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			v := &services.ValidationError{}
			v.Add("user_id", "The user id field must be an integer.")
			tc.fail(c, v, "Failed to retrieve tasks.")
			return
		}
		uid := uint(id)
		f.UserID = &uid
	}

	page, err := tc.Tasks.List(c.Request.Context(), u, f)
	if err != nil {
		tc.fail(c, err, "Failed to retrieve tasks.")
		return
	}
	app.Respond(c, http.StatusOK, "Tasks retrieved successfully.", page)
}

// POST /tasks
func (tc *TaskController) Store(c *gin.Context) {
	u, _ := app.CurrentUser(c)
	var in services.CreateTaskInput
	if !tc.bindJSON(c, &in) {
		return
	}
	t, err := tc.Tasks.Create(c.Request.Context(), u, in)
	if err != nil {
		tc.fail(c, err, "Failed to create task.")
		return
	}
	app.Respond(c, http.StatusOK, "Successfully created", t)
}

// GET /tasks/:id
func (tc *TaskController) Show(c *gin.Context) {
	u, _ := app.CurrentUser(c)
	id, ok := tc.taskID(c)
	if !ok {
		return
	}
	t, err := tc.Tasks.Show(c.Request.Context(), u, id)
	if err != nil {
		tc.fail(c, err, "Failed to retrieve task.")
		return
	}
	app.Respond(c, http.StatusOK, "Successfully retrieved", t)
}

// PUT/PATCH /tasks/:id 只覆盖传入的字段
func (tc *TaskController) Update(c *gin.Context) {
	u, _ := app.CurrentUser(c)
	id, ok := tc.taskID(c)
	if !ok {
		return
	}
	var in services.UpdateTaskInput
	if !tc.bindJSON(c, &in) {
		return
	}
	t, err := tc.Tasks.Update(c.Request.Context(), u, id, in)
	if err != nil {
		tc.fail(c, err, "Failed to update task.")
		return
	}
	app.Respond(c, http.StatusOK, "Successfully updated", t)
}

// DELETE /tasks/:id
func (tc *TaskController) Destroy(c *gin.Context) {
	u, _ := app.CurrentUser(c)
	id, ok := tc.taskID(c)
	if !ok {
		return
	}
	if err := tc.Tasks.Destroy(c.Request.Context(), u, id); err != nil {
		tc.fail(c, err, "Failed to delete task.")
		return
	}
	app.Respond(c, http.StatusOK, "Successfully deleted", nil)
}
