package controllers

import (
	"errors"
	"io"
	"net/http"

	"Gin_postgres_redis_task_api/app"
	"Gin_postgres_redis_task_api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bindJSON 空 body 视为空对象，交给 service 校验；JSON 本身坏掉直接 400
func (s *Srv) bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	v := &services.ValidationError{}
	v.Add("body", "The request body must be a valid JSON object.")
	s.fail(c, v, "Validation failed.")
	return false
}

// fail 把 service 错误渲染成统一 envelope；fallback 用于非预期错误
func (s *Srv) fail(c *gin.Context, err error, fallback string) {
	var (
		verr  *services.ValidationError
		nfErr *services.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		app.Respond(c, http.StatusBadRequest, "Validation failed.", gin.H{"errors": verr.Fields})
	case errors.Is(err, services.ErrInvalidCredentials):
		app.Respond(c, http.StatusBadRequest, "Validation failed.", gin.H{
			"errors": map[string][]string{"email": {"The provided credentials are incorrect."}},
		})
	case errors.As(err, &nfErr):
		app.Respond(c, http.StatusNotFound, nfErr.Error(), nil)
	case errors.Is(err, services.ErrNotFound):
		app.Respond(c, http.StatusNotFound, "Not found.", nil)
	case errors.Is(err, services.ErrForbidden):
		app.Respond(c, http.StatusBadRequest, "This action is unauthorized.", nil)
	case errors.Is(err, services.ErrInvalid):
		app.Respond(c, http.StatusBadRequest, "Invitation is no longer valid.", nil)
	case errors.Is(err, services.ErrUnauthenticated):
		app.Respond(c, http.StatusUnauthorized, "Unauthenticated.", nil)
	default:
		_ = c.Error(err)
		s.Log.Error(fallback, zap.String("path", c.FullPath()), zap.Error(err))
		// 只有 debug 模式才把内部错误带给调用方
		if s.Cfg.Debug {
			app.Respond(c, http.StatusBadRequest, fallback, gin.H{"error": err.Error()})
			return
		}
		app.Respond(c, http.StatusBadRequest, fallback, nil)
	}
}
