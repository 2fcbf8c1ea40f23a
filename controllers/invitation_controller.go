package controllers

import (
	"net/http"

	"Gin_postgres_redis_task_api/app"
	"Gin_postgres_redis_task_api/models"
	"Gin_postgres_redis_task_api/services"

	"github.com/gin-gonic/gin"
)

type InvitationController struct{ *Srv }

func GetInvitationController(s *Srv) *InvitationController {
	return &InvitationController{Srv: s}
}

// POST /invitations
func (ic *InvitationController) Invite(c *gin.Context) {
	var in services.InviteInput
	if !ic.bindJSON(c, &in) {
		return
	}
	// 公开接口；带了有效 token 时记录邀请人
	inviter, _ := ic.optionalCaller(c)
	if _, err := ic.Invites.Invite(c.Request.Context(), inviter, in); err != nil {
		ic.fail(c, err, "Failed to send invitation.")
		return
	}
	app.Respond(c, http.StatusOK, "Invitation sent.", nil)
}

// PUT/PATCH /invitations
func (ic *InvitationController) Resend(c *gin.Context) {
	var in services.InviteInput
	if !ic.bindJSON(c, &in) {
		return
	}
	if _, err := ic.Invites.ResendInvite(c.Request.Context(), in); err != nil {
		ic.fail(c, err, "Failed to resend invitation.")
		return
	}
	app.Respond(c, http.StatusOK, "Invitation resent.", nil)
}

// POST /invitations/accept
func (ic *InvitationController) Accept(c *gin.Context) {
	var in services.AcceptInviteInput
	if !ic.bindJSON(c, &in) {
		return
	}
	u, err := ic.Invites.AcceptInvite(c.Request.Context(), in)
	if err != nil {
		ic.fail(c, err, "Failed to accept invitation.")
		return
	}
	app.Respond(c, http.StatusOK, "User registered successfully.", u)
}

func (ic *InvitationController) optionalCaller(c *gin.Context) (*models.User, bool) {
	token := app.BearerToken(c)
	if token == "" {
		return nil, false
	}
	u, err := ic.Auth.Resolve(c.Request.Context(), token)
	if err != nil {
		return nil, false
	}
	return u, true
}
