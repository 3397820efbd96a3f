package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shadinbyte/shopease/internal/authz"
	"github.com/shadinbyte/shopease/internal/domain/model"
	"github.com/shadinbyte/shopease/internal/repository"
	"github.com/shadinbyte/shopease/internal/usecase"
	auth "github.com/shadinbyte/shopease/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// /admin 配下（スタッフ専用）
type AdminUserHandler struct {
	forceLogoutUC *auth.ForceLogoutUsecase
	auditUC       *usecase.AuditLogUsecase
	guards        Guards
}

func NewAdminUserHandler(forceLogoutUC *auth.ForceLogoutUsecase, auditUC *usecase.AuditLogUsecase, guards Guards) *AdminUserHandler {
	return &AdminUserHandler{forceLogoutUC: forceLogoutUC, auditUC: auditUC, guards: guards}
}

func (h *AdminUserHandler) RegisterRoutes(e *echo.Echo) {
	admin := e.Group("/admin")

	admin.POST("/users/:id/force-logout", h.ForceLogout, h.guards.Require(authz.ObjUsers, authz.ActManage)...)
	admin.GET("/audit-logs", h.AuditLogs, h.guards.Require(authz.ObjAudit, authz.ActRead)...)
}

func (h *AdminUserHandler) ForceLogout(c echo.Context) error {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid user_id")
	}

	res, err := h.forceLogoutUC.Execute(c.Request().Context(), userID)
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, res)
}

// ?actor_user_id=&action=&resource_type=&resource_id=&from=&to=&limit=&offset=
func (h *AdminUserHandler) AuditLogs(c echo.Context) error {
	f := repository.AuditLogFilter{Limit: repository.AuditLogDefaultLimit}

	if v := c.QueryParam("actor_user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest(c, "invalid actor_user_id")
		}
		f.ActorUserID = &id
	}
	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		if !a.Valid() {
			return badRequest(c, "invalid action")
		}
		f.Action = &a
	}
	if v := c.QueryParam("resource_type"); v != "" {
		rt := model.AuditResourceType(v)
		if !rt.Valid() {
			return badRequest(c, "invalid resource_type")
		}
		f.ResourceType = &rt
	}
	if v := c.QueryParam("resource_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest(c, "invalid resource_id")
		}
		f.ResourceID = &id
	}
	if v := c.QueryParam("from"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return badRequest(c, "invalid from")
		}
		f.CreatedFrom = &tm
	}
	if v := c.QueryParam("to"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return badRequest(c, "invalid to")
		}
		f.CreatedTo = &tm
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l <= 0 || l > repository.AuditLogMaxLimit {
			return badRequest(c, "invalid limit")
		}
		f.Limit = l
	}
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil || o < 0 {
			return badRequest(c, "invalid offset")
		}
		f.Offset = o
	}

	out, err := h.auditUC.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
