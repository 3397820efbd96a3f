package handler

import (
	"net/http"
	"strconv"

	"github.com/shadinbyte/shopease/internal/authz"
	"github.com/shadinbyte/shopease/internal/config"
	"github.com/shadinbyte/shopease/internal/domain/model"
	"github.com/shadinbyte/shopease/internal/middleware"
	"github.com/shadinbyte/shopease/internal/repository"
	"github.com/shadinbyte/shopease/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: usecase.CodeValidation})
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message, Code: he.Code})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: usecase.CodeInternal})
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// 未ログインなら UserID=0 の匿名
func actorFromContext(c echo.Context) usecase.Actor {
	id, _ := getUserIDFromContext(c)
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)
	return usecase.Actor{UserID: id, Role: model.Role(role)}
}

func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ルートごとに付けるミドルウェアの組み合わせ
type Guards struct {
	cfg      config.Config
	userRepo repository.UserRepository
	enforcer *authz.Enforcer
}

func NewGuards(cfg config.Config, userRepo repository.UserRepository, enforcer *authz.Enforcer) Guards {
	return Guards{cfg: cfg, userRepo: userRepo, enforcer: enforcer}
}

// JWT必須 + token_version一致
func (g Guards) Auth() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.AuthJWT(g.cfg),
		middleware.TokenVersionGuard(g.userRepo),
	}
}

// Auth + casbinの権限
func (g Guards) Require(obj string, act string) []echo.MiddlewareFunc {
	return append(g.Auth(), middleware.RequirePermission(g.enforcer, obj, act))
}
