package handler

import (
	"errors"
	"net/http"

	"github.com/shadinbyte/shopease/internal/usecase"
	auth "github.com/shadinbyte/shopease/internal/usecase/auth_usecase"
	"github.com/shadinbyte/shopease/internal/validator"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
	refreshUC  *auth.RefreshUsecase
	logoutUC   *auth.LogoutUsecase
	meUC       *auth.MeUsecase
	guards     Guards
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	refreshUC *auth.RefreshUsecase,
	logoutUC *auth.LogoutUsecase,
	meUC *auth.MeUsecase,
	guards Guards,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		refreshUC:  refreshUC,
		logoutUC:   logoutUC,
		meUC:       meUC,
		guards:     guards,
	}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/auth")

	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/token/refresh", h.Refresh)
	g.POST("/logout", h.Logout, h.guards.Auth()...)
	g.GET("/user", h.Me, h.guards.Auth()...)
}

// /auth/register のリクエストボディ。
type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// /auth/login のリクエストボディ。
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// ログアウトは "refresh_token"。"refresh" も受ける
type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
	Refresh      string `json:"refresh"`
}

func (r logoutRequest) token() string {
	if r.RefreshToken != "" {
		return r.RefreshToken
	}
	return r.Refresh
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterはPOST /auth/registerのハンドラ
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Password2: req.Password2,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

// LoginはPOST /auth/login のハンドラ。
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Username:  req.Username,
		Password:  req.Password,
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// refreshはローテーションして新しいペアを返す
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	pair, err := h.refreshUC.Execute(c.Request().Context(), auth.RefreshInput{
		RefreshToken: req.Refresh,
		UserAgent:    c.Request().UserAgent(),
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, refreshResponse{Access: pair.Access, Refresh: pair.Refresh})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Code: usecase.CodeUnauthorized})
	}

	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	if err := h.logoutUC.Execute(c.Request().Context(), userID, req.token()); err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "successfully logged out"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Code: usecase.CodeUnauthorized})
	}

	out, err := h.meUC.Execute(c.Request().Context(), userID)
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// auth/validator のエラーをステータスに変換
func writeAuthError(c echo.Context, err error) error {
	var fe *validator.FieldError
	switch {
	case errors.As(err, &fe):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: fe.Error(), Code: usecase.CodeValidation})
	case errors.Is(err, validator.ErrInvalidInput), errors.Is(err, validator.ErrInvalidRefresh):
		return badRequest(c, err.Error())
	case errors.Is(err, validator.ErrUsernameAlreadyUsed),
		errors.Is(err, validator.ErrEmailAlreadyUsed),
		errors.Is(err, auth.ErrAccountExists):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: usecase.CodeConflict})
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrUserInactive),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrRefreshTokenReused):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error(), Code: usecase.CodeUnauthorized})
	case errors.Is(err, auth.ErrLogoutFailed):
		return badRequest(c, err.Error())
	case errors.Is(err, auth.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: usecase.CodeNotFound})
	default:
		return writeError(c, err)
	}
}
