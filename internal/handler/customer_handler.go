package handler

import (
	"net/http"

	"github.com/shadinbyte/shopease/internal/authz"
	"github.com/shadinbyte/shopease/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CustomerHandler struct {
	uc     *usecase.CustomerUsecase
	guards Guards
}

func NewCustomerHandler(uc *usecase.CustomerUsecase, guards Guards) *CustomerHandler {
	return &CustomerHandler{uc: uc, guards: guards}
}

type customerRequest struct {
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	PostalCode *string `json:"postal_code"`
}

func (r customerRequest) input() usecase.CustomerInput {
	return usecase.CustomerInput{
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		PostalCode: r.PostalCode,
	}
}

func (h *CustomerHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/customers")
	read := h.guards.Require(authz.ObjCustomers, authz.ActRead)
	write := h.guards.Require(authz.ObjCustomers, authz.ActWrite)

	//:id より先に登録
	g.GET("/profile", h.profile, read...)
	g.PUT("/profile", h.updateProfile, write...)
	g.PATCH("/profile", h.updateProfile, write...)

	g.GET("", h.list, read...)
	g.POST("", h.create, write...)
	g.GET("/:id", h.detail, read...)
	g.PUT("/:id", h.update, write...)
	g.PATCH("/:id", h.update, write...)
	g.DELETE("/:id", h.delete, h.guards.Require(authz.ObjCustomers, authz.ActManage)...)
}

func (h *CustomerHandler) profile(c echo.Context) error {
	out, err := h.uc.Profile(c.Request().Context(), actorFromContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) updateProfile(c echo.Context) error {
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateProfile(c.Request().Context(), actorFromContext(c), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), actorFromContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) create(c echo.Context) error {
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Create(c.Request().Context(), actorFromContext(c), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CustomerHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.Get(c.Request().Context(), actorFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) update(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Update(c.Request().Context(), actorFromContext(c), id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) delete(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	if err := h.uc.Delete(c.Request().Context(), actorFromContext(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
