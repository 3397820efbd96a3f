package handler

import (
	"net/http"

	"github.com/shadinbyte/shopease/internal/authz"
	"github.com/shadinbyte/shopease/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	uc     *usecase.CategoryUsecase
	guards Guards
}

func NewCategoryHandler(uc *usecase.CategoryUsecase, guards Guards) *CategoryHandler {
	return &CategoryHandler{uc: uc, guards: guards}
}

type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *CategoryHandler) RegisterRoutes(e *echo.Echo) {
	write := h.guards.Require(authz.ObjCatalog, authz.ActWrite)

	e.GET("/categories", h.list)
	e.GET("/categories/:id", h.detail)
	e.GET("/categories/:id/products", h.products)

	e.POST("/categories", h.create, write...)
	e.PUT("/categories/:id", h.update(false), write...)
	e.PATCH("/categories/:id", h.update(true), write...)
	e.DELETE("/categories/:id", h.delete, write...)
}

func (h *CategoryHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryHandler) products(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.Products(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryHandler) create(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Create(c.Request().Context(), actorFromContext(c), usecase.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// PUT と PATCH で共通
func (h *CategoryHandler) update(partial bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}

		var req categoryRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}

		out, err := h.uc.Update(c.Request().Context(), actorFromContext(c), id, usecase.CategoryInput{
			Name:        req.Name,
			Description: req.Description,
		}, partial)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}
}

func (h *CategoryHandler) delete(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	if err := h.uc.Delete(c.Request().Context(), actorFromContext(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
