package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
	"github.com/wichananm65/camera-store-backend/internal/interface/presenter"
	"github.com/wichananm65/camera-store-backend/internal/usecase"
)

// CategoryHandler adapts category tree and product link requests to use
// case calls.
type CategoryHandler struct {
	categories usecase.CategoryUsecase
	links      usecase.LinkUsecase
	presenter  *presenter.CategoryPresenter
}

func NewCategoryHandler(categories usecase.CategoryUsecase, links usecase.LinkUsecase, p *presenter.CategoryPresenter) *CategoryHandler {
	return &CategoryHandler{categories: categories, links: links, presenter: p}
}

func (h *CategoryHandler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/categories", h.listChildren)
	app.Get("/api/v1/categories/all", h.listAll)
	app.Get("/api/v1/categories/:id<[0-9]+>", h.get)
}

// RegisterAdminRoutes expects r to be guarded by the admin JWT middleware.
func (h *CategoryHandler) RegisterAdminRoutes(r fiber.Router) {
	r.Post("/categories", h.create)
	r.Patch("/categories/:id<[0-9]+>", h.rename)
	r.Post("/categories/:id<[0-9]+>/move", h.move)
	r.Delete("/categories/:id<[0-9]+>", h.delete)
	r.Post("/categories/:id<[0-9]+>/unlink", h.unlink)
	r.Post("/categories/:id<[0-9]+>/move-products", h.moveProducts)
	r.Put("/products/:id<[0-9]+>/categories", h.assign)
}

type createCategoryRequest struct {
	Name              string  `json:"name"`
	ParentID          *int64  `json:"parentId"`
	ProductNamePrefix *string `json:"productNamePrefix"`
}

type renameCategoryRequest struct {
	Name              *string `json:"name"`
	ProductNamePrefix *string `json:"productNamePrefix"`
}

type moveCategoryRequest struct {
	ParentID *int64 `json:"parentId"`
}

type moveProductsRequest struct {
	TargetCategoryID    *int64 `json:"targetCategoryId"`
	ClearSubcategory    bool   `json:"clearSubcategory"`
	ClearSubsubcategory bool   `json:"clearSubsubcategory"`
}

type productLinksRequest struct {
	CategoryID       *int64 `json:"categoryId"`
	SubcategoryID    *int64 `json:"subcategoryId"`
	SubsubcategoryID *int64 `json:"subsubcategoryId"`
	CategoryID2      *int64 `json:"categoryId2"`
}

func (h *CategoryHandler) listChildren(c *fiber.Ctx) error {
	var parentID *int64
	if raw := c.Query("parent"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return badRequest(c, "invalid parent id")
		}
		parentID = &id
	}
	children, err := h.categories.ListChildren(c.UserContext(), parentID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.presenter.ToList(children))
}

func (h *CategoryHandler) listAll(c *fiber.Ctx) error {
	all, err := h.categories.ListAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.presenter.ToList(all))
}

func (h *CategoryHandler) get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid category id")
	}
	category, err := h.categories.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.presenter.ToResponse(category))
}

func (h *CategoryHandler) create(c *fiber.Ctx) error {
	payload := new(createCategoryRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}
	created, err := h.categories.Create(c.UserContext(), usecase.CreateCategoryInput{
		Name:              payload.Name,
		ParentID:          payload.ParentID,
		ProductNamePrefix: payload.ProductNamePrefix,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.presenter.ToResponse(created))
}

func (h *CategoryHandler) rename(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid category id")
	}
	payload := new(renameCategoryRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}
	updated, err := h.categories.Rename(c.UserContext(), id, usecase.UpdateCategoryInput{
		Name:              payload.Name,
		ProductNamePrefix: payload.ProductNamePrefix,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.presenter.ToResponse(updated))
}

func (h *CategoryHandler) move(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid category id")
	}
	payload := new(moveCategoryRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}
	moved, err := h.categories.Move(c.UserContext(), id, payload.ParentID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.presenter.ToResponse(moved))
}

func (h *CategoryHandler) delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid category id")
	}
	cascade := c.QueryBool("cascade", false)
	summary, err := h.categories.Delete(c.UserContext(), id, usecase.DeleteOptions{Cascade: cascade})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.presenter.ToDeleteSummary(summary))
}

func (h *CategoryHandler) unlink(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid category id")
	}
	n, err := h.links.Unlink(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.presenter.ToAffected(n, "unlinked"))
}

func (h *CategoryHandler) moveProducts(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid category id")
	}
	payload := new(moveProductsRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}
	n, err := h.links.MoveProducts(c.UserContext(), id, payload.TargetCategoryID, usecase.MoveOptions{
		ClearSubcategory:    payload.ClearSubcategory,
		ClearSubsubcategory: payload.ClearSubsubcategory,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.presenter.ToAffected(n, "moved"))
}

func (h *CategoryHandler) assign(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid product id")
	}
	payload := new(productLinksRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}
	product, err := h.links.Assign(c.UserContext(), id, entity.CategoryLinks{
		CategoryID:       payload.CategoryID,
		SubcategoryID:    payload.SubcategoryID,
		SubsubcategoryID: payload.SubsubcategoryID,
		CategoryID2:      payload.CategoryID2,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.presenter.ToProductLinks(product))
}
