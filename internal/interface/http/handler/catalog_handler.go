package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wichananm65/camera-store-backend/internal/catalog/facet"
	"github.com/wichananm65/camera-store-backend/internal/catalog/filtersync"
	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
	"github.com/wichananm65/camera-store-backend/internal/interface/presenter"
	"github.com/wichananm65/camera-store-backend/internal/usecase"
)

// SessionHeader carries the catalog session id. A new id is minted and
// echoed when the header is missing or not a uuid.
const SessionHeader = "X-Session-ID"

// ProductLister delivers the full product list the catalog filters.
type ProductLister interface {
	List(ctx context.Context) ([]entity.Product, error)
}

// CatalogHandler serves the faceted catalog and its filter state.
type CatalogHandler struct {
	categories usecase.CategoryUsecase
	products   ProductLister
	sessions   *filtersync.Registry
	presenter  *presenter.CatalogPresenter
}

func NewCatalogHandler(categories usecase.CategoryUsecase, products ProductLister, sessions *filtersync.Registry, p *presenter.CatalogPresenter) *CatalogHandler {
	return &CatalogHandler{categories: categories, products: products, sessions: sessions, presenter: p}
}

func (h *CatalogHandler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/catalog", h.page)
	app.Get("/api/v1/catalog/facets", h.facets)
	app.Put("/api/v1/catalog/filters", h.updateFilters)
	app.Post("/api/v1/catalog/navigate", h.navigate)
	app.Post("/api/v1/catalog/product-view", h.productView)
}

// CategoryResolver resolves URL category ids through categories.
func CategoryResolver(categories usecase.CategoryUsecase) filtersync.CategoryResolver {
	return filtersync.ResolverFunc(func(ctx context.Context, id int64) (string, bool, error) {
		c, err := categories.Get(ctx, id)
		var nerr *usecase.NotFoundError
		if errors.As(err, &nerr) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return c.Name, true, nil
	})
}

func (h *CatalogHandler) session(c *fiber.Ctx) *filtersync.Session {
	id := uuid.NewString()
	if parsed, err := uuid.Parse(strings.TrimSpace(c.Get(SessionHeader))); err == nil {
		id = parsed.String()
	}
	c.Set(SessionHeader, id)
	return h.sessions.Get(id)
}

// load fetches categories and products concurrently.
func (h *CatalogHandler) load(ctx context.Context) ([]entity.Category, []facet.Item, error) {
	var (
		categories []entity.Category
		products   []entity.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = h.categories.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = h.products.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return categories, facet.Project(products, categories), nil
}

func (h *CatalogHandler) page(c *fiber.Ctx) error {
	sess := h.session(c)
	_, items, err := h.load(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}

	sess.View.Refresh(items, sess.Sync.State())
	if raw := c.Query("page"); raw != "" {
		n := c.QueryInt("page", 0)
		if n < 1 {
			return badRequest(c, "invalid page")
		}
		sess.View.SetPage(n)
	}
	return c.JSON(h.presenter.ToPage(sess.View.Page(), sess.View.State()))
}

func (h *CatalogHandler) facets(c *fiber.Ctx) error {
	categories, items, err := h.load(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.presenter.ToVocabulary(facet.BuildVocabulary(categories, items)))
}

func (h *CatalogHandler) updateFilters(c *fiber.Ctx) error {
	sess := h.session(c)
	payload := new(facet.State)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}
	written, err := sess.Sync.Update(c.UserContext(), *payload)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(presenter.FiltersResponse{
		Filters: sess.Sync.State(),
		Phase:   sess.Sync.Phase().String(),
		Written: &written,
	})
}

func (h *CatalogHandler) navigate(c *fiber.Ctx) error {
	sess := h.session(c)
	if c.Query("from") == "product" {
		if err := sess.Context.MarkProductView(c.UserContext()); err != nil {
			return writeError(c, err)
		}
	}
	rule, err := sess.Sync.Navigate(c.UserContext(), filtersync.Navigation{
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
		External:    c.QueryBool("external", false),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(presenter.FiltersResponse{
		Filters: sess.Sync.State(),
		Phase:   sess.Sync.Phase().String(),
		Rule:    string(rule),
	})
}

func (h *CatalogHandler) productView(c *fiber.Ctx) error {
	sess := h.session(c)
	if err := sess.Context.MarkProductView(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
