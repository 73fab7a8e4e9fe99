package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tiflisi/internal/domain"
	applog "tiflisi/internal/log"
	"tiflisi/internal/repos"
	"tiflisi/internal/services"
	"tiflisi/internal/validate"
)

const catalogPageSize = 24

type CatalogHandler struct {
	Catalog *services.CatalogService
	Inv     *services.InventoryService
	Favs    *services.FavoritesService
}

// GET /
func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	newest, err := h.Catalog.Newest(8)
	if err != nil {
		return serverError(c, "home.load.fail", err, nil)
	}
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return serverError(c, "home.load.fail", err, nil)
	}
	return render(c, "home", fiber.Map{"Products": newest, "Categories": cats})
}

// GET /catalog
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	f := repos.ProductFilter{Sort: "newest"}
	var errMsg string
	if raw := strings.TrimSpace(c.Query("q")); raw != "" {
		q, ok := validate.Q(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "q"})
			errMsg = "შეიყვანეთ სწორი საძიებო სიტყვა (მხოლოდ ასოები და ციფრები)"
		} else {
			f.Q = q
		}
	}
	if raw := c.Query("category"); raw != "" {
		if cat, ok := validate.Name(raw); ok {
			f.Category = cat
		}
	}
	if g, ok := validate.Gender(c.Query("gender")); ok {
		f.Gender = g
	}
	if s, ok := validate.Sort(c.Query("sort")); ok {
		f.Sort = s
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	if errMsg != "" {
		c.Status(fiber.StatusBadRequest)
		return h.renderCatalog(c, f, page, nil, errMsg)
	}
	products, err := h.Catalog.Browse(f, page, catalogPageSize+1)
	if err != nil {
		return serverError(c, "catalog.list.fail", err, nil)
	}
	return h.renderCatalog(c, f, page, products, "")
}

func (h *CatalogHandler) renderCatalog(c *fiber.Ctx, f repos.ProductFilter, page int, products []domain.Product, errMsg string) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return serverError(c, "catalog.list.fail", err, nil)
	}
	hasNext := len(products) > catalogPageSize
	if hasNext {
		products = products[:catalogPageSize]
	}
	favs := h.Favs.Open(c.UserContext(), sessionID(c)).IDs()
	return render(c, "catalog", fiber.Map{
		"Filter":     f,
		"Categories": cats,
		"Products":   products,
		"Favorites":  favs,
		"Count":      len(products),
		"Page":       page,
		"PrevPage":   page - 1,
		"NextPage":   page + 1,
		"HasNext":    hasNext,
		"Err":        errMsg,
	})
}

// GET /catalog/:slug
func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		return notFound(c, "პროდუქტი ვერ მოიძებნა")
	}
	p, err := h.Catalog.ProductBySlug(slug)
	if errors.Is(err, services.ErrProductNotFound) {
		return notFound(c, "პროდუქტი ვერ მოიძებნა")
	}
	if err != nil {
		return serverError(c, "product.load.fail", err, map[string]any{"slug": slug})
	}
	avail, err := h.Inv.CheckAvailability(p.ID)
	if err != nil {
		applog.Error(c, "product.availability.fail", err, map[string]any{"product": p.ID})
	}
	related, err := h.Catalog.Browse(repos.ProductFilter{Category: p.Category}, 1, 5)
	if err != nil {
		applog.Error(c, "product.related.fail", err, map[string]any{"product": p.ID})
	}
	rel := make([]domain.Product, 0, 4)
	for _, r := range related {
		if r.ID != p.ID && len(rel) < 4 {
			rel = append(rel, r)
		}
	}
	return render(c, "product", fiber.Map{
		"Product":      p,
		"Availability": avail,
		"Related":      rel,
		"IsFavorite":   h.Favs.Open(c.UserContext(), sessionID(c)).IsFavorite(p.ID),
		"Err":          c.Query("err"),
	})
}

// GET /product/:id redirects old id links to the slug page.
func (h *CatalogHandler) ByID(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "პროდუქტი ვერ მოიძებნა")
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return notFound(c, "პროდუქტი ვერ მოიძებნა")
	}
	return c.Redirect("/catalog/"+p.Slug, fiber.StatusMovedPermanently)
}
