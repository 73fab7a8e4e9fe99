package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tiflisi/internal/domain"
	applog "tiflisi/internal/log"
	"tiflisi/internal/repos"
	"tiflisi/internal/services"
	"tiflisi/internal/validate"
)

type AdminProductHandler struct {
	Catalog *services.CatalogService
	Admin   *services.ProductAdminService
	Media   *services.MediaService
}

func productForm(p domain.Product) validate.ProductForm {
	return validate.ProductForm{
		Name: p.Name, Slug: p.Slug, Description: p.Description, Price: p.Price,
		Category: p.Category, Sizes: strings.Join(p.Sizes, ", "), Colors: strings.Join(p.Colors, ", "),
		ImageURLs: strings.Join(p.ImageURLs, "\n"), Stock: p.Stock, Gender: p.Gender,
		DiscountPercentage: p.DiscountPercentage, BrandName: p.BrandName, DataAIHint: p.DataAIHint,
	}
}

// GET /admin/products
func (h *AdminProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Catalog.Browse(repos.ProductFilter{Q: c.Query("q"), Sort: "newest"}, 1, 500)
	if err != nil {
		return serverError(c, "admin.products.list.fail", err, nil)
	}
	return render(c, "admin_products", fiber.Map{"Products": products})
}

// GET /admin/products/add
func (h *AdminProductHandler) AddForm(c *fiber.Ctx) error {
	return render(c, "admin_product_form", fiber.Map{"Form": validate.ProductForm{}, "Action": "/admin/products"})
}

// GET /admin/products/:id/edit
func (h *AdminProductHandler) EditForm(c *fiber.Ctx) error {
	p, err := h.Catalog.GetProduct(c.Params("id"))
	if errors.Is(err, services.ErrProductNotFound) {
		return notFound(c, "პროდუქტი ვერ მოიძებნა")
	}
	if err != nil {
		return serverError(c, "admin.products.load.fail", err, nil)
	}
	return render(c, "admin_product_form", fiber.Map{
		"Product": p, "Form": productForm(p), "Action": "/admin/products/" + p.ID,
	})
}

func (h *AdminProductHandler) parse(c *fiber.Ctx) (validate.ProductForm, validate.FieldErrors) {
	var form validate.ProductForm
	if err := c.BodyParser(&form); err != nil {
		return form, validate.FieldErrors{"_": "არასწორი მონაცემები"}
	}
	if errs := validate.Struct(&form); errs != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "product", "fields": len(errs)})
		return form, errs
	}
	return form, nil
}

// POST /admin/products
func (h *AdminProductHandler) Create(c *fiber.Ctx) error {
	form, errs := h.parse(c)
	if errs == nil {
		p, err := h.Admin.Create(form)
		if err == nil {
			applog.Audit(c, "admin.products.create", map[string]any{"product": p.ID, "slug": p.Slug})
			h.attachUpload(c, p.ID)
			setFlash(c, p.Name+" დაემატა")
			return c.Redirect("/admin/products")
		}
		if !errors.Is(err, services.ErrSlugTaken) {
			return serverError(c, "admin.products.create.fail", err, nil)
		}
		errs = validate.FieldErrors{"slug": "ეს slug უკვე გამოყენებულია"}
	}
	c.Status(fiber.StatusBadRequest)
	return render(c, "admin_product_form", fiber.Map{"Form": form, "Errors": errs, "Action": "/admin/products"})
}

// POST /admin/products/:id
func (h *AdminProductHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	form, errs := h.parse(c)
	if errs == nil {
		p, err := h.Admin.Update(id, form)
		switch {
		case err == nil:
			applog.Audit(c, "admin.products.update", map[string]any{"product": id})
			h.attachUpload(c, id)
			setFlash(c, p.Name+" განახლდა")
			return c.Redirect("/admin/products")
		case errors.Is(err, services.ErrProductNotFound):
			return notFound(c, "პროდუქტი ვერ მოიძებნა")
		case !errors.Is(err, services.ErrSlugTaken):
			return serverError(c, "admin.products.update.fail", err, map[string]any{"product": id})
		}
		errs = validate.FieldErrors{"slug": "ეს slug უკვე გამოყენებულია"}
	}
	c.Status(fiber.StatusBadRequest)
	return render(c, "admin_product_form", fiber.Map{"Form": form, "Errors": errs, "Action": "/admin/products/" + id})
}

// attachUpload stores an optional image sent with the product form.
func (h *AdminProductHandler) attachUpload(c *fiber.Ctx, productID string) {
	up, err := readUpload(c, "image")
	if errors.Is(err, errNoUpload) {
		return
	}
	if err == nil {
		var url string
		if url, err = h.Media.PutProductImage(c.UserContext(), productID, up); err == nil {
			err = h.Admin.AddImage(productID, url)
		}
		if err == nil {
			applog.Audit(c, "admin.products.image", map[string]any{"product": productID, "url": url})
			return
		}
	}
	applog.Error(c, "admin.products.image.fail", err, map[string]any{"product": productID})
	setFlash(c, uploadMessage(err))
}

// POST /admin/products/:id/images
func (h *AdminProductHandler) UploadImage(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.Catalog.GetProduct(id); err != nil {
		return notFound(c, "პროდუქტი ვერ მოიძებნა")
	}
	up, err := readUpload(c, "image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": uploadMessage(err)})
	}
	url, err := h.Media.PutProductImage(c.UserContext(), id, up)
	if err != nil {
		if clientUploadError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": uploadMessage(err)})
		}
		applog.Error(c, "admin.products.image.fail", err, map[string]any{"product": id})
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": uploadMessage(err)})
	}
	if err := h.Admin.AddImage(id, url); err != nil {
		applog.Error(c, "admin.products.image.fail", err, map[string]any{"product": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": uploadMessage(err)})
	}
	applog.Audit(c, "admin.products.image", map[string]any{"product": id, "url": url})
	return c.JSON(fiber.Map{"url": url})
}

// POST /admin/products/:id/delete
func (h *AdminProductHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	err := h.Admin.Delete(id)
	if errors.Is(err, services.ErrProductNotFound) {
		return notFound(c, "პროდუქტი ვერ მოიძებნა")
	}
	if err != nil {
		return serverError(c, "admin.products.delete.fail", err, map[string]any{"product": id})
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product": id})
	setFlash(c, "პროდუქტი წაიშალა")
	return c.Redirect("/admin/products")
}
