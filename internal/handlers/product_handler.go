package handlers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/url"
	"strconv"
	"strings"

	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/internal/views"

	"github.com/gofiber/fiber/v2"
)

const listPath = "/user/index"

// ProductHandler serves the catalog pages.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleHome)
	router.Get(listPath, h.HandleList)

	admin := router.Group("/admin")
	admin.Get("/addProduct", h.HandleAddForm)
	admin.Post("/save", h.HandleSave)
	admin.Get("/edit", h.HandleEditForm)
	admin.Post("/delete", h.HandleDelete)
}

// HandleHome redirects to the product list.
func (h *ProductHandler) HandleHome(c *fiber.Ctx) error {
	return c.Redirect(listPath)
}

// HandleList renders the products whose name contains the keyword query parameter.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	keyword := c.Query("keyword")
	products, err := h.service.Search(c.UserContext(), keyword)
	if err != nil {
		log.Printf("Error searching products for keyword %q: %v", keyword, err)
		return err
	}

	return c.Render("products", fiber.Map{
		"Title":        "Products",
		"ProductsList": products,
		"Keyword":      keyword,
	}, views.Layout)
}

// HandleAddForm renders an empty product form.
func (h *ProductHandler) HandleAddForm(c *fiber.Ctx) error {
	return h.renderAddForm(c, &models.Product{}, c.Query("keyword"), services.FieldErrors{})
}

// HandleSave creates or updates a product from the submitted form and
// redirects to the list, keeping the caller's keyword.
func (h *ProductHandler) HandleSave(c *fiber.Ctx) error {
	product, fieldErrors, err := parseProductForm(c)
	if err != nil {
		return err
	}
	// Unparseable numbers are reported next to the constraint violations.
	for field, msg := range h.service.Validate(product) {
		fieldErrors.Add(field, msg)
	}
	if fieldErrors.HasErrors() {
		return h.renderAddForm(c, product, c.FormValue("keyword"), fieldErrors)
	}

	saved, fieldErrors, err := h.service.Save(c.UserContext(), product)
	if err != nil {
		log.Printf("Error saving product %q: %v", product.Name, err)
		return err
	}
	if fieldErrors.HasErrors() {
		return h.renderAddForm(c, product, c.FormValue("keyword"), fieldErrors)
	}

	log.Printf("Saved product: %s", saved)
	return c.Redirect(listPath + "?keyword=" + url.QueryEscape(c.FormValue("keyword")))
}

// HandleEditForm renders the form of an existing product, or redirects to the
// list when it does not exist.
func (h *ProductHandler) HandleEditForm(c *fiber.Ctx) error {
	id, err := parseID(c.Query("id"))
	if err != nil {
		return err
	}

	product, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		log.Printf("Error getting product by ID %d: %v", id, err)
		return err
	}
	if product == nil {
		return c.Redirect(listPath)
	}

	return c.Render("editProduct", fiber.Map{
		"Title":   "Edit product",
		"Product": product,
		"Keyword": c.Query("keyword"),
		"Errors":  services.FieldErrors{},
	}, views.Layout)
}

// HandleDelete deletes a product and redirects to the unfiltered list.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseID(c.FormValue("id"))
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
		}
		log.Printf("Error deleting product %d: %v", id, err)
		return err
	}

	log.Printf("Deleted product %d", id)
	return c.Redirect(listPath)
}

func (h *ProductHandler) renderAddForm(c *fiber.Ctx, product *models.Product, keyword string, fieldErrors services.FieldErrors) error {
	return c.Render("addProduct", fiber.Map{
		"Title":   "New product",
		"Product": product,
		"Keyword": keyword,
		"Errors":  fieldErrors,
	}, views.Layout)
}

// productForm is the raw form submission; numbers are parsed by hand so a
// malformed value becomes a field error instead of a failed request.
type productForm struct {
	ID       string `form:"id"`
	Name     string `form:"name"`
	Price    string `form:"price"`
	Quantity string `form:"quantity"`
}

func parseProductForm(c *fiber.Ctx) (*models.Product, services.FieldErrors, error) {
	var form productForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing product form: %v", err)
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	fieldErrors := services.FieldErrors{}
	product := &models.Product{Name: form.Name}

	if form.ID != "" {
		id, err := parseID(form.ID)
		if err != nil {
			return nil, nil, err
		}
		product.ID = id
	}
	if v, ok := parseNumber(form.Price); ok {
		product.Price = v
	} else {
		fieldErrors.Add("price", "must be a number")
	}
	if v, ok := parseNumber(form.Quantity); ok {
		product.Quantity = v
	} else {
		fieldErrors.Add("quantity", "must be a number")
	}
	return product, fieldErrors, nil
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseID(s string) (uint, error) {
	if s == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Parameter id is required")
	}
	id, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Invalid product ID %q", s))
	}
	return uint(id), nil
}
