package controllers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/SanathRai33/RaiZen-Server/models"
	"github.com/SanathRai33/RaiZen-Server/responses"
	"github.com/SanathRai33/RaiZen-Server/services"
)

const requestTimeout = 10 * time.Second

// ProductController exposes the catalog service over HTTP.
type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

func (pc *ProductController) AddProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	var cmd services.CreateProductCommand
	if err := c.BodyParser(&cmd); err != nil {
		return responses.BadRequest(c, "Invalid request format")
	}

	product, err := pc.catalog.CreateProduct(ctx, cmd)
	if err != nil {
		return responses.Err(c, err)
	}
	return responses.Created(c, "Product added successfully", &fiber.Map{"product": product})
}

// GetProducts lists products filtered by the recognized query options:
// search, brand (comma-separated), min and max price bounds.
func (pc *ProductController) GetProducts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	filter := models.ProductFilter{Search: c.Query("search")}
	if brand := c.Query("brand"); brand != "" {
		filter.Brands = strings.Split(brand, ",")
	}
	if min := c.Query("min"); min != "" {
		v, err := strconv.ParseInt(min, 10, 64)
		if err != nil {
			return responses.BadRequest(c, "min must be a number")
		}
		filter.MinPrice = &v
	}
	if max := c.Query("max"); max != "" {
		v, err := strconv.ParseInt(max, 10, 64)
		if err != nil {
			return responses.BadRequest(c, "max must be a number")
		}
		filter.MaxPrice = &v
	}

	products, err := pc.catalog.ListProducts(ctx, filter)
	if err != nil {
		return responses.Err(c, err)
	}
	return responses.OK(c, "Fetched products", &fiber.Map{"products": products})
}

func (pc *ProductController) GetProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	product, err := pc.catalog.GetProduct(ctx, c.Params("id"))
	if err != nil {
		return responses.Err(c, err)
	}
	return responses.OK(c, "Product fetched successfully", &fiber.Map{"product": product})
}

func (pc *ProductController) UpdateProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	var upd struct {
		Name           *string    `json:"name"`
		Description    *string    `json:"description"`
		Price          *int64     `json:"price"`
		Discount       *int       `json:"discount"`
		Category       *string    `json:"category"`
		SubCategory    *string    `json:"subCategory"`
		Brand          *string    `json:"brand"`
		Stock          *int       `json:"stock"`
		Images         []string   `json:"images"`
		Tags           []string   `json:"tags"`
		IsFeatured     *bool      `json:"isFeatured"`
		OfferExpiresAt *time.Time `json:"offerExpiresAt"`
	}
	if err := c.BodyParser(&upd); err != nil {
		return responses.BadRequest(c, "Invalid request format")
	}

	product, err := pc.catalog.UpdateProduct(ctx, c.Params("id"), models.ProductUpdate{
		Name:           upd.Name,
		Description:    upd.Description,
		Price:          upd.Price,
		Discount:       upd.Discount,
		Category:       upd.Category,
		SubCategory:    upd.SubCategory,
		Brand:          upd.Brand,
		Stock:          upd.Stock,
		Images:         upd.Images,
		Tags:           upd.Tags,
		IsFeatured:     upd.IsFeatured,
		OfferExpiresAt: upd.OfferExpiresAt,
	})
	if err != nil {
		return responses.Err(c, err)
	}
	return responses.OK(c, "Product updated successfully", &fiber.Map{"product": product})
}

func (pc *ProductController) DeleteProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	if err := pc.catalog.DeleteProduct(ctx, c.Params("id")); err != nil {
		return responses.Err(c, err)
	}
	return responses.OK(c, "Product deleted successfully", nil)
}

func (pc *ProductController) AddReview(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	var cmd services.AddReviewCommand
	if err := c.BodyParser(&cmd); err != nil {
		return responses.BadRequest(c, "Invalid request format")
	}

	product, err := pc.catalog.AddReview(ctx, c.Params("id"), cmd)
	if err != nil {
		return responses.Err(c, err)
	}
	return responses.Created(c, "Review added successfully", &fiber.Map{"product": product})
}

func (pc *ProductController) GetActiveOffers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	offers, err := pc.catalog.ActiveOffers(ctx)
	if err != nil {
		return responses.Err(c, err)
	}
	return responses.OK(c, "Fetched active offers", &fiber.Map{"products": offers})
}

func (pc *ProductController) GetNewArrivals(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	arrivals, err := pc.catalog.NewArrivals(ctx)
	if err != nil {
		return responses.Err(c, err)
	}
	return responses.OK(c, "Fetched new arrivals", &fiber.Map{"products": arrivals})
}
