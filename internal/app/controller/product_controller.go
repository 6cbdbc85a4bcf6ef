package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/internal/app/repository"
	"github.com/ttmai/velora-backend/internal/app/service"
	apperrors "github.com/ttmai/velora-backend/internal/errors"
	"github.com/ttmai/velora-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
	stockService   service.StockService
}

func NewProductController(productService service.ProductService, stockService service.StockService) *ProductController {
	return &ProductController{
		productService: productService,
		stockService:   stockService,
	}
}

type VariantRequest struct {
	Size     string `json:"size"`
	Color    string `json:"color"`
	Quantity int    `json:"quantity" binding:"gte=0"`
}

type MaterialRequest struct {
	Material   string `json:"material" binding:"required"`
	Percentage int    `json:"percentage" binding:"gte=0,lte=100"`
}

type ProductRequest struct {
	Title         string            `json:"title" binding:"required"`
	Description   string            `json:"description"`
	CategoryID    *uint             `json:"category_id"`
	Price         float64           `json:"price" binding:"required,gt=0"`
	DiscountPrice float64           `json:"discount_price" binding:"gte=0"`
	BuyPrice      float64           `json:"buy_price" binding:"gte=0"`
	StockQuantity int               `json:"stock_quantity" binding:"gte=0"`
	Brand         string            `json:"brand"`
	Style         string            `json:"style"`
	Gender        string            `json:"gender"`
	Seasons       []string          `json:"seasons"`
	ImageURL      string            `json:"image_url"`
	Variants      []VariantRequest  `json:"variants"`
	Materials     []MaterialRequest `json:"materials"`
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (req *ProductRequest) toInput() service.ProductInput {
	input := service.ProductInput{
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		BuyPrice:      req.BuyPrice,
		StockQuantity: req.StockQuantity,
		Brand:         req.Brand,
		Style:         req.Style,
		Gender:        model.ProductGender(req.Gender),
		Seasons:       req.Seasons,
		ImageURL:      req.ImageURL,
	}
	for _, v := range req.Variants {
		input.Variants = append(input.Variants, service.VariantInput{
			Size:     v.Size,
			Color:    v.Color,
			Quantity: v.Quantity,
		})
	}
	for _, m := range req.Materials {
		input.Materials = append(input.Materials, service.MaterialInput{
			Material:   m.Material,
			Percentage: m.Percentage,
		})
	}
	return input
}

// GetProducts lists products with optional filters
// GET /api/v1/products
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ProductFilter{
		Gender: c.Query("gender"),
		Style:  c.Query("style"),
		Brand:  c.Query("brand"),
		Season: c.Query("season"),
		Search: c.Query("search"),
		SortBy: repository.ProductSort(c.Query("sort_by")),
	}
	filter.SortAscending = c.Query("order") == "asc"

	if categoryStr := c.Query("category_id"); categoryStr != "" {
		categoryID, err := strconv.ParseUint(categoryStr, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
			return
		}
		id := uint(categoryID)
		filter.CategoryID = &id
	}
	if minStr := c.Query("min_price"); minStr != "" {
		if min, err := strconv.ParseFloat(minStr, 64); err == nil {
			filter.MinPrice = &min
		}
	}
	if maxStr := c.Query("max_price"); maxStr != "" {
		if max, err := strconv.ParseFloat(maxStr, 64); err == nil {
			filter.MaxPrice = &max
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	products, err := ctrl.productService.GetProducts(filter)
	if err != nil {
		log.Error("Failed to fetch products", err)
		apperrors.InternalError(c, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns one product with variants and materials
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// CreateProduct creates a product (admin)
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data")
		return
	}

	product, err := ctrl.productService.CreateProduct(req.toInput())
	if err != nil {
		ctrl.respondProductError(c, err, "create product")
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"title":      product.Title,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct updates a product (admin)
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data")
		return
	}

	product, err := ctrl.productService.UpdateProduct(id, req.toInput())
	if err != nil {
		ctrl.respondProductError(c, err, "update product")
		return
	}

	log.Info("Product updated", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct retires a product and drops its open cart lines (admin)
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to delete product")
		return
	}

	log.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// MigrateVariants folds a product's legacy size/color into a variant (admin)
// POST /api/v1/admin/products/:id/migrate-variants
func (ctrl *ProductController) MigrateVariants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.stockService.MigrateLegacyVariants(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to migrate legacy variants", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to migrate legacy variants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Legacy variants migrated",
	})
}

// GetCategories lists product categories
// GET /api/v1/categories
func (ctrl *ProductController) GetCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.productService.GetCategories()
	if err != nil {
		log.Error("Failed to fetch categories", err)
		apperrors.InternalError(c, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// CreateCategory creates a category (admin)
// POST /api/v1/admin/categories
func (ctrl *ProductController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category data")
		return
	}

	category, err := ctrl.productService.CreateCategory(req.Name)
	if err != nil {
		log.Error("Failed to create category", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.InternalError(c, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": category,
	})
}

func (ctrl *ProductController) respondProductError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.BadRequest(c, apperrors.ValidationInvalidCategory, "Category does not exist")
	case errors.Is(err, service.ErrInvalidDiscount):
		apperrors.BadRequest(c, apperrors.ValidationInvalidDiscount, "Discount price must be below the list price")
	case errors.Is(err, service.ErrInvalidVariant), errors.Is(err, service.ErrDuplicateVariant):
		apperrors.BadRequest(c, apperrors.ValidationInvalidVariant, "Invalid variant list")
	case errors.Is(err, service.ErrInvalidMaterial):
		apperrors.BadRequest(c, apperrors.ValidationInvalidMaterial, "Invalid material list")
	case errors.Is(err, service.ErrInvalidAttribute):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product attributes")
	default:
		log.Error("Failed to "+action, err)
		apperrors.InternalError(c, "Failed to "+action)
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
