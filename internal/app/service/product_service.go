package service

import (
	"errors"

	"github.com/lib/pq"
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/internal/app/repository"
	"github.com/ttmai/velora-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidDiscount  = errors.New("discount price must be below the list price")
	ErrInvalidVariant   = errors.New("invalid variant attributes")
	ErrDuplicateVariant = errors.New("duplicate size and color combination")
	ErrInvalidMaterial  = errors.New("invalid material entry")
	ErrInvalidAttribute = errors.New("invalid product attribute")
)

type VariantInput struct {
	Size     string
	Color    string
	Quantity int
}

type MaterialInput struct {
	Material   string
	Percentage int
}

type ProductInput struct {
	Title         string
	Description   string
	CategoryID    *uint
	Price         float64
	DiscountPrice float64
	BuyPrice      float64
	StockQuantity int
	Brand         string
	Style         string
	Gender        model.ProductGender
	Seasons       []string
	ImageURL      string
	Variants      []VariantInput
	Materials     []MaterialInput
}

type ProductService interface {
	GetProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(id uint) error
	GetCategories() ([]model.Category, error)
	CreateCategory(name string) (*model.Category, error)
}

type productService struct {
	productRepo     repository.ProductRepository
	variantRepo     repository.VariantRepository
	categoryRepo    repository.CategoryRepository
	cartRepo        repository.CartRepository
	purchaseLogRepo repository.PurchaseLogRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	categoryRepo repository.CategoryRepository,
	cartRepo repository.CartRepository,
	purchaseLogRepo repository.PurchaseLogRepository,
) ProductService {
	return &productService{
		productRepo:     productRepo,
		variantRepo:     variantRepo,
		categoryRepo:    categoryRepo,
		cartRepo:        cartRepo,
		purchaseLogRepo: purchaseLogRepo,
	}
}

func (s *productService) GetProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindWithFilter(filter)
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByIDWithVariants(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"title":    input.Title,
		"price":    input.Price,
		"variants": len(input.Variants),
	})

	if err := s.validateInput(&input); err != nil {
		logger.Warn("Product creation rejected by validation", map[string]interface{}{
			"title": input.Title,
		})
		return nil, err
	}

	quantity := input.StockQuantity
	if len(input.Variants) > 0 {
		quantity = 0
		for _, v := range input.Variants {
			quantity += v.Quantity
		}
	}

	product := &model.Product{
		Title:         input.Title,
		Description:   input.Description,
		CategoryID:    input.CategoryID,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		BuyPrice:      input.BuyPrice,
		StockQuantity: quantity,
		Brand:         input.Brand,
		Style:         input.Style,
		Gender:        input.Gender,
		Seasons:       pq.StringArray(input.Seasons),
		ImageURL:      input.ImageURL,
	}
	for _, v := range input.Variants {
		product.Variants = append(product.Variants, model.ProductVariant{
			Size:          v.Size,
			Color:         v.Color,
			StockQuantity: v.Quantity,
		})
	}
	for _, m := range input.Materials {
		product.Materials = append(product.Materials, model.ProductMaterial{
			Material:   m.Material,
			Percentage: m.Percentage,
		})
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	if quantity > 0 {
		entry := &model.PurchaseLog{
			ProductID: product.ID,
			Quantity:  quantity,
			BuyPrice:  product.BuyPrice,
			TotalCost: float64(quantity) * product.BuyPrice,
			Note:      "initial stock",
		}
		if err := s.purchaseLogRepo.Create(entry); err != nil {
			logger.Error("Failed to append purchase log for initial stock", err, map[string]interface{}{
				"product_id": product.ID,
			})
		}
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"title":      product.Title,
	})
	return product, nil
}

func (s *productService) UpdateProduct(id uint, input ProductInput) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
		"title":      input.Title,
	})

	product, err := s.productRepo.FindByIDWithVariants(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if err := s.validateInput(&input); err != nil {
		logger.Warn("Product update rejected by validation", map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	previousQuantity := product.StockQuantity
	previousEffective := product.EffectivePrice()

	product.Title = input.Title
	product.Description = input.Description
	product.CategoryID = input.CategoryID
	product.Price = input.Price
	product.DiscountPrice = input.DiscountPrice
	product.BuyPrice = input.BuyPrice
	product.Brand = input.Brand
	product.Style = input.Style
	product.Gender = input.Gender
	product.Seasons = pq.StringArray(input.Seasons)
	if input.ImageURL != "" {
		product.ImageURL = input.ImageURL
	}

	if len(input.Variants) > 0 {
		if err := s.replaceVariants(product, input.Variants); err != nil {
			return nil, err
		}
		quantity := 0
		for _, v := range input.Variants {
			quantity += v.Quantity
		}
		product.StockQuantity = quantity
	} else if len(product.Variants) == 0 {
		product.StockQuantity = input.StockQuantity
	}

	product.Variants = nil
	product.Materials = nil
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	if input.Materials != nil {
		materials := make([]model.ProductMaterial, 0, len(input.Materials))
		for _, m := range input.Materials {
			materials = append(materials, model.ProductMaterial{
				Material:   m.Material,
				Percentage: m.Percentage,
			})
		}
		if err := s.productRepo.ReplaceMaterials(id, materials); err != nil {
			return nil, err
		}
	}

	if increase := product.StockQuantity - previousQuantity; increase > 0 {
		entry := &model.PurchaseLog{
			ProductID: product.ID,
			Quantity:  increase,
			BuyPrice:  product.BuyPrice,
			TotalCost: float64(increase) * product.BuyPrice,
			Note:      "stock increased on product edit",
		}
		if err := s.purchaseLogRepo.Create(entry); err != nil {
			logger.Error("Failed to append purchase log for stock increase", err, map[string]interface{}{
				"product_id": product.ID,
			})
		}
	}

	// Open cart lines keep pointing at this product; re-freeze them at
	// the new effective price so checkout charges what the catalog says.
	if effective := product.EffectivePrice(); effective != previousEffective {
		if err := s.cartRepo.RewritePrices(product.ID, effective); err != nil {
			logger.Error("Failed to rewrite cart prices after product edit", err, map[string]interface{}{
				"product_id": product.ID,
			})
		}
	}

	return s.GetProductByID(id)
}

func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	// A retired product must not linger in open carts.
	if err := s.cartRepo.DeleteByProductID(id); err != nil {
		return err
	}
	return s.productRepo.Delete(id)
}

func (s *productService) GetCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *productService) CreateCategory(name string) (*model.Category, error) {
	if name == "" {
		return nil, ErrInvalidAttribute
	}
	category := &model.Category{Name: name}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *productService) replaceVariants(product *model.Product, inputs []VariantInput) error {
	existing, err := s.variantRepo.FindByProductID(product.ID)
	if err != nil {
		return err
	}

	byKey := make(map[[2]string]*model.ProductVariant, len(existing))
	for i := range existing {
		v := &existing[i]
		byKey[[2]string{v.Size, v.Color}] = v
	}

	seen := make(map[[2]string]bool, len(inputs))
	for _, in := range inputs {
		key := [2]string{in.Size, in.Color}
		seen[key] = true
		if v, ok := byKey[key]; ok {
			if v.StockQuantity != in.Quantity {
				v.StockQuantity = in.Quantity
				if err := s.variantRepo.Update(v); err != nil {
					return err
				}
			}
			continue
		}
		variant := &model.ProductVariant{
			ProductID:     product.ID,
			Size:          in.Size,
			Color:         in.Color,
			StockQuantity: in.Quantity,
		}
		if err := s.variantRepo.Create(variant); err != nil {
			return err
		}
	}

	for key, v := range byKey {
		if !seen[key] {
			if err := s.variantRepo.Delete(v.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *productService) validateInput(input *ProductInput) error {
	if input.Title == "" || input.Price <= 0 {
		return ErrInvalidAttribute
	}
	if input.DiscountPrice < 0 || (input.DiscountPrice > 0 && input.DiscountPrice >= input.Price) {
		return ErrInvalidDiscount
	}
	if input.BuyPrice < 0 || input.StockQuantity < 0 {
		return ErrInvalidAttribute
	}

	if input.Gender == "" {
		input.Gender = model.GenderUnisex
	}
	switch input.Gender {
	case model.GenderMen, model.GenderWomen, model.GenderUnisex, model.GenderKids:
	default:
		return ErrInvalidAttribute
	}

	if input.Style != "" && !contains(model.AllowedStyles, input.Style) {
		return ErrInvalidAttribute
	}
	for _, season := range input.Seasons {
		if !contains(model.AllowedSeasons, season) {
			return ErrInvalidAttribute
		}
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
	}

	seen := make(map[[2]string]bool, len(input.Variants))
	for _, v := range input.Variants {
		if !contains(model.AllowedSizes, v.Size) || !contains(model.AllowedColors, v.Color) {
			return ErrInvalidVariant
		}
		if v.Quantity < 0 {
			return ErrInvalidVariant
		}
		key := [2]string{v.Size, v.Color}
		if seen[key] {
			return ErrDuplicateVariant
		}
		seen[key] = true
	}

	for _, m := range input.Materials {
		if !contains(model.AllowedMaterials, m.Material) {
			return ErrInvalidMaterial
		}
		if m.Percentage < 0 || m.Percentage > 100 {
			return ErrInvalidMaterial
		}
	}
	return nil
}

func contains(allowed []string, value string) bool {
	for _, v := range allowed {
		if v == value {
			return true
		}
	}
	return false
}
