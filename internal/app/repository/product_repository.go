package repository

import (
	"fmt"

	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortTitle     ProductSort = "title"
)

type ProductFilter struct {
	CategoryID    *uint
	Gender        string
	Style         string
	Brand         string
	Season        string
	Search        string
	MinPrice      *float64
	MaxPrice      *float64
	SortBy        ProductSort
	SortAscending bool
	Limit         int
	Offset        int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindByIDWithVariants(id uint) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	ReplaceMaterials(productID uint, materials []model.ProductMaterial) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"title":    product.Title,
		"price":    product.Price,
		"quantity": product.StockQuantity,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"title": product.Title,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"title":      product.Title,
	})
	return nil
}

func (r *productRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Product{}).
		Preload("Variants").
		Preload("Materials")
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	return r.FindWithFilter(ProductFilter{})
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category_id": filter.CategoryID,
		"gender":      filter.Gender,
		"style":       filter.Style,
		"brand":       filter.Brand,
		"season":      filter.Season,
		"search":      filter.Search,
		"sort_by":     filter.SortBy,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})

	query := r.baseQuery()

	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.Gender != "" {
		query = query.Where("products.gender = ?", filter.Gender)
	}
	if filter.Style != "" {
		query = query.Where("products.style = ?", filter.Style)
	}
	if filter.Brand != "" {
		query = query.Where("products.brand = ?", filter.Brand)
	}
	if filter.Season != "" {
		// seasons is stored as a postgres text[]; matching on the
		// serialized form keeps the query portable to sqlite in tests.
		query = query.Where("products.seasons LIKE ?", fmt.Sprintf("%%%s%%", filter.Season))
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("products.title LIKE ? OR products.description LIKE ?", like, like)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}
	switch filter.SortBy {
	case ProductSortPrice:
		query = query.Order("products.price " + direction)
	case ProductSortTitle:
		query = query.Order("products.title " + direction)
	case ProductSortCreatedAt:
		fallthrough
	default:
		query = query.Order("products.created_at " + direction)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) FindByIDWithVariants(id uint) (*model.Product, error) {
	logger.Debug("Finding product with variants in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.baseQuery().First(&product, id).Error; err != nil {
		logger.Error("Failed to find product with variants in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"title":      product.Title,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	return nil
}

// ReplaceMaterials swaps the product's composition list in one
// transaction. Material rows carry no history, so a full replace keeps
// the table in step with the request payload.
func (r *productRepository) ReplaceMaterials(productID uint, materials []model.ProductMaterial) error {
	logger.Debug("Replacing product materials in database", map[string]interface{}{
		"product_id": productID,
		"count":      len(materials),
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).
			Delete(&model.ProductMaterial{}).Error; err != nil {
			logger.Error("Failed to clear product materials in database", err, map[string]interface{}{
				"product_id": productID,
			})
			return err
		}
		for i := range materials {
			materials[i].ID = 0
			materials[i].ProductID = productID
		}
		if len(materials) == 0 {
			return nil
		}
		if err := tx.Create(&materials).Error; err != nil {
			logger.Error("Failed to create product materials in database", err, map[string]interface{}{
				"product_id": productID,
			})
			return err
		}
		return nil
	})
}
