package repository

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/internal/db"
	"gorm.io/gorm"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return testDB, NewProductRepository(testDB)
}

func seedCatalog(t *testing.T, repo ProductRepository) {
	products := []*model.Product{
		{Title: "Summer Dress", Price: 60, Gender: model.GenderWomen, Style: "Casual", Brand: "Velora", Seasons: pq.StringArray{"Summer"}},
		{Title: "Winter Parka", Price: 220, Gender: model.GenderMen, Style: "Casual", Brand: "Northline", Seasons: pq.StringArray{"Winter"}},
		{Title: "Formal Blazer", Price: 180, Gender: model.GenderMen, Style: "Formal", Brand: "Velora", Seasons: pq.StringArray{"All Season"}},
	}
	for _, p := range products {
		require.NoError(t, repo.Create(p))
	}
}

func TestProductRepository_FindWithFilter_Gender(t *testing.T) {
	_, repo := setupProductTest(t)
	seedCatalog(t, repo)

	products, err := repo.FindWithFilter(ProductFilter{Gender: "Men"})
	assert.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestProductRepository_FindWithFilter_Season(t *testing.T) {
	_, repo := setupProductTest(t)
	seedCatalog(t, repo)

	products, err := repo.FindWithFilter(ProductFilter{Season: "Winter"})
	assert.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Winter Parka", products[0].Title)
}

func TestProductRepository_FindWithFilter_PriceRange(t *testing.T) {
	_, repo := setupProductTest(t)
	seedCatalog(t, repo)

	min, max := 100.0, 200.0
	products, err := repo.FindWithFilter(ProductFilter{MinPrice: &min, MaxPrice: &max})
	assert.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Formal Blazer", products[0].Title)
}

func TestProductRepository_FindWithFilter_SortByPrice(t *testing.T) {
	_, repo := setupProductTest(t)
	seedCatalog(t, repo)

	products, err := repo.FindWithFilter(ProductFilter{SortBy: "price", SortAscending: true})
	assert.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Summer Dress", products[0].Title)
	assert.Equal(t, "Winter Parka", products[2].Title)
}

func TestProductRepository_FindWithFilter_Pagination(t *testing.T) {
	_, repo := setupProductTest(t)
	seedCatalog(t, repo)

	products, err := repo.FindWithFilter(ProductFilter{SortBy: "price", SortAscending: true, Limit: 2, Offset: 1})
	assert.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Formal Blazer", products[0].Title)
}

func TestProductRepository_FindByIDWithVariants(t *testing.T) {
	testDB, repo := setupProductTest(t)

	product := &model.Product{Title: "Varied Shirt", Price: 45, StockQuantity: 5}
	require.NoError(t, repo.Create(product))
	require.NoError(t, testDB.Create(&model.ProductVariant{
		ProductID: product.ID, Size: "M", Color: "White", StockQuantity: 5,
	}).Error)
	require.NoError(t, testDB.Create(&model.ProductMaterial{
		ProductID: product.ID, Material: "Cotton", Percentage: 100,
	}).Error)

	found, err := repo.FindByIDWithVariants(product.ID)
	assert.NoError(t, err)
	require.Len(t, found.Variants, 1)
	require.Len(t, found.Materials, 1)
	assert.Equal(t, "Cotton", found.Materials[0].Material)
}

func TestProductRepository_ReplaceMaterials(t *testing.T) {
	testDB, repo := setupProductTest(t)

	product := &model.Product{Title: "Blend Sweater", Price: 85}
	require.NoError(t, repo.Create(product))
	require.NoError(t, testDB.Create(&model.ProductMaterial{
		ProductID: product.ID, Material: "Wool", Percentage: 100,
	}).Error)

	err := repo.ReplaceMaterials(product.ID, []model.ProductMaterial{
		{Material: "Wool", Percentage: 70},
		{Material: "Polyester", Percentage: 30},
	})
	assert.NoError(t, err)

	found, err := repo.FindByIDWithVariants(product.ID)
	require.NoError(t, err)
	assert.Len(t, found.Materials, 2)
}

func TestProductRepository_Delete_SoftDeletes(t *testing.T) {
	testDB, repo := setupProductTest(t)

	product := &model.Product{Title: "Retired Coat", Price: 100}
	require.NoError(t, repo.Create(product))
	require.NoError(t, repo.Delete(product.ID))

	_, err := repo.FindByID(product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The row survives for audit
	var count int64
	testDB.Unscoped().Model(&model.Product{}).Where("id = ?", product.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}
