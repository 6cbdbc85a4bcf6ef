package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/ttmai/velora-backend/config"
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/internal/app/repository"
	"github.com/ttmai/velora-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports the product catalog from an XLSX export. Expected columns:
// title, description, category, price, discount_price, buy_price,
// brand, style, gender, seasons (semicolon separated), stock, size,
// color, image_url. The first row is the header.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	purchaseLogRepo := repository.NewPurchaseLogRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readRows(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total rows to import: %d\n", len(rows))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	categories := make(map[string]uint)
	imported := 0
	skipped := 0

	for i, row := range rows {
		product, categoryName, ok := parseProductRow(row)
		if !ok {
			skipped++
			continue
		}

		if categoryName != "" {
			categoryID, err := resolveCategory(categoryRepo, categories, categoryName)
			if err != nil {
				log.Fatal("Failed to resolve category:", err)
			}
			product.CategoryID = &categoryID
		}

		if err := productRepo.Create(product); err != nil {
			fmt.Printf("Row %d: failed to create product %q: %v\n", i+2, product.Title, err)
			skipped++
			continue
		}

		// Initial stock enters the cost ledger at the product buy price
		if product.StockQuantity > 0 {
			entry := &model.PurchaseLog{
				ProductID: product.ID,
				Quantity:  product.StockQuantity,
				BuyPrice:  product.BuyPrice,
				TotalCost: float64(product.StockQuantity) * product.BuyPrice,
				Note:      "initial stock import",
			}
			if err := purchaseLogRepo.Create(entry); err != nil {
				fmt.Printf("Row %d: failed to log initial stock for %q: %v\n", i+2, product.Title, err)
			}
		}

		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Products imported: %d, skipped: %d\n", imported, skipped)
}

func readRows(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	fmt.Printf("Headers: %v\n", rows[0])
	return rows[1:], nil
}

func parseProductRow(row []string) (*model.Product, string, bool) {
	if len(row) < 11 {
		return nil, "", false
	}

	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	title := cell(0)
	if title == "" {
		return nil, "", false
	}

	price, err := strconv.ParseFloat(cell(3), 64)
	if err != nil || price <= 0 {
		return nil, "", false
	}

	discountPrice, _ := strconv.ParseFloat(cell(4), 64)
	buyPrice, _ := strconv.ParseFloat(cell(5), 64)
	stock, _ := strconv.Atoi(cell(10))
	if stock < 0 {
		stock = 0
	}

	gender := model.ProductGender(cell(8))
	switch gender {
	case model.GenderMen, model.GenderWomen, model.GenderUnisex, model.GenderKids:
	default:
		gender = model.GenderUnisex
	}

	var seasons pq.StringArray
	for _, s := range strings.Split(cell(9), ";") {
		s = strings.TrimSpace(s)
		if s != "" {
			seasons = append(seasons, s)
		}
	}

	product := &model.Product{
		Title:         title,
		Description:   cell(1),
		Price:         price,
		DiscountPrice: discountPrice,
		BuyPrice:      buyPrice,
		StockQuantity: stock,
		Brand:         cell(6),
		Style:         cell(7),
		Gender:        gender,
		Seasons:       seasons,
		LegacySize:    cell(11),
		LegacyColor:   cell(12),
		ImageURL:      cell(13),
	}

	return product, cell(2), true
}

func resolveCategory(repo repository.CategoryRepository, cache map[string]uint, name string) (uint, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}

	category := &model.Category{Name: name}
	if err := repo.Create(category); err != nil {
		return 0, err
	}

	cache[name] = category.ID
	return category.ID, nil
}
