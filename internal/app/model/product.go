package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ProductGender string

const (
	GenderMen    ProductGender = "Men"
	GenderWomen  ProductGender = "Women"
	GenderUnisex ProductGender = "Unisex"
	GenderKids   ProductGender = "Kids"
)

// AllowedSizes and AllowedColors bound the variant attributes accepted
// at the boundary. The empty string stands for "no size/color axis" on
// products that never had variants.
var (
	AllowedSizes = []string{"", "XS", "S", "M", "L", "XL", "XXL", "XXXL", "One Size", "Custom"}

	AllowedColors = []string{
		"", "Black", "White", "Red", "Blue", "Green", "Yellow", "Pink", "Purple",
		"Orange", "Brown", "Gray", "Navy", "Beige", "Cream", "Multi-color", "Other",
	}

	AllowedMaterials = []string{
		"Cotton", "Polyester", "Wool", "Silk", "Linen", "Denim", "Leather",
		"Suede", "Synthetic", "Blend", "Other",
	}

	AllowedStyles = []string{
		"Casual", "Formal", "Sport", "Vintage", "Modern", "Classic", "Trendy",
		"Bohemian", "Minimalist", "Other",
	}

	AllowedSeasons = []string{"Spring", "Summer", "Fall", "Winter", "All Season"}
)

type Product struct {
	ID            uint          `gorm:"primarykey" json:"id"`
	Title         string        `gorm:"not null" json:"title"`
	Description   string        `gorm:"type:text" json:"description"`
	CategoryID    *uint         `gorm:"index" json:"category_id,omitempty"`
	Price         float64       `gorm:"not null" json:"price"`
	DiscountPrice float64       `gorm:"default:0" json:"discount_price"`
	BuyPrice      float64       `gorm:"default:0" json:"buy_price"`
	StockQuantity int           `gorm:"default:0" json:"stock_quantity"`
	Brand         string        `json:"brand"`
	Style         string        `gorm:"type:varchar(50)" json:"style"`
	Gender        ProductGender `gorm:"type:varchar(20);default:'Unisex'" json:"gender"`
	Seasons       pq.StringArray `gorm:"type:text[]" json:"seasons"`
	ImageURL      string        `json:"image_url"`

	// Legacy single-variant fields kept only as migration input; once
	// the product has rows in product_variants these are ignored.
	LegacySize  string `gorm:"column:legacy_size;type:varchar(20)" json:"-"`
	LegacyColor string `gorm:"column:legacy_color;type:varchar(20)" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Variants   []ProductVariant  `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
	Materials  []ProductMaterial `gorm:"foreignKey:ProductID" json:"materials,omitempty"`
	CartItems  []CartItem        `gorm:"foreignKey:ProductID" json:"-"`
	OrderItems []OrderItem       `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// EffectivePrice is the unit price a customer pays right now: the
// discount price when one is set below the list price, the list price
// otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountPrice > 0 && p.DiscountPrice < p.Price {
		return p.DiscountPrice
	}
	return p.Price
}

// HasVariants reports whether variant-level stock is authoritative for
// this product. Callers must have preloaded or separately fetched the
// variant rows.
func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}
