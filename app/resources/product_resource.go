package resources

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/resource"
)

// ProductView is the read shape of a product. Price and ForeignCurrency are
// display strings computed on every read.
type ProductView struct {
	ProductID       uint    `json:"product_id"`
	Price           string  `json:"price"`
	ForeignCurrency string  `json:"foreign_currency"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	Image           string  `json:"image"`
	RatingRate      float64 `json:"rating_rate"`
	RatingCount     int     `json:"rating_count"`
}

// ProductResource renders products with a home and a foreign price.
type ProductResource struct {
	Symbol        string
	ForeignSymbol string
	Rate          decimal.Decimal
}

var _ resource.Transformer[models.Product, ProductView] = (*ProductResource)(nil)

// NewProductResource reads the currency settings from config.
func NewProductResource() *ProductResource {
	return &ProductResource{
		Symbol:        config.CurrencySymbol(),
		ForeignSymbol: config.ForeignCurrencySymbol(),
		Rate:          decimal.NewFromFloat(config.ForeignCurrencyRate()),
	}
}

func (r *ProductResource) Transform(p models.Product) ProductView {
	return ProductView{
		ProductID:       p.ProductID,
		Price:           r.Symbol + FormatAmount(p.Price),
		ForeignCurrency: r.ForeignSymbol + FormatAmount(r.convert(p.Price)),
		Title:           p.Title,
		Description:     p.Description,
		Category:        p.Category,
		Image:           p.Image,
		RatingRate:      p.RatingRate,
		RatingCount:     p.RatingCount,
	}
}

// One renders a single product.
func (r *ProductResource) One(p models.Product) ProductView {
	return resource.One[models.Product, ProductView](r, p)
}

// Collection renders a list of products.
func (r *ProductResource) Collection(items []models.Product) []ProductView {
	return resource.Collection[models.Product, ProductView](r, items)
}

// convert multiplies by the exchange rate and rounds half away from zero to
// three places.
func (r *ProductResource) convert(price float64) float64 {
	f, _ := decimal.NewFromFloat(price).Mul(r.Rate).Round(3).Float64()
	return f
}

// FormatAmount prints f in its shortest round-tripping form and always keeps
// a fractional part: 9.5 → "9.5", 760 → "760.0". Amounts are never written
// in exponent form, however large or small: 1e16 → "10000000000000000.0".
func FormatAmount(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
