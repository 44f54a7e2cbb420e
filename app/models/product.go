package models

import (
	"strings"

	"gorm.io/gorm"
)

// Product is a catalog item. TitleKey mirrors lower(Title) and carries the
// unique index that makes titles case-insensitively unique.
type Product struct {
	ProductID   uint    `gorm:"column:product_id;primaryKey;autoIncrement" json:"product_id"`
	Title       string  `gorm:"size:255;not null" json:"title"`
	TitleKey    string  `gorm:"column:title_key;size:255;not null;uniqueIndex" json:"-"`
	Price       float64 `gorm:"not null" json:"price"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Category    string  `gorm:"size:255;not null" json:"category"`
	Image       string  `gorm:"size:200;not null" json:"image"`
	RatingRate  float64 `gorm:"column:rating_rate;not null;index" json:"rating_rate"`
	RatingCount int     `gorm:"column:rating_count;not null" json:"rating_count"`
}

func (Product) TableName() string { return "products" }

// BeforeSave keeps TitleKey in step with Title on create and save.
func (p *Product) BeforeSave(_ *gorm.DB) error {
	p.TitleKey = TitleKey(p.Title)
	return nil
}

// TitleKey is the comparison form of a title.
func TitleKey(title string) string {
	return strings.ToLower(title)
}
