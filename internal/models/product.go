package models

import (
	"fmt"
	"strconv"
)

// Product represents a product in the inventory catalog.
type Product struct {
	ID       uint    `json:"id" form:"id" gorm:"primaryKey;autoIncrement"`
	Name     string  `json:"name" form:"name" gorm:"type:varchar(50);not null" validate:"required,min=2,max=50"`
	Price    float64 `json:"price" form:"price" validate:"gte=0"`
	Quantity float64 `json:"quantity" form:"quantity" validate:"gte=1"` // fractional quantities are accepted
}

// NewProduct builds a product that has not been persisted yet.
func NewProduct(name string, price, quantity float64) *Product {
	return &Product{
		Name:     name,
		Price:    price,
		Quantity: quantity,
	}
}

// IsNew reports whether the store has not assigned an ID yet.
func (p *Product) IsNew() bool {
	return p.ID == 0
}

func (p Product) String() string {
	return fmt.Sprintf("Product(id=%d, name=%s, price=%s, quantity=%s)",
		p.ID, p.Name, formatNumber(p.Price), formatNumber(p.Quantity))
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
