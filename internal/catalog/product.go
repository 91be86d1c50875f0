package catalog

import (
	"strings"
	"time"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/validation"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	SourceURL   string          `json:"sourceUrl,omitempty"`
	Stock       int             `json:"countInStock"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Validate is the client-side pre-flight check. A product that fails it is
// never sent to the backend.
func Validate(p Product) error {
	var errs validation.Errors
	if strings.TrimSpace(p.Name) == "" {
		errs.Add("name", "is required")
	}
	if strings.TrimSpace(p.SKU) == "" {
		errs.Add("sku", "is required")
	}
	if !p.Price.IsPositive() {
		errs.Add("price", "must be greater than zero")
	}
	if p.Stock < 0 {
		errs.Add("countInStock", "must not be negative")
	}
	return errs.Err()
}
