package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
)

// PriceItemRequest is one vendor quote submitted for comparison.
type PriceItemRequest struct {
	PriceItemID     string          `json:"priceItemID"`
	ProductID       string          `json:"productID" binding:"required"`
	ProductName     string          `json:"productName" binding:"required"`
	UnitPrice       decimal.Decimal `json:"unitPrice" binding:"required"`
	Currency        string          `json:"currency" binding:"required,currency"`
	MinQuantity     decimal.Decimal `json:"minQuantity"`
	BulkPrice       decimal.Decimal `json:"bulkPrice"`
	BulkMinQuantity decimal.Decimal `json:"bulkMinQuantity"`
	ValidFrom       time.Time       `json:"validFrom" binding:"required"`
	ValidTo         time.Time       `json:"validTo" binding:"required"`
	VendorID        string          `json:"vendorID" binding:"required"`
	VendorName      string          `json:"vendorName" binding:"required"`
}

// ToDomain converts the request quote to its domain form.
func (r PriceItemRequest) ToDomain() domain.PriceItem {
	return domain.PriceItem{
		PriceItemID:     r.PriceItemID,
		ProductID:       r.ProductID,
		ProductName:     r.ProductName,
		UnitPrice:       r.UnitPrice,
		Currency:        r.Currency,
		MinQuantity:     r.MinQuantity,
		BulkPrice:       r.BulkPrice,
		BulkMinQuantity: r.BulkMinQuantity,
		ValidFrom:       r.ValidFrom,
		ValidTo:         r.ValidTo,
		VendorID:        r.VendorID,
		VendorName:      r.VendorName,
	}
}

// NormalizationOptionsRequest overrides the default normalization options.
// Nil fields keep the service defaults.
type NormalizationOptionsRequest struct {
	BaseCurrency      *string `json:"baseCurrency" binding:"omitempty,currency"`
	IncludeExpired    *bool   `json:"includeExpired"`
	ConsiderMinQty    *bool   `json:"considerMinQuantity"`
	WeightBulkPricing *bool   `json:"weightBulkPricing"`
	PriceValidityDays *int    `json:"priceValidityDays" binding:"omitempty,min=1"`
}

// Apply overlays the provided overrides onto base and returns the result.
func (r *NormalizationOptionsRequest) Apply(base domain.NormalizationOptions) domain.NormalizationOptions {
	if r == nil {
		return base
	}
	if r.BaseCurrency != nil {
		base.BaseCurrency = *r.BaseCurrency
	}
	if r.IncludeExpired != nil {
		base.IncludeExpired = *r.IncludeExpired
	}
	if r.ConsiderMinQty != nil {
		base.ConsiderMinQty = *r.ConsiderMinQty
	}
	if r.WeightBulkPricing != nil {
		base.WeightBulkPricing = *r.WeightBulkPricing
	}
	if r.PriceValidityDays != nil {
		base.PriceValidityDays = *r.PriceValidityDays
	}
	return base
}

// PriceComparisonRequest submits vendor quotes for normalization and
// competitive ranking, grouped by product.
type PriceComparisonRequest struct {
	Items   []PriceItemRequest           `json:"priceItems" binding:"required,min=1,dive"`
	Options *NormalizationOptionsRequest `json:"options"`
}

// ToDomainItems converts all request quotes to their domain form.
func (r PriceComparisonRequest) ToDomainItems() []domain.PriceItem {
	items := make([]domain.PriceItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = item.ToDomain()
	}
	return items
}
