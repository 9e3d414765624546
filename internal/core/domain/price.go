package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceItem is a vendor quote for a product, in the vendor's own currency.
type PriceItem struct {
	PriceItemID     string          `json:"priceItemID"`
	ProductID       string          `json:"productID"`
	ProductName     string          `json:"productName"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Currency        string          `json:"currency"`
	MinQuantity     decimal.Decimal `json:"minQuantity"`
	BulkPrice       decimal.Decimal `json:"bulkPrice,omitempty"`       // zero when absent
	BulkMinQuantity decimal.Decimal `json:"bulkMinQuantity,omitempty"` // zero when absent
	ValidFrom       time.Time       `json:"validFrom"`
	ValidTo         time.Time       `json:"validTo"`
	VendorID        string          `json:"vendorID"`
	VendorName      string          `json:"vendorName"`
}

// HasBulkPricing reports whether the quote carries a usable bulk tier.
func (p PriceItem) HasBulkPricing() bool {
	return p.BulkPrice.IsPositive() && p.BulkMinQuantity.IsPositive()
}

// NormalizedPriceItem is a PriceItem enriched with its base-currency price,
// effective per-unit price and competitive position within its product group.
type NormalizedPriceItem struct {
	PriceItem
	NormalizedUnitPrice decimal.Decimal `json:"normalizedUnitPrice"` // base currency
	NormalizedBulkPrice decimal.Decimal `json:"normalizedBulkPrice,omitempty"`
	EffectivePrice      decimal.Decimal `json:"effectivePrice"`     // price used for ranking
	CompetitiveRank     int             `json:"competitiveRank"`    // 1 = cheapest
	PriceVariance       decimal.Decimal `json:"priceVariance"`      // % difference from group mean
	RateUsed            decimal.Decimal `json:"rateUsed"`
}

// MarketAnalysis summarises the competitive landscape of one product group.
type MarketAnalysis struct {
	LowestPrice       NormalizedPriceItem `json:"lowestPrice"`
	HighestPrice      NormalizedPriceItem `json:"highestPrice"`
	AveragePrice      decimal.Decimal     `json:"averagePrice"`
	MedianPrice       decimal.Decimal     `json:"medianPrice"`
	PriceSpread       decimal.Decimal     `json:"priceSpread"` // (highest-lowest)/lowest * 100
	RecommendedVendor NormalizedPriceItem `json:"recommendedVendor"`
}

// PriceComparison is the normalized, ranked view of all quotes for a product.
type PriceComparison struct {
	ProductID    string                `json:"productID"`
	ProductName  string                `json:"productName"`
	BaseCurrency string                `json:"baseCurrency"`
	Prices       []NormalizedPriceItem `json:"prices"`
	Market       MarketAnalysis        `json:"marketAnalysis"`
	LastUpdated  time.Time             `json:"lastUpdated"`
}

// NormalizationOptions control validity filtering and effective-price
// weighting during price normalization.
type NormalizationOptions struct {
	BaseCurrency       string `json:"baseCurrency"`
	IncludeExpired     bool   `json:"includeExpired"`
	ConsiderMinQty     bool   `json:"considerMinQuantity"`
	WeightBulkPricing  bool   `json:"weightBulkPricing"`
	PriceValidityDays  int    `json:"priceValidityDays"`
}
