package domain

// Currency represents a supported currency. Immutable reference data.
type Currency struct {
	Code          string `json:"code"`          // Primary Key (e.g., "USD")
	Name          string `json:"name"`          // e.g., "US Dollar"
	Symbol        string `json:"symbol"`        // e.g., "$"
	DecimalPlaces int32  `json:"decimalPlaces"` // Display precision, e.g., 2 for USD, 0 for JPY
	IsBase        bool   `json:"isBase"`        // True for the pivot currency used in cross-rate resolution
}
