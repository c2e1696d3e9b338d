package models

import "github.com/shopspring/decimal"

func init() {
	// Monetary values travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// NullPrice wraps an optional price.
func NullPrice(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// PricePlaces matches the decimal(12,2) price columns. Prices are rounded to
// it before they are stored so every driver keeps the same value.
const PricePlaces = 2

// RoundPrice rounds p half away from zero to PricePlaces.
func RoundPrice(p decimal.Decimal) decimal.Decimal {
	return p.Round(PricePlaces)
}

// RoundNullPrice is RoundPrice for an optional price. Null stays null.
func RoundNullPrice(p decimal.NullDecimal) decimal.NullDecimal {
	if !p.Valid {
		return p
	}
	return NullPrice(RoundPrice(p.Decimal))
}
