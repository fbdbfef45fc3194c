// Package vat resolves VAT rates and computes tax splits for VAT-inclusive
// sale prices across the supported jurisdictions.
package vat

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/finance-tracker/internal/models"
)

// Table lookup failures. Both indicate missing reference data rather than a
// user mistake, so callers must surface them instead of defaulting the rate.
var (
	ErrUnsupportedJurisdiction = errors.New("unsupported jurisdiction")
	ErrUnsupportedProductType  = errors.New("unsupported product type")
)

var one = decimal.NewFromInt(1)

// RateTable maps a jurisdiction to per-product-type VAT rates (0.0-1.0).
type RateTable map[models.Country]map[models.ProductType]decimal.Decimal

// ThresholdTable maps a jurisdiction to its VAT registration threshold,
// denominated in the reporting currency.
type ThresholdTable map[models.Country]decimal.Decimal

// ResolveRate looks up the VAT rate for a (country, product type) pair.
func ResolveRate(country models.Country, product models.ProductType, rates RateTable) (decimal.Decimal, error) {
	products, ok := rates[country]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnsupportedJurisdiction, country)
	}
	rate, ok := products[product]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s (%s)", ErrUnsupportedProductType, product, country)
	}
	return rate, nil
}

// ExclusivePrice returns the tax-exclusive part of a VAT-inclusive sale
// price: salePrice / (1 + rate).
func ExclusivePrice(salePrice, rate decimal.Decimal) decimal.Decimal {
	return salePrice.Div(one.Add(rate))
}

// CalculateVAT returns the tax contained in a VAT-inclusive sale price:
// salePrice - salePrice/(1+rate). ExclusivePrice plus CalculateVAT always
// reassembles the sale price exactly.
func CalculateVAT(salePrice, rate decimal.Decimal) decimal.Decimal {
	return salePrice.Sub(ExclusivePrice(salePrice, rate))
}

// IsOverThreshold reports whether cumulative sales to a country strictly
// exceed its registration threshold. Sales exactly at the threshold are not
// over it.
func IsOverThreshold(country models.Country, totalSales decimal.Decimal, thresholds ThresholdTable) (bool, error) {
	threshold, ok := thresholds[country]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnsupportedJurisdiction, country)
	}
	return totalSales.GreaterThan(threshold), nil
}

// ValidateTables asserts that every supported jurisdiction has a rate for
// every product type and a registration threshold. Run at startup so a gap
// in the reference data fails loudly before any record is priced against it.
func ValidateTables(rates RateTable, thresholds ThresholdTable) error {
	for _, country := range models.Countries {
		products, ok := rates[country]
		if !ok {
			return fmt.Errorf("vat rate table: %w: %s", ErrUnsupportedJurisdiction, country)
		}
		for _, product := range models.ProductTypes {
			if _, ok := products[product]; !ok {
				return fmt.Errorf("vat rate table: %w: %s (%s)", ErrUnsupportedProductType, product, country)
			}
		}
		if _, ok := thresholds[country]; !ok {
			return fmt.Errorf("vat threshold table: %w: %s", ErrUnsupportedJurisdiction, country)
		}
	}
	return nil
}
