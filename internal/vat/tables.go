package vat

import (
	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/finance-tracker/internal/models"
)

func rate(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func productRates(standard, food, books, digital string) map[models.ProductType]decimal.Decimal {
	return map[models.ProductType]decimal.Decimal{
		models.ProductStandard: rate(standard),
		models.ProductFood:     rate(food),
		models.ProductBooks:    rate(books),
		models.ProductDigital:  rate(digital),
	}
}

// Rates is the hand-authored VAT rate reference table. Every jurisdiction in
// models.Countries must carry a rate for every product type; ValidateTables
// enforces this.
var Rates = RateTable{
	models.CountryNetherlands:   productRates("0.21", "0.09", "0.09", "0.21"),
	models.CountryGermany:       productRates("0.19", "0.07", "0.07", "0.19"),
	models.CountryFrance:        productRates("0.20", "0.055", "0.055", "0.20"),
	models.CountryBelgium:       productRates("0.21", "0.06", "0.06", "0.21"),
	models.CountryItaly:         productRates("0.22", "0.04", "0.04", "0.22"),
	models.CountrySpain:         productRates("0.21", "0.10", "0.04", "0.21"),
	models.CountrySweden:        productRates("0.25", "0.12", "0.06", "0.25"),
	models.CountryDenmark:       productRates("0.25", "0.25", "0.25", "0.25"),
	models.CountryIreland:       productRates("0.23", "0.00", "0.09", "0.23"),
	models.CountryAustria:       productRates("0.20", "0.10", "0.10", "0.20"),
	models.CountrySwitzerland:   productRates("0.077", "0.025", "0.025", "0.077"),
	models.CountryUnitedKingdom: productRates("0.20", "0.00", "0.00", "0.20"),
	models.CountryNorway:        productRates("0.25", "0.15", "0.00", "0.25"),
	models.CountryAustralia:     productRates("0.10", "0.10", "0.10", "0.10"),
	models.CountryCanada:        productRates("0.15", "0.15", "0.15", "0.15"),
	models.CountryUnitedStates:  productRates("0.10", "0.10", "0.10", "0.10"),
}

// Thresholds holds per-jurisdiction VAT registration thresholds in the
// reporting currency.
var Thresholds = ThresholdTable{
	models.CountryNetherlands:   decimal.NewFromInt(100000),
	models.CountryGermany:       decimal.NewFromInt(100000),
	models.CountryFrance:        decimal.NewFromInt(100000),
	models.CountryBelgium:       decimal.NewFromInt(100000),
	models.CountryItaly:         decimal.NewFromInt(100000),
	models.CountrySpain:         decimal.NewFromInt(100000),
	models.CountrySweden:        decimal.NewFromInt(100000),
	models.CountryDenmark:       decimal.NewFromInt(100000),
	models.CountryIreland:       decimal.NewFromInt(100000),
	models.CountryAustria:       decimal.NewFromInt(100000),
	models.CountrySwitzerland:   decimal.NewFromInt(100000),
	models.CountryUnitedKingdom: decimal.NewFromInt(85000),
	models.CountryNorway:        decimal.NewFromInt(50000),
	models.CountryAustralia:     decimal.NewFromInt(75000),
	models.CountryCanada:        decimal.NewFromInt(30000),
	models.CountryUnitedStates:  decimal.NewFromInt(100000),
}

// CountryNotes carries caveats for jurisdictions whose headline rate hides
// regional variation.
var CountryNotes = map[models.Country]string{
	models.CountryCanada:       "GST/HST rates differ by province (5%-15%)",
	models.CountryUnitedStates: "Sales tax varies by state (0%-10%)",
	models.CountrySwitzerland:  "MwSt (VAT equivalent)",
	models.CountryAustralia:    "GST (Goods and Services Tax)",
}
