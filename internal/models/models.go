// Package models defines the domain entities for the finance tracker.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultReportingCurrency is the currency reports and balances default to.
const DefaultReportingCurrency = "EUR"

// SupportedCurrencies maps supported currency codes to display symbols.
var SupportedCurrencies = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "CA$",
	"AUD": "A$",
	"CHF": "CHF",
	"CNY": "CN¥",
	"SEK": "kr",
	"NZD": "NZ$",
}

// ZeroDecimalCurrencies lists currencies that have no minor unit.
var ZeroDecimalCurrencies = map[string]bool{
	"JPY": true,
}

// Country is a supported tax jurisdiction.
type Country string

// Supported jurisdictions.
const (
	CountryNetherlands   Country = "Netherlands"
	CountryGermany       Country = "Germany"
	CountryFrance        Country = "France"
	CountryBelgium       Country = "Belgium"
	CountryItaly         Country = "Italy"
	CountrySpain         Country = "Spain"
	CountrySweden        Country = "Sweden"
	CountryDenmark       Country = "Denmark"
	CountryIreland       Country = "Ireland"
	CountryAustria       Country = "Austria"
	CountrySwitzerland   Country = "Switzerland"
	CountryUnitedKingdom Country = "United Kingdom"
	CountryNorway        Country = "Norway"
	CountryAustralia     Country = "Australia"
	CountryCanada        Country = "Canada"
	CountryUnitedStates  Country = "United States"
)

// Countries enumerates every supported jurisdiction. Table completeness is
// checked against this list, so new jurisdictions must be added here first.
var Countries = []Country{
	CountryNetherlands,
	CountryGermany,
	CountryFrance,
	CountryBelgium,
	CountryItaly,
	CountrySpain,
	CountrySweden,
	CountryDenmark,
	CountryIreland,
	CountryAustria,
	CountrySwitzerland,
	CountryUnitedKingdom,
	CountryNorway,
	CountryAustralia,
	CountryCanada,
	CountryUnitedStates,
}

// ProductType classifies a sale for VAT rate resolution.
type ProductType string

// Supported product types.
const (
	ProductStandard ProductType = "Standard"
	ProductFood     ProductType = "Food"
	ProductBooks    ProductType = "Books"
	ProductDigital  ProductType = "Digital"
)

// ProductTypes enumerates every supported product type.
var ProductTypes = []ProductType{
	ProductStandard,
	ProductFood,
	ProductBooks,
	ProductDigital,
}

// SharedExpense is an expense paid by one participant, optionally split
// evenly with a set of co-sharers. An empty SharedWith means the payer
// carries the full amount.
type SharedExpense struct {
	ID          int
	Amount      decimal.Decimal
	Currency    string
	Description string
	Category    string
	PaidBy      string
	SharedWith  []string
	TaxRelevant bool
	Recurring   bool
	SpentAt     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Income is a single sale record. SalePrice and CostPrice are per unit.
// VATRate is resolved from (CustomerCountry, Product) when the record is
// created and stored as a snapshot; later rate table changes do not touch
// existing records.
type Income struct {
	ID              int
	Product         ProductType
	CustomerCountry Country
	SalePrice       decimal.Decimal
	CostPrice       decimal.Decimal
	Quantity        int64
	AdSpend         decimal.Decimal
	Currency        string
	VATRate         decimal.Decimal
	SoldAt          time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Payment is a direct settlement between two participants.
type Payment struct {
	ID        int
	From      string
	To        string
	Amount    decimal.Decimal
	Currency  string
	PaidAt    time.Time
	CreatedAt time.Time
}
