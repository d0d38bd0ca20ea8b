package printing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NoCode is printed in the classification column for items without a code
const NoCode = "N/A"

// LineItem is one shipped product line as handed over by data assembly
type LineItem struct {
	Code            string          `json:"code"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	CaseQuantity    decimal.Decimal `json:"caseQuantity"`
	UnitWeight      decimal.Decimal `json:"unitWeight"`
	Value           decimal.Decimal `json:"value"`
	CountryOfOrigin string          `json:"countryOfOrigin"`
}

// ShippingWeight is the weight of the line, driven by physical cases
func (i LineItem) ShippingWeight() decimal.Decimal {
	return i.CaseQuantity.Mul(i.UnitWeight)
}

// AggregatedRow is one product row of the form
type AggregatedRow struct {
	Code            string          `json:"code"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	Weight          decimal.Decimal `json:"weight"`
	Value           decimal.Decimal `json:"value"`
	CountryOfOrigin string          `json:"countryOfOrigin"`
	Flag            OriginFlag      `json:"flag"`
}

// Aggregation holds the product rows split by whether they carry a code
type Aggregation struct {
	WithCode    []AggregatedRow `json:"withCode"`
	WithoutCode []AggregatedRow `json:"withoutCode"`
}

// Aggregate groups line items by trimmed classification code.
// Items sharing a code merge into one row in first-seen order; items without
// a code each keep their own row under the N/A sentinel. The country of
// origin and description of a merged row come from its first item.
func Aggregate(items []LineItem) Aggregation {
	var agg Aggregation
	index := make(map[string]int)

	for _, item := range items {
		code := strings.TrimSpace(item.Code)
		if code == "" {
			agg.WithoutCode = append(agg.WithoutCode, newRow(NoCode, item))
			continue
		}

		if i, ok := index[code]; ok {
			row := &agg.WithCode[i]
			row.Quantity = row.Quantity.Add(item.Quantity)
			row.Weight = row.Weight.Add(item.ShippingWeight())
			row.Value = row.Value.Add(item.Value)
			continue
		}

		index[code] = len(agg.WithCode)
		agg.WithCode = append(agg.WithCode, newRow(code, item))
	}

	return agg
}

func newRow(code string, item LineItem) AggregatedRow {
	return AggregatedRow{
		Code:            code,
		Description:     strings.TrimSpace(item.Description),
		Quantity:        item.Quantity,
		Weight:          item.ShippingWeight(),
		Value:           item.Value,
		CountryOfOrigin: strings.TrimSpace(item.CountryOfOrigin),
		Flag:            OriginFlagFor(item.CountryOfOrigin),
	}
}

// OriginFlagFor derives the D/F flag from a country of origin
func OriginFlagFor(country string) OriginFlag {
	switch strings.ToLower(strings.TrimSpace(country)) {
	case "usa", "united states", "us":
		return OriginDomestic
	default:
		return OriginForeign
	}
}

// Rows returns coded rows followed by uncoded rows, the order printed on the form
func (a Aggregation) Rows() []AggregatedRow {
	rows := make([]AggregatedRow, 0, len(a.WithCode)+len(a.WithoutCode))
	rows = append(rows, a.WithCode...)
	return append(rows, a.WithoutCode...)
}

// Len returns the total number of product rows
func (a Aggregation) Len() int {
	return len(a.WithCode) + len(a.WithoutCode)
}

// TotalQuantity sums quantity over every row
func (a Aggregation) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, r := range a.Rows() {
		total = total.Add(r.Quantity)
	}
	return total
}

// TotalWeight sums shipping weight over every row
func (a Aggregation) TotalWeight() decimal.Decimal {
	total := decimal.Zero
	for _, r := range a.Rows() {
		total = total.Add(r.Weight)
	}
	return total
}

// TotalValue sums value over every row
func (a Aggregation) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, r := range a.Rows() {
		total = total.Add(r.Value)
	}
	return total
}
