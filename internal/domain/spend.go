package domain

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// SpendStatus is the spend tier a customer falls into.
type SpendStatus string

const (
	SpendLow    SpendStatus = "Low Spenders"
	SpendMedium SpendStatus = "Medium Spenders"
	SpendHigh   SpendStatus = "High Spenders"

	// SpendAll is the unfiltered selector value.
	SpendAll SpendStatus = All
)

// SpendStatuses lists the tiers in display order.
var SpendStatuses = []SpendStatus{SpendHigh, SpendMedium, SpendLow}

// ParseSpendStatus maps a selector value onto a tier. Empty input and "All"
// both yield SpendAll. The short forms "low", "medium" and "high" are accepted.
func ParseSpendStatus(s string) (SpendStatus, error) {
	v := strings.TrimSpace(s)
	if v == "" || strings.EqualFold(v, All) {
		return SpendAll, nil
	}
	for _, st := range SpendStatuses {
		if strings.EqualFold(v, string(st)) || strings.EqualFold(v+" Spenders", string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid spend status: %q", s)
}

// IsFilter reports whether the status narrows the result set.
func (s SpendStatus) IsFilter() bool {
	return s != "" && s != SpendAll
}

// SpendStatusOptions lists the selector values in the order the sidebar shows them.
func SpendStatusOptions() []string {
	return []string{All, string(SpendLow), string(SpendMedium), string(SpendHigh)}
}

// CustomerSpendSummary is the per-customer purchase total and its tier.
type CustomerSpendSummary struct {
	CustomerID  string          `json:"customer_id"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	SpendStatus SpendStatus     `json:"spend_status"`
}

// FilterCriteria is the selector state for one dashboard evaluation.
// Zero dates mean "use the default" (earliest available / today).
type FilterCriteria struct {
	StartDate           civil.Date          `json:"start_date"`
	EndDate             civil.Date          `json:"end_date"`
	CustomerID          string              `json:"customer_id,omitempty"`
	TransactionCategory TransactionCategory `json:"transaction_category,omitempty"`
	SpendStatus         SpendStatus         `json:"spend_status"`
}

// HasCustomer reports whether a specific customer is selected.
func (c FilterCriteria) HasCustomer() bool {
	return c.CustomerID != "" && c.CustomerID != All
}

// HasCategory reports whether a transaction category is selected.
func (c FilterCriteria) HasCategory() bool {
	return c.TransactionCategory != "" && string(c.TransactionCategory) != All
}
