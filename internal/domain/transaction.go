package domain

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// TransactionCategory distinguishes purchases from refunds.
type TransactionCategory string

const (
	CategoryPurchase TransactionCategory = "Purchase"
	CategoryRefund   TransactionCategory = "Refund"
)

// All is the selector sentinel meaning "no filter".
const All = "All"

// Transaction represents one row of the customer purchase summary table.
// Rows are treated as immutable once loaded from the data source.
type Transaction struct {
	CustomerID  string `json:"customer_id"`
	CustomerAge int64  `json:"customer_age"`

	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	ProductCategory string `json:"product_category"`

	MerchantID       string `json:"merchant_id"`
	MerchantName     string `json:"merchant_name"`
	MerchantCategory string `json:"merchant_category"`

	TransactionDate civil.Date `json:"transaction_date"`
	TransactionTime string     `json:"transaction_time"` // HH:MM:SS

	Quantity   int64           `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"` // negative for refunds

	TransactionCard     string              `json:"transaction_card"`
	TransactionCategory TransactionCategory `json:"transaction_category"`
	TransactionID       string              `json:"transaction_id"`
}

// IsPurchase reports whether the row counts toward customer spend.
func (t Transaction) IsPurchase() bool {
	return t.TransactionCategory == CategoryPurchase
}

// ParseTransactionCategory maps a selector value onto a category.
// Empty and "All" yield the empty category, meaning no filter.
func ParseTransactionCategory(s string) (TransactionCategory, error) {
	v := strings.TrimSpace(s)
	switch {
	case v == "" || strings.EqualFold(v, All):
		return "", nil
	case strings.EqualFold(v, string(CategoryPurchase)):
		return CategoryPurchase, nil
	case strings.EqualFold(v, string(CategoryRefund)):
		return CategoryRefund, nil
	}
	return "", fmt.Errorf("invalid transaction category: %q", s)
}

// TransactionCategoryOptions lists the selector values in display order.
func TransactionCategoryOptions() []string {
	return []string{All, string(CategoryPurchase), string(CategoryRefund)}
}
