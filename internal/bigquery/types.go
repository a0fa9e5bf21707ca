package bigquery

import (
	"context"
	"math/big"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/dvloznov/customer-spending/internal/domain"
	"github.com/shopspring/decimal"
)

// moneyPrecision is the number of decimal places kept when converting
// NUMERIC values. BigQuery NUMERIC has a scale of 9.
const moneyPrecision = 9

// PurchaseRepository provides read access to the customer purchase table.
type PurchaseRepository interface {
	// QueryCustomerPurchases returns every row of the purchase table.
	QueryCustomerPurchases(ctx context.Context) ([]*PurchaseRow, error)

	// QueryCurrentDate returns CURRENT_DATE() as evaluated by the warehouse.
	QueryCurrentDate(ctx context.Context) (civil.Date, error)
}

// PurchaseRow represents a customer_purchase_summary record in BigQuery.
type PurchaseRow struct {
	CustomerID  string             `bigquery:"customer_id"`
	CustomerAge bigquery.NullInt64 `bigquery:"customer_age"`

	ProductID       bigquery.NullString `bigquery:"product_id"`
	ProductName     bigquery.NullString `bigquery:"product_name"`
	ProductCategory bigquery.NullString `bigquery:"product_category"`

	MerchantID       bigquery.NullString `bigquery:"merchant_id"`
	MerchantName     bigquery.NullString `bigquery:"merchant_name"`
	MerchantCategory bigquery.NullString `bigquery:"merchant_category"`

	TransactionDate civil.Date        `bigquery:"transaction_date"`
	TransactionTime bigquery.NullTime `bigquery:"transaction_time"`

	Quantity   bigquery.NullInt64 `bigquery:"quantity"`
	TotalPrice *big.Rat           `bigquery:"total_price"` // NUMERIC, nil when NULL

	TransactionCard     bigquery.NullString `bigquery:"transaction_card"`
	TransactionCategory string              `bigquery:"transaction_category"`
	TransactionID       string              `bigquery:"transaction_id"`
}

// ToTransaction maps the row onto the domain type. NULL numerics become zero.
func (r *PurchaseRow) ToTransaction() domain.Transaction {
	tx := domain.Transaction{
		CustomerID:          r.CustomerID,
		CustomerAge:         r.CustomerAge.Int64,
		ProductID:           r.ProductID.StringVal,
		ProductName:         r.ProductName.StringVal,
		ProductCategory:     r.ProductCategory.StringVal,
		MerchantID:          r.MerchantID.StringVal,
		MerchantName:        r.MerchantName.StringVal,
		MerchantCategory:    r.MerchantCategory.StringVal,
		TransactionDate:     r.TransactionDate,
		Quantity:            r.Quantity.Int64,
		TotalPrice:          decimal.Zero,
		TransactionCard:     r.TransactionCard.StringVal,
		TransactionCategory: domain.TransactionCategory(r.TransactionCategory),
		TransactionID:       r.TransactionID,
	}
	if r.TransactionTime.Valid {
		tx.TransactionTime = r.TransactionTime.Time.String()
	}
	if r.TotalPrice != nil {
		tx.TotalPrice = decimal.RequireFromString(r.TotalPrice.FloatString(moneyPrecision))
	}
	return tx
}
