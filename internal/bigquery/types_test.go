package bigquery

import (
	"math/big"
	"testing"
	"time"

	bigquerylib "cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/dvloznov/customer-spending/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPurchaseRow_ToTransaction(t *testing.T) {
	row := &PurchaseRow{
		CustomerID:          "C-17",
		CustomerAge:         bigquerylib.NullInt64{Int64: 42, Valid: true},
		ProductName:         bigquerylib.NullString{StringVal: "Kettle", Valid: true},
		MerchantName:        bigquerylib.NullString{StringVal: "Brew Co", Valid: true},
		TransactionDate:     civil.Date{Year: 2023, Month: time.March, Day: 4},
		TransactionTime:     bigquerylib.NullTime{Time: civil.Time{Hour: 9, Minute: 30, Second: 5}, Valid: true},
		Quantity:            bigquerylib.NullInt64{Int64: 3, Valid: true},
		TotalPrice:          big.NewRat(-12345, 100),
		TransactionCard:     bigquerylib.NullString{StringVal: "Visa", Valid: true},
		TransactionCategory: "Refund",
		TransactionID:       "T-1",
	}

	tx := row.ToTransaction()

	assert.Equal(t, "C-17", tx.CustomerID)
	assert.Equal(t, int64(42), tx.CustomerAge)
	assert.Equal(t, "Kettle", tx.ProductName)
	assert.Equal(t, "Brew Co", tx.MerchantName)
	assert.Equal(t, "09:30:05", tx.TransactionTime)
	assert.Equal(t, int64(3), tx.Quantity)
	assert.True(t, decimal.RequireFromString("-123.45").Equal(tx.TotalPrice), "got %s", tx.TotalPrice)
	assert.Equal(t, domain.CategoryRefund, tx.TransactionCategory)
	assert.Equal(t, "", tx.ProductCategory)
}

func TestPurchaseRow_ToTransaction_NullNumerics(t *testing.T) {
	row := &PurchaseRow{CustomerID: "C-1", TransactionCategory: "Purchase"}

	tx := row.ToTransaction()

	assert.True(t, tx.TotalPrice.IsZero())
	assert.Zero(t, tx.Quantity)
	assert.Empty(t, tx.TransactionTime)
}
