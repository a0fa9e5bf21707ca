package spending

import (
	"cloud.google.com/go/civil"
	"github.com/dvloznov/customer-spending/internal/domain"
	"github.com/shopspring/decimal"
)

func date(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type txOpt func(*domain.Transaction)

func onDate(s string) txOpt { return func(t *domain.Transaction) { t.TransactionDate = date(s) } }
func atMerchant(s string) txOpt { return func(t *domain.Transaction) { t.MerchantName = s } }
func qty(n int64) txOpt { return func(t *domain.Transaction) { t.Quantity = n } }
func withCard(s string) txOpt { return func(t *domain.Transaction) { t.TransactionCard = s } }
func inCategory(s string) txOpt { return func(t *domain.Transaction) { t.ProductCategory = s } }

func purchase(id, customer, price string, opts ...txOpt) domain.Transaction {
	return newTx(id, customer, price, domain.CategoryPurchase, opts...)
}

func refund(id, customer, price string, opts ...txOpt) domain.Transaction {
	return newTx(id, customer, price, domain.CategoryRefund, opts...)
}

func newTx(id, customer, price string, cat domain.TransactionCategory, opts ...txOpt) domain.Transaction {
	tx := domain.Transaction{
		TransactionID:       id,
		CustomerID:          customer,
		TotalPrice:          money(price),
		TransactionCategory: cat,
		TransactionDate:     date("2023-03-01"),
		Quantity:            1,
		MerchantName:        "Default Mart",
		TransactionCard:     "Visa",
		ProductCategory:     "General",
	}
	for _, o := range opts {
		o(&tx)
	}
	return tx
}

// scenarioDataset has A=3000, B=6000, C=8000 in purchases and D with refunds only.
func scenarioDataset() []domain.Transaction {
	return []domain.Transaction{
		purchase("t1", "A", "1000", onDate("2023-01-05")),
		purchase("t2", "A", "2000", onDate("2023-02-10")),
		purchase("t3", "B", "6000", onDate("2023-02-11")),
		purchase("t4", "C", "5000", onDate("2023-03-01")),
		purchase("t5", "C", "3000", onDate("2023-03-02")),
		refund("t6", "D", "-200", onDate("2023-03-03")),
	}
}

var scenarioBounds = Bounds{Earliest: date("2023-01-05"), Today: date("2023-06-30")}
