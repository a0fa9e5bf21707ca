package spending

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/customer-spending/internal/domain"
	"github.com/shopspring/decimal"
)

// DailyItems is the item count for one day and transaction category.
type DailyItems struct {
	TransactionDate     civil.Date                 `json:"transaction_date"`
	TransactionCategory domain.TransactionCategory `json:"transaction_category"`
	TotalItems          int64                      `json:"total_items"`
}

// CardCount is the number of transactions made with one card type.
type CardCount struct {
	TransactionCard  string `json:"transaction_card"`
	TransactionCount int    `json:"transaction_count"`
}

// ProductCategoryCount is the number of transactions in one product category.
type ProductCategoryCount struct {
	ProductCategory string `json:"product_category"`
	PurchaseCount   int    `json:"purchase_count"`
}

// MerchantActivity is the transaction count and spend at one merchant.
type MerchantActivity struct {
	MerchantName     string          `json:"merchant_name"`
	TransactionCount int             `json:"transaction_count"`
	TotalPrice       decimal.Decimal `json:"total_price"`
}

// Charts holds the chart-ready aggregates of a filtered view.
type Charts struct {
	DailyItems        []DailyItems           `json:"daily_items"`
	Cards             []CardCount            `json:"cards"`
	ProductCategories []ProductCategoryCount `json:"product_categories"`
	Merchants         []MerchantActivity     `json:"merchants"`
}

type dayCategory struct {
	date     civil.Date
	category domain.TransactionCategory
}

// BuildCharts aggregates txs into the four dashboard charts. Every table is
// sorted on its key so output is stable across runs.
func BuildCharts(txs []domain.Transaction) Charts {
	items := make(map[dayCategory]int64)
	cards := make(map[string]int)
	categories := make(map[string]int)
	merchants := make(map[string]*MerchantActivity)

	for _, tx := range txs {
		items[dayCategory{tx.TransactionDate, tx.TransactionCategory}] += tx.Quantity
		cards[tx.TransactionCard]++
		categories[tx.ProductCategory]++

		m, ok := merchants[tx.MerchantName]
		if !ok {
			m = &MerchantActivity{MerchantName: tx.MerchantName, TotalPrice: decimal.Zero}
			merchants[tx.MerchantName] = m
		}
		m.TransactionCount++
		m.TotalPrice = m.TotalPrice.Add(tx.TotalPrice)
	}

	c := Charts{
		DailyItems:        make([]DailyItems, 0, len(items)),
		Cards:             make([]CardCount, 0, len(cards)),
		ProductCategories: make([]ProductCategoryCount, 0, len(categories)),
		Merchants:         make([]MerchantActivity, 0, len(merchants)),
	}

	for k, n := range items {
		c.DailyItems = append(c.DailyItems, DailyItems{TransactionDate: k.date, TransactionCategory: k.category, TotalItems: n})
	}
	sort.Slice(c.DailyItems, func(i, j int) bool {
		a, b := c.DailyItems[i], c.DailyItems[j]
		if a.TransactionDate != b.TransactionDate {
			return a.TransactionDate.Before(b.TransactionDate)
		}
		return a.TransactionCategory < b.TransactionCategory
	})

	for card, n := range cards {
		c.Cards = append(c.Cards, CardCount{TransactionCard: card, TransactionCount: n})
	}
	sort.Slice(c.Cards, func(i, j int) bool { return c.Cards[i].TransactionCard < c.Cards[j].TransactionCard })

	for cat, n := range categories {
		c.ProductCategories = append(c.ProductCategories, ProductCategoryCount{ProductCategory: cat, PurchaseCount: n})
	}
	sort.Slice(c.ProductCategories, func(i, j int) bool {
		return c.ProductCategories[i].ProductCategory < c.ProductCategories[j].ProductCategory
	})

	for _, m := range merchants {
		c.Merchants = append(c.Merchants, *m)
	}
	sort.Slice(c.Merchants, func(i, j int) bool { return c.Merchants[i].MerchantName < c.Merchants[j].MerchantName })

	return c
}
