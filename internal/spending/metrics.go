package spending

import (
	"fmt"
	"sort"

	"github.com/dvloznov/customer-spending/internal/domain"
	"github.com/shopspring/decimal"
)

const promotionTemplate = "Exclusive promotion for our low spenders: $500 credit for customers who spend $1500 at %s over a period of 6 months."

// TierCount is the number of customers in one spend tier.
type TierCount struct {
	SpendStatus domain.SpendStatus `json:"spend_status"`
	Count       int                `json:"count"`
}

// Promotion is the low-spender incentive. Found is false when no low-spender
// activity exists in the filtered view.
type Promotion struct {
	Found    bool   `json:"found"`
	Merchant string `json:"merchant,omitempty"`
	Quantity int64  `json:"quantity,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Metrics are the headline figures derived from a filtered view.
type Metrics struct {
	TierCounts []TierCount     `json:"tier_counts"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	Promotion  *Promotion      `json:"promotion,omitempty"`
	Notices    []Notice        `json:"notices,omitempty"`
}

// Summarize computes tier counts from filteredSummary, total purchase spend
// from filtered, and the promotion when the effective tier is Low. Promotion
// eligibility uses globalSummary.
func Summarize(filtered []domain.Transaction, filteredSummary, globalSummary []domain.CustomerSpendSummary, effective domain.SpendStatus) Metrics {
	m := Metrics{
		TierCounts: TierCounts(filteredSummary),
		TotalSpent: TotalSpent(filtered),
	}

	if effective == domain.SpendLow {
		p := Promote(filtered, globalSummary)
		if !p.Found {
			m.Notices = append(m.Notices, noLowSpenders())
		}
		m.Promotion = &p
	}

	return m
}

// TierCounts counts customers with a positive total per tier. All three
// tiers are always present, ordered High, Medium, Low.
func TierCounts(summaries []domain.CustomerSpendSummary) []TierCount {
	counts := make(map[domain.SpendStatus]int, len(domain.SpendStatuses))
	for _, s := range summaries {
		if s.TotalPrice.IsPositive() {
			counts[s.SpendStatus]++
		}
	}

	out := make([]TierCount, 0, len(domain.SpendStatuses))
	for _, st := range domain.SpendStatuses {
		out = append(out, TierCount{SpendStatus: st, Count: counts[st]})
	}
	return out
}

// TotalSpent sums total_price over Purchase rows.
func TotalSpent(txs []domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.IsPurchase() {
			total = total.Add(tx.TotalPrice)
		}
	}
	return total
}

// Promote picks the merchant where low spenders bought the most items.
// Ties go to the merchant name that sorts first.
func Promote(filtered []domain.Transaction, globalSummary []domain.CustomerSpendSummary) Promotion {
	low := CustomerSet(FilterByStatus(globalSummary, domain.SpendLow))

	quantities := make(map[string]int64)
	for _, tx := range filtered {
		if _, ok := low[tx.CustomerID]; ok {
			quantities[tx.MerchantName] += tx.Quantity
		}
	}
	if len(quantities) == 0 {
		return Promotion{}
	}

	merchants := make([]string, 0, len(quantities))
	for name := range quantities {
		merchants = append(merchants, name)
	}
	sort.Slice(merchants, func(i, j int) bool {
		qi, qj := quantities[merchants[i]], quantities[merchants[j]]
		if qi != qj {
			return qi > qj
		}
		return merchants[i] < merchants[j]
	})

	best := merchants[0]
	return Promotion{
		Found:    true,
		Merchant: best,
		Quantity: quantities[best],
		Message:  fmt.Sprintf(promotionTemplate, best),
	}
}
