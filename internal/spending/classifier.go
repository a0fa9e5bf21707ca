package spending

import (
	"sort"

	"github.com/dvloznov/customer-spending/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	mediumThreshold = decimal.NewFromInt(5000)
	highThreshold   = decimal.NewFromInt(7000)
)

// StatusFor returns the spend tier for a purchase total.
// Lower bounds are inclusive: 5000 is Medium, 7000 is High.
func StatusFor(total decimal.Decimal) domain.SpendStatus {
	switch {
	case total.LessThan(mediumThreshold):
		return domain.SpendLow
	case total.LessThan(highThreshold):
		return domain.SpendMedium
	default:
		return domain.SpendHigh
	}
}

// Classify sums Purchase rows per customer and assigns each customer a tier.
// Customers that only appear on Refund rows are kept with a zero total, so they
// land in Low. The result is sorted by customer ID.
func Classify(txs []domain.Transaction) []domain.CustomerSpendSummary {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		total, ok := totals[tx.CustomerID]
		if !ok {
			total = decimal.Zero
		}
		if tx.IsPurchase() {
			total = total.Add(tx.TotalPrice)
		}
		totals[tx.CustomerID] = total
	}

	out := make([]domain.CustomerSpendSummary, 0, len(totals))
	for id, total := range totals {
		out = append(out, domain.CustomerSpendSummary{
			CustomerID:  id,
			TotalPrice:  total,
			SpendStatus: StatusFor(total),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out
}

// FilterByStatus returns the summaries in the given tier.
func FilterByStatus(summaries []domain.CustomerSpendSummary, status domain.SpendStatus) []domain.CustomerSpendSummary {
	out := make([]domain.CustomerSpendSummary, 0)
	for _, s := range summaries {
		if s.SpendStatus == status {
			out = append(out, s)
		}
	}
	return out
}

// CustomerSet returns the customer IDs of the summaries as a lookup set.
func CustomerSet(summaries []domain.CustomerSpendSummary) map[string]struct{} {
	set := make(map[string]struct{}, len(summaries))
	for _, s := range summaries {
		set[s.CustomerID] = struct{}{}
	}
	return set
}

// Lookup finds the summary for a customer.
func Lookup(summaries []domain.CustomerSpendSummary, customerID string) (domain.CustomerSpendSummary, bool) {
	i := sort.Search(len(summaries), func(i int) bool { return summaries[i].CustomerID >= customerID })
	if i < len(summaries) && summaries[i].CustomerID == customerID {
		return summaries[i], true
	}
	return domain.CustomerSpendSummary{}, false
}
