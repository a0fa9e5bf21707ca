package spending

import (
	"cloud.google.com/go/civil"
	"github.com/dvloznov/customer-spending/internal/domain"
)

// Bounds are the date limits a date-range selection is clamped to.
// Earliest must come from the unfiltered dataset; Today is resolved once per
// evaluation so both clamp and default use the same value.
type Bounds struct {
	Earliest civil.Date
	Today    civil.Date
}

// FilterResult is the outcome of Apply.
type FilterResult struct {
	Transactions []domain.Transaction
	// Criteria is the selection after defaults and clamping.
	Criteria domain.FilterCriteria
	// SpendStatus is the tier filter actually applied, SpendAll when none.
	SpendStatus domain.SpendStatus
	Notices     []Notice
}

// EarliestDate returns the smallest transaction date, or false for an empty set.
func EarliestDate(txs []domain.Transaction) (civil.Date, bool) {
	if len(txs) == 0 {
		return civil.Date{}, false
	}
	earliest := txs[0].TransactionDate
	for _, tx := range txs[1:] {
		if tx.TransactionDate.Before(earliest) {
			earliest = tx.TransactionDate
		}
	}
	return earliest, true
}

// Apply narrows txs by date range, customer, transaction category and spend
// tier, in that order. Tier membership is taken from summaries, which the
// caller chooses; the input slices are not modified.
func Apply(txs []domain.Transaction, summaries []domain.CustomerSpendSummary, criteria domain.FilterCriteria, bounds Bounds) FilterResult {
	res := FilterResult{SpendStatus: domain.SpendAll}

	criteria, res.Notices = clampDates(criteria, bounds)
	res.Criteria = criteria

	working := keep(txs, func(tx domain.Transaction) bool {
		d := tx.TransactionDate
		return !d.Before(criteria.StartDate) && !d.After(criteria.EndDate)
	})

	if criteria.HasCustomer() {
		working = keep(working, func(tx domain.Transaction) bool {
			return tx.CustomerID == criteria.CustomerID
		})
		if !hasPurchase(working) {
			res.Notices = append(res.Notices, noPurchases(criteria.CustomerID))
		}
	}

	if criteria.HasCategory() {
		working = keep(working, func(tx domain.Transaction) bool {
			return tx.TransactionCategory == criteria.TransactionCategory
		})
	}

	if criteria.SpendStatus.IsFilter() {
		members := CustomerSet(FilterByStatus(summaries, criteria.SpendStatus))
		working = keep(working, func(tx domain.Transaction) bool {
			_, ok := members[tx.CustomerID]
			return ok
		})
		res.SpendStatus = criteria.SpendStatus
	}

	res.Transactions = working
	return res
}

func clampDates(c domain.FilterCriteria, b Bounds) (domain.FilterCriteria, []Notice) {
	var notices []Notice

	if c.EndDate.IsZero() {
		c.EndDate = b.Today
	}
	if c.StartDate.IsZero() {
		c.StartDate = b.Earliest
	}

	if !b.Today.IsZero() && c.EndDate.After(b.Today) {
		c.EndDate = b.Today
		notices = append(notices, endDateClamped())
	}
	if !b.Earliest.IsZero() && c.StartDate.Before(b.Earliest) {
		c.StartDate = b.Earliest
		notices = append(notices, startDateClamped(b.Earliest))
	}

	return c, notices
}

func keep(txs []domain.Transaction, pred func(domain.Transaction) bool) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if pred(tx) {
			out = append(out, tx)
		}
	}
	return out
}

func hasPurchase(txs []domain.Transaction) bool {
	for _, tx := range txs {
		if tx.IsPurchase() {
			return true
		}
	}
	return false
}
