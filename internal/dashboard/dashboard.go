package dashboard

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/customer-spending/internal/domain"
	"github.com/dvloznov/customer-spending/internal/spending"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Options lists the selector values a presentation layer can offer.
type Options struct {
	CustomerIDs           []string   `json:"customer_ids"`
	SpendStatuses         []string   `json:"spend_statuses"`
	TransactionCategories []string   `json:"transaction_categories"`
	DefaultStartDate      civil.Date `json:"default_start_date"`
	DefaultEndDate        civil.Date `json:"default_end_date"`
}

// ViewModel is everything one dashboard render needs.
type ViewModel struct {
	Criteria     domain.FilterCriteria `json:"criteria"`
	SpendStatus  domain.SpendStatus    `json:"spend_status"`
	TierCounts   []spending.TierCount  `json:"tier_counts"`
	TotalSpent   decimal.Decimal       `json:"total_spent"`
	Transactions []domain.Transaction  `json:"transactions"`
	Charts       spending.Charts       `json:"charts"`
	Promotion    *spending.Promotion   `json:"promotion,omitempty"`
	Notices      []spending.Notice     `json:"notices"`
	Empty        bool                  `json:"empty"`
	Options      Options               `json:"options"`
}

// Service evaluates the dashboard against a data source. It keeps no state
// between evaluations.
type Service struct {
	source DataSource
	log    zerolog.Logger
}

// NewService creates a dashboard service.
func NewService(source DataSource, log zerolog.Logger) *Service {
	return &Service{
		source: source,
		log:    log,
	}
}

// Evaluate runs the full pipeline for one selection. The data source is read
// once and today is resolved once, so every step sees the same snapshot.
// Data source failures are returned; everything else becomes a notice.
func (s *Service) Evaluate(ctx context.Context, criteria domain.FilterCriteria) (*ViewModel, error) {
	all, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("Evaluate: fetch transactions: %w", err)
	}

	today, err := s.source.Today(ctx)
	if err != nil {
		return nil, fmt.Errorf("Evaluate: resolve current date: %w", err)
	}

	earliest, ok := spending.EarliestDate(all)
	if !ok {
		earliest = today
	}
	bounds := spending.Bounds{Earliest: earliest, Today: today}

	globalSummary := spending.Classify(all)

	filtered := spending.Apply(all, globalSummary, criteria, bounds)

	filteredSummary := spending.Classify(filtered.Transactions)

	metrics := spending.Summarize(filtered.Transactions, filteredSummary, globalSummary, filtered.SpendStatus)

	vm := &ViewModel{
		Criteria:     filtered.Criteria,
		SpendStatus:  filtered.SpendStatus,
		TierCounts:   metrics.TierCounts,
		TotalSpent:   metrics.TotalSpent,
		Transactions: filtered.Transactions,
		Charts:       spending.BuildCharts(filtered.Transactions),
		Promotion:    metrics.Promotion,
		Notices:      make([]spending.Notice, 0, len(filtered.Notices)+len(metrics.Notices)+1),
		Options:      options(all, bounds),
	}
	vm.Notices = append(vm.Notices, filtered.Notices...)
	vm.Notices = append(vm.Notices, metrics.Notices...)

	if len(filtered.Transactions) == 0 {
		vm.Empty = true
		vm.Notices = append(vm.Notices, spending.NoDataNotice())
	}

	s.log.Debug().
		Int("rows_total", len(all)).
		Int("rows_filtered", len(filtered.Transactions)).
		Int("customers_total", len(globalSummary)).
		Int("customers_filtered", len(filteredSummary)).
		Str("spend_status", string(filtered.SpendStatus)).
		Str("start_date", filtered.Criteria.StartDate.String()).
		Str("end_date", filtered.Criteria.EndDate.String()).
		Int("notices", len(vm.Notices)).
		Msg("Dashboard evaluated")

	return vm, nil
}

// CustomerIDs returns the distinct customer IDs in the data source, sorted.
func (s *Service) CustomerIDs(ctx context.Context) ([]string, error) {
	all, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("CustomerIDs: fetch transactions: %w", err)
	}
	return distinctCustomers(all), nil
}

func options(all []domain.Transaction, bounds spending.Bounds) Options {
	return Options{
		CustomerIDs:           append([]string{domain.All}, distinctCustomers(all)...),
		SpendStatuses:         domain.SpendStatusOptions(),
		TransactionCategories: domain.TransactionCategoryOptions(),
		DefaultStartDate:      bounds.Earliest,
		DefaultEndDate:        bounds.Today,
	}
}

func distinctCustomers(txs []domain.Transaction) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, tx := range txs {
		if _, ok := seen[tx.CustomerID]; ok {
			continue
		}
		seen[tx.CustomerID] = struct{}{}
		out = append(out, tx.CustomerID)
	}
	sort.Strings(out)
	return out
}
