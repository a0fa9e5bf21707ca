package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	bq "github.com/dvloznov/customer-spending/internal/bigquery"
	"github.com/dvloznov/customer-spending/internal/domain"
)

// Re-export interface from shared package
type PurchaseRepository = bq.PurchaseRepository

// BigQueryPurchaseRepository is the concrete implementation of
// PurchaseRepository. It holds a shared BigQuery client and also satisfies
// dashboard.DataSource.
type BigQueryPurchaseRepository struct {
	client *bigquery.Client
	table  string
}

// NewBigQueryPurchaseRepository creates a repository reading table, a fully
// qualified project.dataset.table identifier. location may be empty.
func NewBigQueryPurchaseRepository(ctx context.Context, projectID, table, location string) (*BigQueryPurchaseRepository, error) {
	if err := ValidateTable(table); err != nil {
		return nil, fmt.Errorf("NewBigQueryPurchaseRepository: %w", err)
	}

	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryPurchaseRepository: creating client: %w", err)
	}
	if location != "" {
		client.Location = location
	}

	return &BigQueryPurchaseRepository{
		client: client,
		table:  table,
	}, nil
}

// Close closes the BigQuery client connection.
func (r *BigQueryPurchaseRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// QueryCustomerPurchases delegates to QueryCustomerPurchasesWithClient with the shared client.
func (r *BigQueryPurchaseRepository) QueryCustomerPurchases(ctx context.Context) ([]*PurchaseRow, error) {
	return QueryCustomerPurchasesWithClient(ctx, r.client, r.table)
}

// QueryCurrentDate delegates to QueryCurrentDateWithClient with the shared client.
func (r *BigQueryPurchaseRepository) QueryCurrentDate(ctx context.Context) (civil.Date, error) {
	return QueryCurrentDateWithClient(ctx, r.client)
}

// Fetch loads the purchase table as domain transactions.
func (r *BigQueryPurchaseRepository) Fetch(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.QueryCustomerPurchases(ctx)
	if err != nil {
		return nil, err
	}
	return ToTransactions(rows), nil
}

// Today returns the warehouse's current date.
func (r *BigQueryPurchaseRepository) Today(ctx context.Context) (civil.Date, error) {
	return r.QueryCurrentDate(ctx)
}

// ToTransactions converts rows to domain transactions, skipping nil rows.
func ToTransactions(rows []*PurchaseRow) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		out = append(out, row.ToTransaction())
	}
	return out
}

// Ensure BigQueryPurchaseRepository implements PurchaseRepository.
var _ PurchaseRepository = (*BigQueryPurchaseRepository)(nil)
