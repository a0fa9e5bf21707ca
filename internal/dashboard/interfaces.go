package dashboard

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/customer-spending/internal/domain"
)

// DataSource provides the transaction table and the warehouse clock.
// Implementations: infra/bigquery.BigQueryPurchaseRepository for production
// and inmemory.Source for tests and offline runs.
type DataSource interface {
	// Fetch returns every row of the purchase table.
	Fetch(ctx context.Context) ([]domain.Transaction, error)

	// Today returns the current date as the data source resolves it.
	Today(ctx context.Context) (civil.Date, error)
}
