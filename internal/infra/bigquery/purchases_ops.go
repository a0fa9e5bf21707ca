package bigquery

import (
	"context"
	"fmt"
	"regexp"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	bq "github.com/dvloznov/customer-spending/internal/bigquery"
	"github.com/dvloznov/customer-spending/internal/logger"
	"google.golang.org/api/iterator"
)

// PurchaseRow is re-exported from the shared package.
type PurchaseRow = bq.PurchaseRow

// tablePattern accepts project.dataset.table identifiers. Table names cannot
// be query parameters, so the identifier is checked before interpolation.
var tablePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9_]+\.[A-Za-z0-9_$-]+$`)

// ValidateTable reports whether table is a fully qualified table identifier.
func ValidateTable(table string) error {
	if !tablePattern.MatchString(table) {
		return fmt.Errorf("ValidateTable: invalid table identifier %q", table)
	}
	return nil
}

func purchasesQuery(table string) string {
	return fmt.Sprintf(`
		SELECT
			customer_id,
			customer_age,
			product_id,
			product_name,
			product_category,
			merchant_id,
			merchant_name,
			merchant_category,
			transaction_date,
			transaction_time,
			quantity,
			total_price,
			transaction_card,
			transaction_category,
			transaction_id
		FROM `+"`%s`"+`
		ORDER BY transaction_date, transaction_time, transaction_id
	`, table)
}

// QueryCustomerPurchasesWithClient reads every row of the purchase table
// using the provided BigQuery client.
func QueryCustomerPurchasesWithClient(ctx context.Context, client *bigquery.Client, table string) ([]*PurchaseRow, error) {
	if err := ValidateTable(table); err != nil {
		return nil, fmt.Errorf("QueryCustomerPurchases: %w", err)
	}

	q := client.Query(purchasesQuery(table))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryCustomerPurchases: query read: %w", err)
	}

	var rows []*PurchaseRow
	for {
		var r PurchaseRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryCustomerPurchases: iter next: %w", err)
		}
		rows = append(rows, &r)
	}

	log := logger.FromContext(ctx)
	log.Debug().Str("table", table).Int("rows", len(rows)).Msg("Loaded customer purchases")

	return rows, nil
}

// QueryCurrentDateWithClient returns CURRENT_DATE() as evaluated by BigQuery.
func QueryCurrentDateWithClient(ctx context.Context, client *bigquery.Client) (civil.Date, error) {
	q := client.Query(`SELECT CURRENT_DATE() AS today`)

	it, err := q.Read(ctx)
	if err != nil {
		return civil.Date{}, fmt.Errorf("QueryCurrentDate: query read: %w", err)
	}

	var r struct {
		Today civil.Date `bigquery:"today"`
	}
	if err := it.Next(&r); err != nil {
		return civil.Date{}, fmt.Errorf("QueryCurrentDate: iter next: %w", err)
	}

	return r.Today, nil
}
