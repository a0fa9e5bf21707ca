package dashboard

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/customer-spending/internal/domain"
)

// CriteriaInput is the raw selector state as text, the way query strings and
// command-line flags deliver it.
type CriteriaInput struct {
	SpendStatus         string
	StartDate           string // YYYY-MM-DD
	EndDate             string // YYYY-MM-DD
	CustomerID          string
	TransactionCategory string
}

// Criteria validates the input and converts it to filter criteria.
func (in CriteriaInput) Criteria() (domain.FilterCriteria, error) {
	var c domain.FilterCriteria
	var err error

	if c.SpendStatus, err = domain.ParseSpendStatus(in.SpendStatus); err != nil {
		return c, err
	}
	if c.TransactionCategory, err = domain.ParseTransactionCategory(in.TransactionCategory); err != nil {
		return c, err
	}
	if c.StartDate, err = parseDate("start_date", in.StartDate); err != nil {
		return c, err
	}
	if c.EndDate, err = parseDate("end_date", in.EndDate); err != nil {
		return c, err
	}

	c.CustomerID = strings.TrimSpace(in.CustomerID)
	return c, nil
}

func parseDate(name, v string) (civil.Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return civil.Date{}, nil
	}
	d, err := civil.ParseDate(v)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid %s format, want YYYY-MM-DD", name)
	}
	return d, nil
}
