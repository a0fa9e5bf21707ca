package dashboard_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/customer-spending/internal/dashboard"
	"github.com/dvloznov/customer-spending/internal/domain"
	"github.com/dvloznov/customer-spending/internal/inmemory"
	"github.com/dvloznov/customer-spending/internal/logger"
	"github.com/dvloznov/customer-spending/internal/spending"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	require.NoError(t, err)
	return d
}

func row(t *testing.T, id, customer, merchant, day string, cat domain.TransactionCategory, price string, qty int64) domain.Transaction {
	return domain.Transaction{
		TransactionID:       id,
		CustomerID:          customer,
		MerchantName:        merchant,
		TransactionDate:     mustDate(t, day),
		TransactionCategory: cat,
		TotalPrice:          decimal.RequireFromString(price),
		Quantity:            qty,
		TransactionCard:     "Visa",
		ProductCategory:     "Home",
	}
}

func fixture(t *testing.T) []domain.Transaction {
	return []domain.Transaction{
		row(t, "t1", "A", "M1", "2023-01-05", domain.CategoryPurchase, "1000", 7),
		row(t, "t2", "A", "M2", "2023-02-01", domain.CategoryPurchase, "2000", 9),
		row(t, "t3", "B", "M1", "2023-02-02", domain.CategoryPurchase, "6000", 1),
		row(t, "t4", "C", "M3", "2023-03-01", domain.CategoryPurchase, "8000", 30),
		row(t, "t5", "D", "M1", "2023-03-02", domain.CategoryRefund, "-200", 5),
		row(t, "t6", "Z", "M2", "2023-03-03", domain.CategoryRefund, "-50", 1),
	}
}

func newService(t *testing.T, txs []domain.Transaction, today string) (*dashboard.Service, *inmemory.Source) {
	src := inmemory.NewSource(txs, mustDate(t, today))
	log := logger.NewWithWriter(&bytes.Buffer{})
	return dashboard.NewService(src, log), src
}

func counts(vm *dashboard.ViewModel) []int {
	out := make([]int, 0, len(vm.TierCounts))
	for _, c := range vm.TierCounts {
		out = append(out, c.Count)
	}
	return out
}

func noticeKinds(vm *dashboard.ViewModel) []spending.NoticeKind {
	out := make([]spending.NoticeKind, 0, len(vm.Notices))
	for _, n := range vm.Notices {
		out = append(out, n.Kind)
	}
	return out
}

func TestEvaluate_Unfiltered(t *testing.T) {
	svc, _ := newService(t, fixture(t), "2023-06-30")

	vm, err := svc.Evaluate(context.Background(), domain.FilterCriteria{})
	require.NoError(t, err)

	assert.False(t, vm.Empty)
	assert.Len(t, vm.Transactions, 6)
	assert.Equal(t, []int{1, 1, 1}, counts(vm))
	assert.True(t, decimal.NewFromInt(17000).Equal(vm.TotalSpent))
	assert.Nil(t, vm.Promotion)
	assert.Empty(t, vm.Notices)
	assert.Equal(t, domain.SpendAll, vm.SpendStatus)

	assert.Equal(t, mustDate(t, "2023-01-05"), vm.Criteria.StartDate)
	assert.Equal(t, mustDate(t, "2023-06-30"), vm.Criteria.EndDate)
	assert.Equal(t, []string{domain.All, "A", "B", "C", "D", "Z"}, vm.Options.CustomerIDs)
	assert.Equal(t, mustDate(t, "2023-01-05"), vm.Options.DefaultStartDate)
	assert.Len(t, vm.Charts.Merchants, 3)
}

func TestEvaluate_LowSpendersPromotion(t *testing.T) {
	svc, _ := newService(t, fixture(t), "2023-06-30")

	vm, err := svc.Evaluate(context.Background(), domain.FilterCriteria{SpendStatus: domain.SpendLow})
	require.NoError(t, err)

	// A, D and Z are Low; only A has a positive purchase total.
	assert.Equal(t, []int{0, 0, 1}, counts(vm))
	assert.True(t, decimal.NewFromInt(3000).Equal(vm.TotalSpent))
	require.NotNil(t, vm.Promotion)
	require.True(t, vm.Promotion.Found)
	// M1: 7 (A) + 5 (D) = 12, M2: 9 (A) + 1 (Z) = 10.
	assert.Equal(t, "M1", vm.Promotion.Merchant)
	assert.Contains(t, vm.Promotion.Message, "at M1 over a period of 6 months")
}

func TestEvaluate_PromotionEligibilityUsesGlobalSummary(t *testing.T) {
	// E spends 4000 in January and 4000 in April: High overall, Low within January.
	txs := append(fixture(t),
		row(t, "e1", "E", "M4", "2023-01-10", domain.CategoryPurchase, "4000", 50),
		row(t, "e2", "E", "M4", "2023-04-10", domain.CategoryPurchase, "4000", 1),
	)
	svc, _ := newService(t, txs, "2023-06-30")

	criteria := domain.FilterCriteria{
		StartDate:   mustDate(t, "2023-01-05"),
		EndDate:     mustDate(t, "2023-01-31"),
		SpendStatus: domain.SpendLow,
	}
	vm, err := svc.Evaluate(context.Background(), criteria)
	require.NoError(t, err)

	require.Len(t, vm.Transactions, 1)
	assert.Equal(t, "t1", vm.Transactions[0].TransactionID)
	require.NotNil(t, vm.Promotion)
	assert.Equal(t, "M1", vm.Promotion.Merchant)
}

func TestEvaluate_ClampNotices(t *testing.T) {
	svc, _ := newService(t, fixture(t), "2023-06-30")

	criteria := domain.FilterCriteria{
		StartDate: mustDate(t, "2022-01-01"),
		EndDate:   mustDate(t, "2024-01-01"),
	}
	vm, err := svc.Evaluate(context.Background(), criteria)
	require.NoError(t, err)

	assert.Equal(t, []spending.NoticeKind{spending.NoticeEndDateClamped, spending.NoticeStartDateClamped}, noticeKinds(vm))
	assert.Equal(t, mustDate(t, "2023-01-05"), vm.Criteria.StartDate)
	assert.Equal(t, mustDate(t, "2023-06-30"), vm.Criteria.EndDate)
}

func TestEvaluate_CustomerWithoutPurchases(t *testing.T) {
	svc, _ := newService(t, fixture(t), "2023-06-30")

	vm, err := svc.Evaluate(context.Background(), domain.FilterCriteria{CustomerID: "Z"})
	require.NoError(t, err)

	assert.Equal(t, []spending.NoticeKind{spending.NoticeNoPurchases}, noticeKinds(vm))
	require.Len(t, vm.Transactions, 1)
	assert.Equal(t, domain.CategoryRefund, vm.Transactions[0].TransactionCategory)
	assert.True(t, vm.TotalSpent.IsZero())
	assert.Equal(t, []int{0, 0, 0}, counts(vm))
}

func TestEvaluate_EmptyResult(t *testing.T) {
	svc, _ := newService(t, fixture(t), "2023-06-30")

	criteria := domain.FilterCriteria{CustomerID: "C", SpendStatus: domain.SpendLow}
	vm, err := svc.Evaluate(context.Background(), criteria)
	require.NoError(t, err)

	assert.True(t, vm.Empty)
	assert.Empty(t, vm.Transactions)
	assert.Equal(t, []spending.NoticeKind{spending.NoticeNoLowSpenders, spending.NoticeNoData}, noticeKinds(vm))
	require.NotNil(t, vm.Promotion)
	assert.False(t, vm.Promotion.Found)
}

func TestEvaluate_EmptyDataset(t *testing.T) {
	svc, _ := newService(t, nil, "2023-06-30")

	vm, err := svc.Evaluate(context.Background(), domain.FilterCriteria{})
	require.NoError(t, err)

	assert.True(t, vm.Empty)
	assert.Equal(t, []int{0, 0, 0}, counts(vm))
	assert.Equal(t, []string{domain.All}, vm.Options.CustomerIDs)
}

func TestEvaluate_ResolvesTodayOncePerCall(t *testing.T) {
	svc, src := newService(t, fixture(t), "2023-03-01")

	vm, err := svc.Evaluate(context.Background(), domain.FilterCriteria{})
	require.NoError(t, err)
	assert.Equal(t, mustDate(t, "2023-03-01"), vm.Criteria.EndDate)
	assert.Len(t, vm.Transactions, 4)

	src.SetToday(mustDate(t, "2023-06-30"))

	vm, err = svc.Evaluate(context.Background(), domain.FilterCriteria{})
	require.NoError(t, err)
	assert.Equal(t, mustDate(t, "2023-06-30"), vm.Criteria.EndDate)
	assert.Len(t, vm.Transactions, 6)
}

func TestEvaluate_SourceFailure(t *testing.T) {
	svc, src := newService(t, fixture(t), "2023-06-30")
	boom := errors.New("warehouse unreachable")
	src.WithError(boom)

	vm, err := svc.Evaluate(context.Background(), domain.FilterCriteria{})
	assert.Nil(t, vm)
	assert.ErrorIs(t, err, boom)
}

func TestCustomerIDs(t *testing.T) {
	svc, _ := newService(t, fixture(t), "2023-06-30")

	ids, err := svc.CustomerIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D", "Z"}, ids)
}
