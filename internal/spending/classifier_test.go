package spending

import (
	"testing"

	"github.com/dvloznov/customer-spending/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor_Boundaries(t *testing.T) {
	tests := []struct {
		total string
		want  domain.SpendStatus
	}{
		{"-200", domain.SpendLow},
		{"0", domain.SpendLow},
		{"4999.99", domain.SpendLow},
		{"5000", domain.SpendMedium},
		{"5000.00", domain.SpendMedium},
		{"6999.99", domain.SpendMedium},
		{"7000", domain.SpendHigh},
		{"125000.50", domain.SpendHigh},
	}

	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(money(tt.total)))
		})
	}
}

func TestClassify_Scenario(t *testing.T) {
	got := Classify(scenarioDataset())
	require.Len(t, got, 4)

	want := map[string]struct {
		total  string
		status domain.SpendStatus
	}{
		"A": {"3000", domain.SpendLow},
		"B": {"6000", domain.SpendMedium},
		"C": {"8000", domain.SpendHigh},
		"D": {"0", domain.SpendLow},
	}

	for _, s := range got {
		w, ok := want[s.CustomerID]
		require.True(t, ok, "unexpected customer %s", s.CustomerID)
		assert.True(t, money(w.total).Equal(s.TotalPrice), "customer %s total = %s, want %s", s.CustomerID, s.TotalPrice, w.total)
		assert.Equal(t, w.status, s.SpendStatus, "customer %s", s.CustomerID)
	}
}

func TestClassify_RefundsExcludedFromSum(t *testing.T) {
	txs := []domain.Transaction{
		purchase("t1", "A", "5200"),
		refund("t2", "A", "-400"),
	}

	got := Classify(txs)
	require.Len(t, got, 1)
	assert.True(t, money("5200").Equal(got[0].TotalPrice))
	assert.Equal(t, domain.SpendMedium, got[0].SpendStatus)
}

func TestClassify_Empty(t *testing.T) {
	got := Classify(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestClassify_Idempotent(t *testing.T) {
	txs := scenarioDataset()
	first := Classify(txs)
	second := Classify(txs)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].CustomerID, second[i].CustomerID)
		assert.True(t, first[i].TotalPrice.Equal(second[i].TotalPrice))
		assert.Equal(t, first[i].SpendStatus, second[i].SpendStatus)
	}
}

func TestClassify_SortedByCustomer(t *testing.T) {
	got := Classify([]domain.Transaction{
		purchase("t1", "zed", "1"),
		purchase("t2", "amy", "1"),
		purchase("t3", "kim", "1"),
	})
	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.CustomerID)
	}
	assert.Equal(t, []string{"amy", "kim", "zed"}, ids)
}

func TestLookup(t *testing.T) {
	summaries := Classify(scenarioDataset())

	s, ok := Lookup(summaries, "B")
	require.True(t, ok)
	assert.Equal(t, domain.SpendMedium, s.SpendStatus)

	_, ok = Lookup(summaries, "Z")
	assert.False(t, ok)
}
