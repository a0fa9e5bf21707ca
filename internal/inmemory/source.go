package inmemory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/customer-spending/internal/domain"
)

// Source is an in-memory implementation of dashboard.DataSource.
// It is safe for concurrent use and returns copies so callers cannot modify
// the stored rows.
type Source struct {
	mu    sync.RWMutex
	rows  []domain.Transaction
	today civil.Date
	err   error
}

// NewSource creates a source over rows with a fixed current date.
func NewSource(rows []domain.Transaction, today civil.Date) *Source {
	s := &Source{today: today}
	s.SetTransactions(rows)
	return s
}

// fixture is the on-disk layout read by LoadFile.
type fixture struct {
	Today        civil.Date           `json:"today"`
	Transactions []domain.Transaction `json:"transactions"`
}

// LoadFile reads a JSON fixture with "today" and "transactions" keys.
// When today is omitted the local date is used.
func LoadFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadFile: read %q: %w", path, err)
	}

	var f fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("LoadFile: decode %q: %w", path, err)
	}
	if f.Today.IsZero() {
		f.Today = civil.DateOf(timeNow())
	}

	return NewSource(f.Transactions, f.Today), nil
}

// SetTransactions replaces the stored rows.
func (s *Source) SetTransactions(rows []domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = make([]domain.Transaction, len(rows))
	copy(s.rows, rows)
}

// SetToday changes the date returned by Today.
func (s *Source) SetToday(d civil.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.today = d
}

// WithError makes subsequent calls fail with err. Pass nil to clear it.
func (s *Source) WithError(err error) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return s
}

// Fetch implements dashboard.DataSource.
func (s *Source) Fetch(ctx context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	out := make([]domain.Transaction, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// Today implements dashboard.DataSource.
func (s *Source) Today(ctx context.Context) (civil.Date, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return civil.Date{}, s.err
	}
	return s.today, nil
}
