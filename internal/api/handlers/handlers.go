package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dvloznov/customer-spending/internal/api/middleware"
	"github.com/dvloznov/customer-spending/internal/dashboard"
	"github.com/dvloznov/customer-spending/internal/domain"
	"github.com/rs/zerolog"
)

// Evaluator is the dashboard behaviour the handlers depend on.
type Evaluator interface {
	Evaluate(ctx context.Context, criteria domain.FilterCriteria) (*dashboard.ViewModel, error)
	CustomerIDs(ctx context.Context) ([]string, error)
}

// DashboardHandler handles dashboard endpoints.
type DashboardHandler struct {
	svc Evaluator
	log zerolog.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(svc Evaluator, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		svc: svc,
		log: log,
	}
}

// GetDashboard handles GET /api/dashboard
//
// Query parameters: spend_status, start_date, end_date (YYYY-MM-DD),
// customer_id, transaction_category. Every call is a fresh evaluation.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	criteria, err := ParseCriteria(r.URL.Query())
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	vm, err := h.svc.Evaluate(r.Context(), criteria)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to evaluate dashboard")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to evaluate dashboard")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, vm)
}

// ListCustomers handles GET /api/customers
func (h *DashboardHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.CustomerIDs(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list customers")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list customers")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"customers": ids,
		"count":     len(ids),
	})
}

// ParseCriteria builds filter criteria from query parameters.
func ParseCriteria(q url.Values) (domain.FilterCriteria, error) {
	return dashboard.CriteriaInput{
		SpendStatus:         q.Get("spend_status"),
		StartDate:           q.Get("start_date"),
		EndDate:             q.Get("end_date"),
		CustomerID:          q.Get("customer_id"),
		TransactionCategory: q.Get("transaction_category"),
	}.Criteria()
}
