package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/finwise/finance-service/internal/models"
	"github.com/finwise/finance-service/internal/service"
)

// Handler exposes the service over HTTP
type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

// NewHandler initializes a new handler
func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

type expenseRequest struct {
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// CreateExpense handles expense creation
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	e, err := h.svc.CreateExpense(req.Amount, req.Currency, req.Category, req.Description, req.Date)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, e)
}

// ListExpenses handles expense listing
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.svc.ListExpenses()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, expenses)
}

// UpdateExpense handles expense updates
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var e models.ExpenseRecord
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	e.ID = mux.Vars(r)["id"]
	if err := h.svc.UpdateExpense(&e); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, http.StatusOK, e)
}

// DeleteExpense handles expense deletion
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteExpense(mux.Vars(r)["id"]); err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type incomeRequest struct {
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	Category   string    `json:"category"`
	Status     string    `json:"status"`
	Recurrence string    `json:"recurrence"`
	Date       time.Time `json:"date"`
}

// CreateIncome handles income creation
func (h *Handler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	in, err := h.svc.CreateIncome(req.Amount, req.Currency, req.Category, req.Status, req.Recurrence, req.Date)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, in)
}

// ListIncomes handles income listing
func (h *Handler) ListIncomes(w http.ResponseWriter, r *http.Request) {
	incomes, err := h.svc.ListIncomes()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, incomes)
}

// UpdateIncome handles income updates
func (h *Handler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	var in models.IncomeRecord
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	in.ID = mux.Vars(r)["id"]
	if err := h.svc.UpdateIncome(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, http.StatusOK, in)
}

// DeleteIncome handles income deletion
func (h *Handler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteIncome(mux.Vars(r)["id"]); err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateParticipant handles participant registration
func (h *Handler) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := h.svc.CreateParticipant(req.Name)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, p)
}

// ListParticipants handles participant listing
func (h *Handler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.svc.ListParticipants()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, participants)
}

// DeleteParticipant handles participant removal
func (h *Handler) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteParticipant(mux.Vars(r)["id"]); err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateSplitBill handles shared bill creation
func (h *Handler) CreateSplitBill(w http.ResponseWriter, r *http.Request) {
	var b models.SplitBill
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	created, err := h.svc.CreateSplitBill(&b)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// ListSplitBills handles bill listing
func (h *Handler) ListSplitBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.svc.ListSplitBills()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bills)
}

// SettleBill marks a bill settled
func (h *Handler) SettleBill(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.SettleBill(id); err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "settled"})
}

// DeleteSplitBill handles bill deletion
func (h *Handler) DeleteSplitBill(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSplitBill(mux.Vars(r)["id"]); err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResolveSettlements computes payment instructions for all active bills
func (h *Handler) ResolveSettlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := h.svc.ResolveSettlements()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if settlements == nil {
		settlements = []models.Settlement{}
	}
	h.writeJSON(w, http.StatusOK, settlements)
}

type budgetPlanRequest struct {
	Month  string                  `json:"month"`
	Income float64                 `json:"income"`
	Policy models.BucketPercentMap `json:"policy,omitempty"`
}

// CreateBudgetPlan allocates a month's income into buckets
func (h *Handler) CreateBudgetPlan(w http.ResponseWriter, r *http.Request) {
	var req budgetPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	plan, err := h.svc.CreateBudgetPlan(req.Month, req.Income, req.Policy)
	if err != nil {
		h.writeError(w, http.StatusConflict, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, plan)
}

// GetBudgetPlan retrieves the plan for a month
func (h *Handler) GetBudgetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.svc.GetBudgetPlan(mux.Vars(r)["month"])
	if err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}
	h.writeJSON(w, http.StatusOK, plan)
}

// ListPlanMonths retrieves the months with a plan
func (h *Handler) ListPlanMonths(w http.ResponseWriter, r *http.Request) {
	months, err := h.svc.ListPlanMonths()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if months == nil {
		months = []string{}
	}
	h.writeJSON(w, http.StatusOK, months)
}

type budgetTransactionRequest struct {
	Bucket      models.BudgetBucketType `json:"bucket"`
	Category    string                  `json:"category"`
	Amount      float64                 `json:"amount"`
	Description string                  `json:"description"`
}

// LogBudgetTransaction records a spend against a bucket
func (h *Handler) LogBudgetTransaction(w http.ResponseWriter, r *http.Request) {
	var req budgetTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	plan, err := h.svc.LogBudgetTransaction(mux.Vars(r)["month"], req.Bucket, req.Category, req.Amount, req.Description)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, http.StatusOK, plan)
}

// InsightReport runs the analytics suite over the current ledger. An optional
// balance query parameter overrides the derived cash position.
func (h *Handler) InsightReport(w http.ResponseWriter, r *http.Request) {
	var balanceOverride *float64
	if raw := r.URL.Query().Get("balance"); raw != "" {
		balance, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err)
			return
		}
		balanceOverride = &balance
	}

	report, err := h.svc.InsightReport(balanceOverride, time.Now())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}
