package http

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"expensez/internal/domain/transaction"
	"expensez/internal/shared/middleware"
)

type TransactionHandler struct {
	service *transaction.Service
}

func NewTransactionHandler(service *transaction.Service) *TransactionHandler {
	return &TransactionHandler{service: service}
}

type createTransactionRequest struct {
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Note     string  `json:"note"`
}

type updateTransactionRequest struct {
	Amount   *float64 `json:"amount"`
	Type     *string  `json:"type"`
	Category *string  `json:"category"`
	Date     *string  `json:"date"`
	Note     *string  `json:"note"`
}

// HandleList returns one page of the user's transactions, filtered by the
// type/category/startDate/endDate query parameters.
func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "limit", 10)

	result, err := h.service.List(r.Context(), userID, filter, page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success":     true,
		"count":       result.Count,
		"total":       result.Total,
		"totalPages":  result.TotalPages,
		"currentPage": result.CurrentPage,
		"data":        result.Items,
	})
}

func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req createTransactionRequest
	if err := decodeStrict(r, &req); err != nil {
		log.Printf("Error decoding create transaction request: %v", err)
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date format")
			return
		}
		date = parsed
	}

	t, err := h.service.Create(r.Context(), userID, transaction.CreateParams{
		Amount:   req.Amount,
		Type:     req.Type,
		Category: req.Category,
		Date:     date,
		Note:     req.Note,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusCreated, t)
}

func (h *TransactionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	t, err := h.service.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, t)
}

func (h *TransactionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req updateTransactionRequest
	if err := decodeStrict(r, &req); err != nil {
		log.Printf("Error decoding update transaction request: %v", err)
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	params := transaction.UpdateParams{
		Amount:   req.Amount,
		Type:     req.Type,
		Category: req.Category,
		Note:     req.Note,
	}
	if req.Date != nil {
		parsed, err := parseDate(*req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date format")
			return
		}
		params.Date = &parsed
	}

	t, err := h.service.Update(r.Context(), userID, r.PathValue("id"), params)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, t)
}

func (h *TransactionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	if err := h.service.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		respondServiceError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Transaction deleted")
}

// HandleSummary returns income/expense/balance totals, optionally windowed by
// startDate/endDate.
func (h *TransactionHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.service.Summary(r.Context(), userID, filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, envelope{
		"income":  summary.Income,
		"expense": summary.Expense,
		"balance": summary.Balance,
	})
}

func parseFilter(r *http.Request) (transaction.Filter, error) {
	filter := transaction.Filter{
		Type:     r.URL.Query().Get("type"),
		Category: r.URL.Query().Get("category"),
	}

	if raw := r.URL.Query().Get("startDate"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return filter, &queryError{"Invalid startDate format"}
		}
		filter.StartDate = &parsed
	}
	if raw := r.URL.Query().Get("endDate"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return filter, &queryError{"Invalid endDate format"}
		}
		filter.EndDate = &parsed
	}

	return filter, nil
}

type queryError struct {
	message string
}

func (e *queryError) Error() string { return e.message }

// parseDate accepts both date-only and RFC 3339 timestamps, since clients
// send either depending on the widget used.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
