package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/veeraceo-pixel/cashback/internal/application"
	"github.com/veeraceo-pixel/cashback/internal/contracts"
)

func (h *Handler) adminSession(w http.ResponseWriter, r *http.Request) {
	session := adminFromContext(r.Context())
	writeSuccess(w, http.StatusOK, contracts.AdminSessionResponse{
		UserID:  session.UserID.String(),
		Email:   session.Email,
		IsAdmin: true,
	})
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := optionalInt(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be an integer")
		return
	}
	offset, err := optionalInt(q.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "offset must be an integer")
		return
	}
	rows, err := h.service.ListTransactions(r.Context(), adminFromContext(r.Context()), application.ListTransactionsInput{
		Status:  q.Get("status"),
		StoreID: q.Get("store_id"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		h.writeDomainError(w, r, "list_transactions", err)
		return
	}
	writeSuccess(w, http.StatusOK, rows)
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	store, err := h.service.GetStore(r.Context(), adminFromContext(r.Context()), chi.URLParam(r, "store_id"))
	if err != nil {
		h.writeDomainError(w, r, "get_store", err)
		return
	}
	writeSuccess(w, http.StatusOK, store)
}

func (h *Handler) updateStore(w http.ResponseWriter, r *http.Request) {
	var req contracts.UpdateStoreRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	if !req.CashbackRate.Valid {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "cashback_rate is required")
		return
	}
	store, err := h.service.UpdateStoreCashbackRate(r.Context(), adminFromContext(r.Context()), application.UpdateStoreInput{
		StoreID:      chi.URLParam(r, "store_id"),
		CashbackRate: req.CashbackRate.Decimal,
	})
	if err != nil {
		h.writeDomainError(w, r, "update_store", err)
		return
	}
	writeSuccess(w, http.StatusOK, store)
}

func (h *Handler) triggerSync(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.TriggerSync(r.Context(), adminFromContext(r.Context()), chi.URLParam(r, "network"))
	if err != nil {
		h.writeDomainError(w, r, "trigger_sync", err)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.SyncReportResponse{
		Network:   string(report.Network),
		Fetched:   report.Fetched,
		Processed: report.Processed,
		Failed:    report.Failed,
		Skipped:   report.Skipped,
	})
}

func optionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
