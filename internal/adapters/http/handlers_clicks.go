package http

import (
	"encoding/json"
	"net/http"

	"github.com/veeraceo-pixel/cashback/internal/contracts"
)

func (h *Handler) recordClick(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	var req contracts.RecordClickRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	res, err := h.service.RecordClick(r.Context(), identity.UserID, req.StoreID)
	if err != nil {
		h.writeDomainError(w, r, "record_click", err)
		return
	}
	writeSuccess(w, http.StatusCreated, contracts.RecordClickResponse{
		ClickID:     res.Click.ClickID,
		StoreID:     res.Click.StoreID.String(),
		TrackingURL: res.TrackingURL,
	})
}
