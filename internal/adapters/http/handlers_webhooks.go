package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/veeraceo-pixel/cashback/internal/adapters/metrics"
	"github.com/veeraceo-pixel/cashback/internal/contracts"
	"github.com/veeraceo-pixel/cashback/internal/domain"
)

const (
	maxWebhookBodyBytes    = 1 << 20
	genericSignatureHeader = "X-Webhook-Signature"
)

// receiveWebhook hands the raw body to the reconciler untouched; the signature
// covers the exact bytes the network sent.
func (h *Handler) receiveWebhook(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	kind, err := domain.ParseNetworkKind(chi.URLParam(r, "network"))
	if err != nil {
		metrics.ObserveIngest("unknown", started, err)
		h.writeDomainError(w, r, "receive_webhook", err)
		return
	}
	header, err := h.service.SignatureHeader(kind)
	if err != nil {
		metrics.ObserveIngest(string(kind), started, err)
		h.writeDomainError(w, r, "receive_webhook", err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "webhook body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "MALFORMED_PAYLOAD", "unable to read body")
		return
	}

	signature := r.Header.Get(header)
	if signature == "" {
		signature = r.Header.Get(genericSignatureHeader)
	}
	res, err := h.service.Ingest(r.Context(), kind, body, signature)
	metrics.ObserveIngest(string(kind), started, err)
	if err != nil {
		h.writeDomainError(w, r, "receive_webhook", err)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.WebhookAckResponse{
		TransactionID:         res.TransactionID.String(),
		ExternalTransactionID: res.ExternalTransactionID,
		Status:                string(res.Status),
		Created:               res.Created,
	})
}
