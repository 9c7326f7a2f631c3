package contracts

import "github.com/shopspring/decimal"

type SuccessResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type WebhookAckResponse struct {
	TransactionID         string `json:"transaction_id"`
	ExternalTransactionID string `json:"external_transaction_id"`
	Status                string `json:"status"`
	Created               bool   `json:"created"`
}

type RecordClickRequest struct {
	StoreID string `json:"store_id"`
}

type RecordClickResponse struct {
	ClickID     string `json:"click_id"`
	StoreID     string `json:"store_id"`
	TrackingURL string `json:"tracking_url"`
}

type AdminSessionResponse struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

type UpdateStoreRequest struct {
	CashbackRate decimal.NullDecimal `json:"cashback_rate"`
}

type SyncReportResponse struct {
	Network   string `json:"network"`
	Fetched   int    `json:"fetched"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
	Skipped   bool   `json:"skipped"`
}
