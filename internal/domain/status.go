package domain

import "strings"

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusConfirmed TransactionStatus = "confirmed"
	StatusCancelled TransactionStatus = "cancelled"
)

// Canonical network statuses produced by the per-network parsers.
const (
	NetworkStatusApproved = "approved"
	NetworkStatusDeclined = "declined"
	NetworkStatusPending  = "pending"
)

// MapNetworkStatus is total: anything other than approved or declined is pending.
func MapNetworkStatus(networkStatus string) TransactionStatus {
	switch strings.ToLower(strings.TrimSpace(networkStatus)) {
	case NetworkStatusApproved:
		return StatusConfirmed
	case NetworkStatusDeclined:
		return StatusCancelled
	default:
		return StatusPending
	}
}

func ParseTransactionStatus(raw string) (TransactionStatus, error) {
	switch status := TransactionStatus(strings.ToLower(strings.TrimSpace(raw))); status {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return status, nil
	default:
		return "", ErrInvalidInput
	}
}
