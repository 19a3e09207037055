package domain

import "time"

// TransferStatus enumerates transfer request states. Accepted and rejected are terminal.
type TransferStatus string

const (
	TransferPending  TransferStatus = "pending"
	TransferAccepted TransferStatus = "accepted"
	TransferRejected TransferStatus = "rejected"
)

// TransferRequest proposes moving an order from one staff member to another.
type TransferRequest struct {
	ID          string         `json:"id"`
	OrderNumber string         `json:"orderNumber"`
	FromStaff   string         `json:"fromStaff"`
	ToStaff     string         `json:"toStaff"`
	Status      TransferStatus `json:"status"`
	DecidedAt   *time.Time     `json:"decidedAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// IsPending reports whether the request is still awaiting a decision.
func (t TransferRequest) IsPending() bool {
	return t.Status == TransferPending
}
