package domain

import "time"

// PaymentMethod enumerates how the customer says they paid.
type PaymentMethod string

const (
	PaymentQR      PaymentMethod = "qr"
	PaymentUPI     PaymentMethod = "upi"
	PaymentCard    PaymentMethod = "card"
	PaymentUnknown PaymentMethod = "unknown"
)

// PaymentStatus enumerates moderation states of a payment proof.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// Payment is a customer-uploaded proof of payment awaiting moderation.
type Payment struct {
	ID            string        `json:"id"`
	OrderNumber   string        `json:"orderNumber"`
	CustomerName  string        `json:"customerName"`
	CustomerPhone string        `json:"customerPhone"`
	Amount        *float64      `json:"amount,omitempty"`
	Method        PaymentMethod `json:"method"`
	ProofURL      string        `json:"proofUrl"`
	Status        PaymentStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
