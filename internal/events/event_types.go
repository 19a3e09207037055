package events

import (
	"time"

	"github.com/spec-kit/farmstore-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAssignmentClaimed     EventType = "assignment_claimed"
	EventAssignmentCompleted   EventType = "assignment_completed"
	EventTransferProposed      EventType = "transfer_proposed"
	EventTransferAccepted      EventType = "transfer_accepted"
	EventTransferRejected      EventType = "transfer_rejected"
	EventOrderStatusAdvanced   EventType = "order_status_advanced"
	EventOrderStatusOverridden EventType = "order_status_overridden"
	EventPaymentSubmitted      EventType = "payment_submitted"
	EventPaymentModerated      EventType = "payment_moderated"
)

// AllEventTypes lists every type a catch-all subscriber should receive.
func AllEventTypes() []EventType {
	return []EventType{
		EventAssignmentClaimed,
		EventAssignmentCompleted,
		EventTransferProposed,
		EventTransferAccepted,
		EventTransferRejected,
		EventOrderStatusAdvanced,
		EventOrderStatusOverridden,
		EventPaymentSubmitted,
		EventPaymentModerated,
	}
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role      domain.Role `json:"role"`
	StaffCode string      `json:"staffCode,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	OrderNumber string    `json:"orderNumber,omitempty"`
	Actor       Actor     `json:"actor"`
	Timestamp   time.Time `json:"timestamp"`
	Payload     any       `json:"payload"`
}

// AssignmentPayload accompanies claim and completion events.
type AssignmentPayload struct {
	AssignmentID string `json:"assignmentId"`
	StaffCode    string `json:"staffCode"`
	AutoComplete bool   `json:"autoComplete,omitempty"`
}

// TransferPayload accompanies transfer lifecycle events.
type TransferPayload struct {
	TransferID string                `json:"transferId"`
	FromStaff  string                `json:"fromStaff"`
	ToStaff    string                `json:"toStaff"`
	Status     domain.TransferStatus `json:"status"`
}

// StatusChangedPayload accompanies order status changes.
type StatusChangedPayload struct {
	PrevStatus domain.OrderStatus `json:"prevStatus"`
	NewStatus  domain.OrderStatus `json:"newStatus"`
}

// PaymentPayload accompanies payment submission and moderation.
type PaymentPayload struct {
	PaymentID string               `json:"paymentId"`
	Status    domain.PaymentStatus `json:"status"`
	Method    domain.PaymentMethod `json:"method,omitempty"`
}
