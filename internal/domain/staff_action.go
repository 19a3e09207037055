package domain

import "time"

// StaffOrderAction is an immutable audit entry for a staff status change.
type StaffOrderAction struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"orderNumber"`
	OrderID     *string     `json:"orderId,omitempty"`
	PrevStatus  OrderStatus `json:"prevStatus"`
	NewStatus   OrderStatus `json:"newStatus"`
	StaffCode   string      `json:"staffCode"`
	CreatedAt   time.Time   `json:"createdAt"`
}
