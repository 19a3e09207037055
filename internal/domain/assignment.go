package domain

import "time"

// AssignmentStatus enumerates ledger row states.
type AssignmentStatus string

const (
	AssignmentActive    AssignmentStatus = "active"
	AssignmentCompleted AssignmentStatus = "completed"
)

// StaffAssignment records which staff member currently owns an order.
type StaffAssignment struct {
	ID          string           `json:"id"`
	OrderNumber string           `json:"orderNumber"`
	OrderID     *string          `json:"orderId,omitempty"`
	StaffCode   string           `json:"staffCode"`
	Status      AssignmentStatus `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}
