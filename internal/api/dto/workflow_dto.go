package dto

// ClaimRequest payload for POST /api/staff/assign.
type ClaimRequest struct {
	OrderNumber string  `json:"orderNumber"`
	OrderID     *string `json:"orderId"`
}

// CompleteRequest payload for POST /api/staff/complete.
type CompleteRequest struct {
	OrderNumber string `json:"orderNumber"`
}

// TransferCreateRequest payload for POST /api/staff/transfers.
type TransferCreateRequest struct {
	OrderNumber string `json:"orderNumber"`
	ToStaff     string `json:"toStaff"`
}

// StatusActionRequest payload for POST /api/staff-actions.
type StatusActionRequest struct {
	OrderNumber string  `json:"orderNumber"`
	OrderID     *string `json:"orderId"`
	PrevStatus  string  `json:"prevStatus"`
	NewStatus   string  `json:"newStatus"`
}

// StatusOverrideRequest payload for the admin status override.
type StatusOverrideRequest struct {
	Status string `json:"status"`
}
