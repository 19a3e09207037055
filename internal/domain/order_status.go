package domain

import "strings"

// OrderStatus enumerates fulfilment states of an order.
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "pending"
	OrderStatusAdminRejected    OrderStatus = "admin_rejected"
	OrderStatusOutOfStock       OrderStatus = "out_of_stock"
	OrderStatusPaid             OrderStatus = "paid"
	OrderStatusConfirmed        OrderStatus = "confirmed"
	OrderStatusShipped          OrderStatus = "shipped"
	OrderStatusOutForDelivery   OrderStatus = "out_for_delivery"
	OrderStatusCustomerRejected OrderStatus = "customer_rejected"
	OrderStatusDelivered        OrderStatus = "delivered"

	// OrderStatusRejected predates the flow. It is accepted from storage and
	// from admins but never as a staff target.
	OrderStatusRejected OrderStatus = "rejected"
)

// NoProgress is the progress index of an order nobody has moved into the flow.
const NoProgress = -1

var statusFlow = []OrderStatus{
	OrderStatusPending,
	OrderStatusAdminRejected,
	OrderStatusOutOfStock,
	OrderStatusPaid,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusCustomerRejected,
	OrderStatusDelivered,
}

// StatusFlow returns the forward-only sequence, lowest index first.
func StatusFlow() []OrderStatus {
	out := make([]OrderStatus, len(statusFlow))
	copy(out, statusFlow)
	return out
}

// ParseOrderStatus normalizes raw and reports whether it names a known status.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if status == OrderStatusRejected || status.Index() != NoProgress {
		return status, true
	}
	return status, false
}

// Index returns the position of s in the flow, or NoProgress when s is not part of it.
func (s OrderStatus) Index() int {
	for i, st := range statusFlow {
		if st == s {
			return i
		}
	}
	return NoProgress
}

// InFlow reports whether s is a valid staff transition target.
func (s OrderStatus) InFlow() bool {
	return s.Index() != NoProgress
}

// EffectiveProgress is the furthest point the order has reached according to
// either the order record or the latest staff action. Either source alone can
// be edited out of band, so both are consulted.
func EffectiveProgress(current OrderStatus, latest *StaffOrderAction) int {
	progress := current.Index()
	if latest != nil {
		if idx := latest.NewStatus.Index(); idx > progress {
			progress = idx
		}
	}
	return progress
}

// CanAdvance reports whether a staff move to target is legal at progress.
// Skipping forward is allowed; staying put or moving back is not.
func CanAdvance(progress int, target OrderStatus) bool {
	idx := target.Index()
	if idx == NoProgress {
		return false
	}
	return idx > progress
}

// AllowedTargets lists the statuses a staff member may move to from progress.
func AllowedTargets(progress int) []OrderStatus {
	var out []OrderStatus
	for i, st := range statusFlow {
		if i > progress {
			out = append(out, st)
		}
	}
	return out
}

// StatusAt returns the flow status at idx, or empty when idx is out of range.
func StatusAt(idx int) OrderStatus {
	if idx < 0 || idx >= len(statusFlow) {
		return ""
	}
	return statusFlow[idx]
}
