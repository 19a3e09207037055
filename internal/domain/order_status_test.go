package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusIndexOrdering(t *testing.T) {
	flow := StatusFlow()
	for i, st := range flow {
		assert.Equal(t, i, st.Index(), st)
	}
	assert.Equal(t, 4, OrderStatusConfirmed.Index())
	assert.Equal(t, 5, OrderStatusShipped.Index())
	assert.Equal(t, NoProgress, OrderStatusRejected.Index())
	assert.Equal(t, NoProgress, OrderStatus("bogus").Index())
}

func TestStatusFlowReturnsCopy(t *testing.T) {
	flow := StatusFlow()
	flow[0] = "mutated"
	assert.Equal(t, OrderStatusPending, StatusFlow()[0])
}

func TestParseOrderStatus(t *testing.T) {
	st, ok := ParseOrderStatus("  Out_For_Delivery ")
	assert.True(t, ok)
	assert.Equal(t, OrderStatusOutForDelivery, st)

	st, ok = ParseOrderStatus("rejected")
	assert.True(t, ok)
	assert.False(t, st.InFlow())

	_, ok = ParseOrderStatus("lost")
	assert.False(t, ok)
}

func TestEffectiveProgress(t *testing.T) {
	tests := []struct {
		name    string
		current OrderStatus
		latest  *StaffOrderAction
		want    int
	}{
		{"no log uses order", OrderStatusPaid, nil, 3},
		{"log ahead of order", OrderStatusPending, &StaffOrderAction{NewStatus: OrderStatusShipped}, 5},
		{"order ahead of log", OrderStatusDelivered, &StaffOrderAction{NewStatus: OrderStatusConfirmed}, 8},
		{"reverted order keeps log progress", OrderStatusPending, &StaffOrderAction{NewStatus: OrderStatusConfirmed}, 4},
		{"legacy status and no log", OrderStatusRejected, nil, NoProgress},
		{"unknown status with log", OrderStatus(""), &StaffOrderAction{NewStatus: OrderStatusPaid}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveProgress(tt.current, tt.latest))
		})
	}
}

func TestCanAdvance(t *testing.T) {
	progress := OrderStatusConfirmed.Index()
	assert.False(t, CanAdvance(progress, OrderStatusPending))
	assert.False(t, CanAdvance(progress, OrderStatusConfirmed))
	assert.True(t, CanAdvance(progress, OrderStatusShipped))
	assert.True(t, CanAdvance(progress, OrderStatusDelivered))
	assert.False(t, CanAdvance(NoProgress, OrderStatusRejected))
	assert.True(t, CanAdvance(NoProgress, OrderStatusPending))
}

func TestAllowedTargets(t *testing.T) {
	assert.Equal(t, []OrderStatus{OrderStatusCustomerRejected, OrderStatusDelivered},
		AllowedTargets(OrderStatusOutForDelivery.Index()))
	assert.Empty(t, AllowedTargets(OrderStatusDelivered.Index()))
	assert.Len(t, AllowedTargets(NoProgress), 9)
}

func TestStatusAt(t *testing.T) {
	assert.Equal(t, OrderStatusPaid, StatusAt(3))
	assert.Equal(t, OrderStatus(""), StatusAt(NoProgress))
	assert.Equal(t, OrderStatus(""), StatusAt(42))
}
