package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusCanTransitionTo(t *testing.T) {
	all := []OrderStatus{OrderStatusPending, OrderStatusPaid, OrderStatusCancelled, OrderStatusRefunded, OrderStatusExpired}
	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled, OrderStatusExpired},
		OrderStatusPaid:    {OrderStatusRefunded},
		OrderStatusExpired: {OrderStatusPaid},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusCancelled, OrderStatusRefunded} {
		assert.Empty(t, transitions[s], s.Display())
	}
	assert.Equal(t, "已过期", OrderStatusExpired.Display())
}
