package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusPending, OrderStatusAssigned, true},
		{OrderStatusPending, OrderStatusCompleted, true},
		{OrderStatusAssigned, OrderStatusInProgress, true},
		{OrderStatusInProgress, OrderStatusCancelled, true},
		{OrderStatusInProgress, OrderStatusPending, false},
		{OrderStatusAssigned, OrderStatusAssigned, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusCompleted, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus(" completed ")
	require.NoError(t, err)
	require.Equal(t, OrderStatusCompleted, status)

	_, err = ParseOrderStatus("shipped")
	require.Error(t, err)
}

func TestParseSimpleEnums(t *testing.T) {
	period, err := ParseSummaryPeriod("weekly")
	require.NoError(t, err)
	require.Equal(t, SummaryPeriodWeekly, period)

	_, err = ParseExpenseType("travel")
	require.Error(t, err)

	require.True(t, RemittanceStatusPaid.IsValid())
	require.False(t, WarehouseStatus("closed").IsValid())
}
