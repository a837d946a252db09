package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext_AllowedEdges(t *testing.T) {
	tests := []struct {
		name string
		from Status
		trig Trigger
		want Status
	}{
		{"payment confirmed releases order", StatusAwaitingPayment, TriggerPaymentConfirmed, StatusPending},
		{"kitchen accepts", StatusPending, TriggerKitchenAccept, StatusCooking},
		{"kitchen rejects", StatusPending, TriggerKitchenReject, StatusCancelled},
		{"staff verifies pending payment", StatusPendingPayment, TriggerPaymentVerified, StatusCooking},
		{"staff verifies legacy waiting", StatusWaiting, TriggerPaymentVerified, StatusCooking},
		{"staff verifies credit payment", StatusCreditPending, TriggerPaymentVerified, StatusPaid},
		{"kitchen marks done", StatusCooking, TriggerKitchenDone, StatusCompleted},
		{"cancel awaiting payment", StatusAwaitingPayment, TriggerCancel, StatusCancelled},
		{"cancel cooking", StatusCooking, TriggerCancel, StatusCancelled},
		{"cancel paid", StatusPaid, TriggerCancel, StatusCancelled},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Next(tc.from, tc.trig)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNext_RejectedRequestsLeaveStatusUnchanged(t *testing.T) {
	tests := []struct {
		name string
		from Status
		trig Trigger
	}{
		{"cook a completed order", StatusCompleted, TriggerKitchenAccept},
		{"complete from pending", StatusPending, TriggerKitchenDone},
		{"confirm payment on cooking order", StatusCooking, TriggerPaymentConfirmed},
		{"accept an unpaid order", StatusAwaitingPayment, TriggerKitchenAccept},
		{"cancel a cancelled order", StatusCancelled, TriggerCancel},
		{"cancel a completed order", StatusCompleted, TriggerCancel},
		{"verify a cash order", StatusPending, TriggerPaymentVerified},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Next(tc.from, tc.trig)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tc.from, got, "rejected transition must not move status")
		})
	}
}

func TestNextFor_ActorGating(t *testing.T) {
	_, err := NextFor(StatusPending, TriggerKitchenAccept, RoleCustomer)
	assert.ErrorIs(t, err, ErrActorNotAllowed)

	got, err := NextFor(StatusPending, TriggerKitchenAccept, RoleKitchen)
	assert.NoError(t, err)
	assert.Equal(t, StatusCooking, got)

	// system bypasses actor gating (reservation expiry, reconciliation)
	got, err = NextFor(StatusAwaitingPayment, TriggerPaymentConfirmed, RoleSystem)
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, got)
}

func TestDefaultKitchenVisible(t *testing.T) {
	visible := DefaultKitchenVisible()

	assert.True(t, visible.Contains(StatusPending))
	assert.True(t, visible.Contains(StatusCooking))
	assert.True(t, visible.Contains(StatusPendingPayment))
	assert.True(t, visible.Contains(StatusWaiting))

	assert.False(t, visible.Contains(StatusAwaitingPayment), "unpaid orders must never reach a kitchen queue")
	assert.False(t, visible.Contains(StatusCompleted))
	assert.False(t, visible.Contains(StatusCancelled))
	assert.False(t, visible.Contains(StatusPaid))
	assert.False(t, visible.Contains(StatusCreditPending))
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPaid.Terminal())
	assert.False(t, StatusPending.Terminal())
}
