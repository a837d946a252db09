package domain

import "errors"

type Status string

const (
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusPendingPayment  Status = "pending_payment"
	StatusWaiting         Status = "waiting" // legacy alias still sent by older clients
	StatusPending         Status = "pending"
	StatusCooking         Status = "cooking"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
	StatusPaid            Status = "paid"
	StatusCreditPending   Status = "credit_pending"
)

type Trigger string

const (
	TriggerPaymentConfirmed Trigger = "payment_confirmed"
	TriggerKitchenAccept    Trigger = "kitchen_accept"
	TriggerKitchenReject    Trigger = "kitchen_reject"
	TriggerPaymentVerified  Trigger = "payment_verified"
	TriggerKitchenDone      Trigger = "kitchen_done"
	TriggerCancel           Trigger = "cancel"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrActorNotAllowed   = errors.New("actor not allowed to trigger this transition")
)

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type edge struct {
	to     Status
	actors []Role
}

// transitions is the full forward table. TriggerCancel is handled
// separately: any non-terminal status may be cancelled explicitly.
var transitions = map[Status]map[Trigger]edge{
	StatusAwaitingPayment: {
		TriggerPaymentConfirmed: {to: StatusPending, actors: []Role{RoleCustomer, RoleSystem}},
	},
	StatusPending: {
		TriggerKitchenAccept: {to: StatusCooking, actors: []Role{RoleKitchen, RoleOwner}},
		TriggerKitchenReject: {to: StatusCancelled, actors: []Role{RoleKitchen, RoleOwner}},
	},
	StatusPendingPayment: {
		TriggerPaymentVerified: {to: StatusCooking, actors: []Role{RoleKitchen, RoleOwner}},
	},
	StatusWaiting: {
		TriggerPaymentVerified: {to: StatusCooking, actors: []Role{RoleKitchen, RoleOwner}},
	},
	// Verifying a credit payment settles the order without entering the
	// kitchen flow; it would otherwise be stranded.
	StatusCreditPending: {
		TriggerPaymentVerified: {to: StatusPaid, actors: []Role{RoleKitchen, RoleOwner}},
	},
	StatusCooking: {
		TriggerKitchenDone: {to: StatusCompleted, actors: []Role{RoleKitchen, RoleOwner}},
	},
}

// Next returns the status reached from s by trig, ignoring actor gating.
func Next(s Status, trig Trigger) (Status, error) {
	if trig == TriggerCancel {
		if s.Terminal() {
			return s, ErrInvalidTransition
		}
		return StatusCancelled, nil
	}
	e, ok := transitions[s][trig]
	if !ok {
		return s, ErrInvalidTransition
	}
	return e.to, nil
}

// NextFor is Next with actor gating. On rejection the current status is
// returned unchanged so callers can re-render current truth.
func NextFor(s Status, trig Trigger, actor Role) (Status, error) {
	if trig == TriggerCancel {
		return Next(s, trig)
	}
	e, ok := transitions[s][trig]
	if !ok {
		return s, ErrInvalidTransition
	}
	if actor != RoleSystem {
		allowed := false
		for _, a := range e.actors {
			if a == actor {
				allowed = true
				break
			}
		}
		if !allowed {
			return s, ErrActorNotAllowed
		}
	}
	return e.to, nil
}

type StatusSet map[Status]bool

func (set StatusSet) Contains(s Status) bool {
	return set[s]
}

// DefaultKitchenVisible is the allow-list a cooking-staff queue displays.
// awaiting_payment is deliberately absent so unpaid orders never reach a
// kitchen queue.
func DefaultKitchenVisible() StatusSet {
	return StatusSet{
		StatusPending:        true,
		StatusCooking:        true,
		StatusPendingPayment: true,
		StatusWaiting:        true,
	}
}
