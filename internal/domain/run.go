package domain

import "time"

// RunState represents the persisted step of one fulfillment run.
type RunState string

// List of possible fulfillment run states
const (
	RunReceived        RunState = "received"
	RunOrderFetched    RunState = "order_fetched"
	RunShipmentCreated RunState = "shipment_created"
	RunLabelsPrinted   RunState = "labels_printed"
	RunOrderConfirmed  RunState = "order_confirmed"
	RunCallbackSent    RunState = "callback_sent"
	RunFailed          RunState = "failed"
)

// runTransitions is the allowed transition table. Every non-terminal state
// may fail; a failed run re-enters at Received on replay. The operator
// override (Failed → OrderConfirmed) deliberately bypasses it.
var runTransitions = map[RunState][]RunState{
	RunReceived:        {RunOrderFetched, RunFailed},
	RunOrderFetched:    {RunShipmentCreated, RunFailed},
	RunShipmentCreated: {RunLabelsPrinted, RunFailed},
	RunLabelsPrinted:   {RunOrderConfirmed, RunFailed},
	RunOrderConfirmed:  {RunCallbackSent, RunFailed},
	RunCallbackSent:    {},
	RunFailed:          {RunReceived},
}

// Valid checks if the RunState is a known state.
func (s RunState) Valid() bool {
	_, ok := runTransitions[s]
	return ok
}

// Terminal reports whether the run reached an outcome.
func (s RunState) Terminal() bool {
	return s == RunCallbackSent || s == RunFailed
}

// CanTransition reports whether s → to is an allowed transition.
func (s RunState) CanTransition(to RunState) bool {
	for _, next := range runTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Callback status tags reported to the order platform.
const (
	CallbackStatusDelivered = "delivered_to_printer"
	CallbackStatusFailed    = "failed"
)

// Run is the persisted state machine of one ship sequence, keyed by the
// shipment idempotency key.
type Run struct {
	IdempotencyKey    string
	OrderID           string
	State             RunState
	FailReason        string
	CorrelationID     string
	TrackingNumbers   []string
	CallbackDelivered bool
	CallbackLastError string
	Events            []RunEvent
	StartedAt         time.Time
	UpdatedAt         time.Time
}

// RunEvent is one audit entry appended on every run transition; the full
// list travels in the callback payload.
type RunEvent struct {
	At     time.Time `json:"at"`
	Step   string    `json:"step"`
	Detail string    `json:"detail,omitempty"`
}

// CallbackStatus maps the run outcome to the callback status tag and reason.
func (r Run) CallbackStatus() (status, reason string) {
	if r.State == RunFailed {
		return CallbackStatusFailed, r.FailReason
	}
	return CallbackStatusDelivered, ""
}
