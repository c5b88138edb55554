package domain

import "time"

// PrintState represents the lifecycle state of a print job.
type PrintState string

// List of possible print job states
const (
	PrintQueued       PrintState = "queued"
	PrintSent         PrintState = "sent"
	PrintAcknowledged PrintState = "acknowledged"
	PrintFailed       PrintState = "failed"
	PrintExhausted    PrintState = "exhausted"
)

// printTransitions is the allowed transition table. The manual operator
// requeue (Exhausted → Queued) deliberately bypasses it.
var printTransitions = map[PrintState][]PrintState{
	PrintQueued:       {PrintSent},
	PrintSent:         {PrintAcknowledged, PrintFailed},
	PrintFailed:       {PrintSent, PrintExhausted},
	PrintAcknowledged: {},
	PrintExhausted:    {},
}

// Valid checks if the PrintState is a known state.
func (s PrintState) Valid() bool {
	_, ok := printTransitions[s]
	return ok
}

// Terminal reports whether the state ends a print cycle. Terminal states
// never regress to Queued except through the manual requeue.
func (s PrintState) Terminal() bool {
	return s == PrintAcknowledged || s == PrintExhausted
}

// CanTransition reports whether s → to is an allowed transition.
func (s PrintState) CanTransition(to PrintState) bool {
	for _, next := range printTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// PrintJob is the durable record of one label piece and its delivery attempts.
// Attempts counts every attempt ever made; the per-cycle retry budget is
// enforced by the print driver, not stored here.
type PrintJob struct {
	ID             int64
	OrderID        string
	IdempotencyKey string
	Piece          int
	Payload        []byte
	PrinterAddr    string
	State          PrintState
	Attempts       int
	LastError      string
	FirstAttemptAt *time.Time
	LastAttemptAt  *time.Time
	CreatedAt      time.Time
}
