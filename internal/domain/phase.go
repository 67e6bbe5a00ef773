package domain

// Phase is a state of the tip state machine.
type Phase string

const (
	PhaseIdle                 Phase = "idle"
	PhaseSubmitting           Phase = "submitting"
	PhaseAwaitingApproval     Phase = "awaiting_approval"
	PhaseAwaitingConfirmation Phase = "awaiting_confirmation"
	PhaseRecording            Phase = "recording"
	PhaseCompleted            Phase = "completed"
	PhaseFailed               Phase = "failed"
)

// Terminal reports whether no further transition can happen.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseFailed
}

// Status is emitted on every phase transition of a tip intent.
type Status struct {
	IntentID string `json:"intent_id"`
	Phase    Phase  `json:"phase"`
	TxID     string `json:"tx_id,omitempty"`
	Error    string `json:"error,omitempty"`
	Kind     string `json:"kind,omitempty"`
}
