package enum

import "encoding/json"

// CheckoutPhase is the state of the single checkout the console owns
type CheckoutPhase int

const (
	PhaseEmpty CheckoutPhase = iota
	PhaseBuilding
	// PhaseSubmitted follows a successful finalize while the receipt prompt is unanswered
	PhaseSubmitted
	PhaseReceiptPending
	PhaseReceiptCreated
)

func (p CheckoutPhase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseBuilding:
		return "building"
	case PhaseSubmitted:
		return "submitted"
	case PhaseReceiptPending:
		return "receipt_pending"
	case PhaseReceiptCreated:
		return "receipt_created"
	}
	return "unknown"
}

func (p CheckoutPhase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// AllowsLineChanges reports whether lines may be added or removed in this phase.
// A created receipt closes the previous checkout, so scanning starts a new sale.
func (p CheckoutPhase) AllowsLineChanges() bool {
	return p == PhaseEmpty || p == PhaseBuilding || p == PhaseReceiptCreated
}
