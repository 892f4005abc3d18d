package loan

type State string

const (
	StateRequested   State = "Solicitud Enviada"
	StateUnderReview State = "En revisión"
	StateApproved    State = "Aprobada"
	StateDenied      State = "Negada"
	StateDisbursed   State = "Desembolsado"
	StateDelinquent  State = "En Mora"
	StatePaid        State = "Pagada"
	StateRenewed     State = "Novado"
)

// transitions enumerates the legal edges. Renewed has no outgoing edge on
// the same record: its successor is a new record created by reconciliation.
// Paid and Denied are terminal.
var transitions = map[State][]State{
	StateRequested:   {StateUnderReview, StateApproved, StateDenied},
	StateUnderReview: {StateApproved, StateDenied},
	StateApproved:    {StateDisbursed},
	StateDisbursed:   {StateDelinquent, StatePaid, StateRenewed},
	StateDelinquent:  {StatePaid, StateRenewed},
}

// CanTransition reports whether current -> next is a legal edge.
// Re-marking an already delinquent loan is allowed as an idempotent no-op.
func CanTransition(current, next State) bool {
	if current == StateDelinquent && next == StateDelinquent {
		return true
	}
	for _, s := range transitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// Transition validates the requested edge instead of silently accepting
// any administrative write.
func Transition(current, next State) (State, error) {
	if !CanTransition(current, next) {
		return current, ErrInvalidTransition
	}
	return next, nil
}

// activeStates is the subset in which a borrower is considered to hold an
// open request; at most one loan per borrower may be in it.
var activeStates = map[State]bool{
	StateRequested:   true,
	StateUnderReview: true,
	StateApproved:    true,
	StateDisbursed:   true,
}

func (s State) Active() bool { return activeStates[s] }

func (s State) Terminal() bool { return s == StatePaid || s == StateDenied }

// ActiveStates returns the active subset for repository queries.
func ActiveStates() []State {
	return []State{StateRequested, StateUnderReview, StateApproved, StateDisbursed}
}
