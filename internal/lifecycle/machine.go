package lifecycle

import "fmt"

type Reason string

const (
	ReasonTerminalState     Reason = "terminal_state"
	ReasonInvalidTransition Reason = "invalid_transition"
	ReasonUnknownState      Reason = "unknown_state"
)

// TransitionError is the rejected(reason) outcome of Machine.Check.
type TransitionError struct {
	Kind   string
	From   string
	To     string
	Reason Reason
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s transition %s -> %s rejected: %s", e.Kind, e.From, e.To, e.Reason)
}

// Machine holds the legal edges of one status field. It does no I/O; callers
// run Check before issuing a mutation and treat the backend as the source of
// truth afterwards.
type Machine[S ~string] struct {
	kind     string
	next     map[S]map[S]bool
	terminal map[S]bool
}

func NewMachine[S ~string](kind string, next map[S][]S, terminal ...S) Machine[S] {
	m := Machine[S]{
		kind:     kind,
		next:     make(map[S]map[S]bool, len(next)),
		terminal: make(map[S]bool, len(terminal)),
	}
	for from, tos := range next {
		set := make(map[S]bool, len(tos))
		for _, to := range tos {
			set[to] = true
		}
		m.next[from] = set
	}
	for _, s := range terminal {
		m.terminal[s] = true
		if _, ok := m.next[s]; !ok {
			m.next[s] = map[S]bool{}
		}
	}
	return m
}

func (m Machine[S]) Known(s S) bool {
	_, ok := m.next[s]
	return ok
}

func (m Machine[S]) Terminal(s S) bool { return m.terminal[s] }

// Check returns nil when from -> to is allowed. A request where from == to is
// an idempotent no-op. Leaving a terminal state, or entering a terminal state
// from a source that may no longer reach it, is rejected as terminal_state.
func (m Machine[S]) Check(from, to S) error {
	if !m.Known(from) || !m.Known(to) {
		return m.reject(from, to, ReasonUnknownState)
	}
	if from == to {
		return nil
	}
	if m.terminal[from] {
		return m.reject(from, to, ReasonTerminalState)
	}
	if m.next[from][to] {
		return nil
	}
	if m.terminal[to] {
		return m.reject(from, to, ReasonTerminalState)
	}
	return m.reject(from, to, ReasonInvalidTransition)
}

func (m Machine[S]) Allowed(from, to S) bool { return m.Check(from, to) == nil }

func (m Machine[S]) reject(from, to S, r Reason) error {
	return &TransitionError{Kind: m.kind, From: string(from), To: string(to), Reason: r}
}
