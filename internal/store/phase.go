package store

// phaseState is the lifecycle of one asynchronous operation family. Modeling
// it as an enum keeps loading-with-error unrepresentable: the error message
// only exists in the rejected state.
type phaseState int

const (
	phaseIdle phaseState = iota
	phasePending
	phaseFulfilled
	phaseRejected
)

type phase struct {
	state phaseState
	err   string
}

func pending() phase {
	return phase{state: phasePending}
}

func fulfilled() phase {
	return phase{state: phaseFulfilled}
}

func rejected(msg string) phase {
	return phase{state: phaseRejected, err: msg}
}

func (p phase) loading() bool {
	return p.state == phasePending
}

func (p phase) message() string {
	if p.state == phaseRejected {
		return p.err
	}
	return ""
}
