package dom

// State names one queryable or observed element condition.
type State string

const (
	StateVisible  State = "visible"
	StateHidden   State = "hidden"
	StateEnabled  State = "enabled"
	StateDisabled State = "disabled"
	StateEditable State = "editable"
	StateInView   State = "inview"
	StateStable   State = "stable"

	// Received-only states: reported by queries, never requested.
	StateReadOnly     State = "readOnly"
	StateNotInView    State = "notinview"
	StateUnviewable   State = "unviewable"
	StateUnstable     State = "unstable"
	StateNotConnected State = "error:notconnected"
)

// Queryable reports whether the state may be requested from a state query.
func (s State) Queryable() bool {
	switch s {
	case StateVisible, StateHidden, StateEnabled, StateDisabled,
		StateEditable, StateInView, StateStable:
		return true
	}
	return false
}
