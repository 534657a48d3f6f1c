package actionability

import "github.com/xkilldash9x/domready/pkg/dom"

// StateResult is the outcome of a single-state query: whether the requested
// state holds, and the concrete state that was observed. Computed fresh on
// every query, never cached.
type StateResult struct {
	Matches  bool      `json:"matches"`
	Received dom.State `json:"received"`
}

// StatesResult is the outcome of a multi-state query. Exactly one of the
// three shapes is populated: Matches true (all requested states held),
// Missing/Received (the first requested state that failed and what was
// observed instead), or Err (the query could not run at all).
type StatesResult struct {
	Matches  bool      `json:"matches"`
	Missing  dom.State `json:"missing,omitempty"`
	Received dom.State `json:"received,omitempty"`
	Err      error     `json:"-"`
}

// Interaction is a kind of simulated user interaction.
type Interaction string

const (
	Click       Interaction = "click"
	DoubleClick Interaction = "doubleclick"
	Hover       Interaction = "hover"
	Drag        Interaction = "drag"
	Drop        Interaction = "drop"
	Type        Interaction = "type"
	Clear       Interaction = "clear"
	Screenshot  Interaction = "screenshot"
)

// requiredStates maps each interaction to its fixed required-state set. The
// whole contract lives in this one table.
var requiredStates = map[Interaction][]dom.State{
	Click:       {dom.StateVisible, dom.StateEnabled, dom.StateStable, dom.StateInView},
	DoubleClick: {dom.StateVisible, dom.StateEnabled, dom.StateStable, dom.StateInView},
	Hover:       {dom.StateVisible, dom.StateEnabled, dom.StateStable, dom.StateInView},
	Drag:        {dom.StateVisible, dom.StateEnabled, dom.StateStable, dom.StateInView},
	Type:        {dom.StateVisible, dom.StateEnabled, dom.StateEditable, dom.StateStable, dom.StateInView},
	Clear:       {dom.StateVisible, dom.StateEnabled, dom.StateEditable, dom.StateStable, dom.StateInView},
	Drop:        {dom.StateVisible, dom.StateStable, dom.StateInView},
	Screenshot:  {dom.StateVisible, dom.StateStable, dom.StateInView},
}

// RequiredStates returns the required-state set for an interaction and
// whether the interaction is known.
func RequiredStates(i Interaction) ([]dom.State, bool) {
	states, ok := requiredStates[i]
	return states, ok
}

// ReadyState classifies an interaction-readiness check.
type ReadyState int

const (
	// NotReady means a required state does not hold yet; waiting may help.
	NotReady ReadyState = iota
	// NeedsScroll means the element is out of the viewport but can be
	// scrolled to.
	NeedsScroll
	// Ready means every required state holds and an interaction point was
	// computed.
	Ready
)

func (s ReadyState) String() string {
	switch s {
	case Ready:
		return "ready"
	case NeedsScroll:
		return "needsscroll"
	default:
		return "notready"
	}
}

// Readiness is the outcome of an interaction-readiness check. Point is only
// meaningful when State is Ready.
type Readiness struct {
	State ReadyState `json:"state"`
	Point dom.Point  `json:"point"`
}
