// Package consent models a visitor's cookie preferences. State changes go
// through Reduce, which never mutates its input; Service persists the
// result.
package consent

type Category string

const (
	Essential  Category = "essential"
	Functional Category = "functional"
	Analytics  Category = "analytics"
	Marketing  Category = "marketing"
)

// Categories lists the known categories in display order.
var Categories = []Category{Essential, Functional, Analytics, Marketing}

func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Preferences maps a category to whether it is enabled.
type Preferences map[Category]bool

// Defaults enables essential cookies only.
func Defaults() Preferences {
	prefs := make(Preferences, len(Categories))
	for _, c := range Categories {
		prefs[c] = c == Essential
	}
	return prefs
}

func (p Preferences) Clone() Preferences {
	out := make(Preferences, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Allows reports whether scripts of the given category may run.
func (p Preferences) Allows(c Category) bool {
	if c == Essential {
		return true
	}
	return p[c]
}

// Normalize pins essential to true and drops unknown categories.
func (p Preferences) Normalize() Preferences {
	out := Defaults()
	for k, v := range p {
		if _, ok := ParseCategory(string(k)); ok {
			out[k] = v
		}
	}
	out[Essential] = true
	return out
}

// ToMap converts to the storage representation.
func (p Preferences) ToMap() map[string]bool {
	out := make(map[string]bool, len(p))
	for k, v := range p {
		out[string(k)] = v
	}
	return out
}

func FromMap(m map[string]bool) Preferences {
	out := make(Preferences, len(m))
	for k, v := range m {
		out[Category(k)] = v
	}
	return out
}

type ActionType string

const (
	ActionToggle    ActionType = "toggle"
	ActionAcceptAll ActionType = "accept_all"
	ActionRejectAll ActionType = "reject_all"
	ActionReset     ActionType = "reset"
)

type Action struct {
	Type     ActionType `json:"type"`
	Category Category   `json:"category,omitempty"`
}

// Reduce returns the state that results from applying action to state.
// Toggling essential is a no-op; any other category flips, an absent one
// counting as false. Unknown action types leave the state unchanged.
func Reduce(state Preferences, action Action) Preferences {
	switch action.Type {
	case ActionToggle:
		next := state.Clone()
		if action.Category != Essential {
			next[action.Category] = !next[action.Category]
		}
		next[Essential] = true
		return next
	case ActionAcceptAll:
		next := state.Clone()
		for _, c := range Categories {
			next[c] = true
		}
		return next
	case ActionRejectAll, ActionReset:
		return Defaults()
	default:
		next := state.Clone()
		next[Essential] = true
		return next
	}
}

// Toggle is Reduce with a toggle action.
func Toggle(state Preferences, c Category) Preferences {
	return Reduce(state, Action{Type: ActionToggle, Category: c})
}
