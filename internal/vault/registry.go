package vault

import (
	"fmt"
)

// ActionRegistry holds the fixed list of strategy collaborators. The
// list is set exactly once and read for the lifetime of the vault; there
// is no add or remove, only replace-all at initialization.
type ActionRegistry struct {
	actions []Action
}

// Initialize fixes the strategy list. It fails if called twice, if any
// entry is nil or carries an invalid identifier, or if an identifier
// repeats.
func (r *ActionRegistry) Initialize(actions []Action, selfAccount string) error {
	if len(r.actions) != 0 {
		return ErrAlreadyInitialized
	}
	if len(actions) == 0 {
		return fmt.Errorf("%w: empty action list", ErrInvalidAction)
	}

	seen := make(map[string]struct{}, len(actions))
	for i, a := range actions {
		if a == nil {
			return fmt.Errorf("%w: action at index %d is nil", ErrInvalidAction, i)
		}
		id := a.ID()
		if id == "" {
			return fmt.Errorf("%w: action at index %d has empty id", ErrInvalidAction, i)
		}
		if id == selfAccount {
			return fmt.Errorf("%w: action %s references the vault itself", ErrInvalidAction, id)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateAction, id)
		}
		seen[id] = struct{}{}
	}

	r.actions = make([]Action, len(actions))
	copy(r.actions, actions)
	return nil
}

// requireInitialized is the precondition of every operation that reads
// vault value or allocates capital.
func (r *ActionRegistry) requireInitialized() error {
	if len(r.actions) == 0 {
		return ErrNoActionInitialized
	}
	return nil
}

// Actions returns the registered strategies in registration order. The
// returned slice must not be mutated by callers.
func (r *ActionRegistry) Actions() []Action {
	return r.actions
}

// Len returns the number of registered strategies.
func (r *ActionRegistry) Len() int {
	return len(r.actions)
}
