package action

import (
	"context"
	"fmt"
	"sort"
)

// Action fulfills one user intent.
type Action interface {
	Name() string
	Run(ctx context.Context, req Request) (Result, error)
}

// Registry maps action names to handlers.
type Registry struct {
	actions map[string]Action
}

// NewRegistry registers the given actions. Duplicate names are rejected.
func NewRegistry(actions ...Action) (*Registry, error) {
	r := &Registry{actions: make(map[string]Action, len(actions))}
	for _, a := range actions {
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an action.
func (r *Registry) Register(a Action) error {
	if a == nil || a.Name() == "" {
		return fmt.Errorf("action must have a name")
	}
	if _, exists := r.actions[a.Name()]; exists {
		return fmt.Errorf("action %q registered twice", a.Name())
	}
	r.actions[a.Name()] = a
	return nil
}

// Lookup resolves an action by name.
func (r *Registry) Lookup(name string) (Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// Names lists registered action names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
