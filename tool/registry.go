package tool

import (
	"errors"
	"fmt"
	"sync"
)

// Registry errors.
var (
	// ErrNilTool is returned when registering a nil tool.
	ErrNilTool = errors.New("tool cannot be nil")
	// ErrEmptyName is returned when registering a tool whose declaration has no name.
	ErrEmptyName = errors.New("tool name cannot be empty")
	// ErrDuplicateName is returned when registering a tool under a name that is taken.
	ErrDuplicateName = errors.New("tool already exists")
	// ErrUnknownTool is returned when resolving a name no tool was registered under.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrNotCallable is returned when the resolved tool does not implement CallableTool.
	ErrNotCallable = errors.New("tool is not callable")
)

// Registry holds named tools and dispatches calls to them by name.
// The zero value is not usable; use NewRegistry.
type Registry struct {
	mu      sync.RWMutex
	toolMap map[string]Tool
	order   []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		toolMap: make(map[string]Tool),
	}
}

// Register adds a tool to the registry under its declared name.
// Registration order is preserved and determines the order of List and Tools.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return ErrNilTool
	}
	decl := t.Declaration()
	if decl == nil || decl.Name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.toolMap[decl.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, decl.Name)
	}
	r.toolMap[decl.Name] = t
	r.order = append(r.order, decl.Name)
	return nil
}

// Resolve returns the callable tool registered under name.
// It fails with ErrUnknownTool when no tool has that name, and with
// ErrNotCallable when the registered tool cannot be invoked.
func (r *Registry) Resolve(name string) (CallableTool, error) {
	r.mu.RLock()
	t, exists := r.toolMap[name]
	r.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	callable, ok := t.(CallableTool)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotCallable, name)
	}
	return callable, nil
}

// Get returns the tool registered under name, if any.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, exists := r.toolMap[name]
	return t, exists
}

// List returns the registered tool names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.toolMap[name])
	}
	return tools
}

// Unregister removes the tool registered under name. Removing a name that
// was never registered is a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.toolMap[name]; !exists {
		return
	}
	delete(r.toolMap, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Clear removes all registered tools.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toolMap = make(map[string]Tool)
	r.order = nil
}
