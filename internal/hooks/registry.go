package hooks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/countdown/internal/errors"
)

// DefaultFailureMode applies to hooks that do not set one
const DefaultFailureMode = "warn"

// Registry manages hooks and their lifecycle
type Registry struct {
	mu sync.RWMutex

	// hooks maps event types to registered hooks
	hooks map[EventType][]Hook

	// factories maps hook types to their factory functions
	factories map[string]HookFactory

	// failureModes maps hook names to their configured failure mode
	failureModes map[string]string

	// executor executes hooks
	executor *Executor
}

// NewRegistry creates a new hook registry
func NewRegistry() *Registry {
	return &Registry{
		hooks:        make(map[EventType][]Hook),
		factories:    make(map[string]HookFactory),
		failureModes: make(map[string]string),
		executor:     NewExecutor(),
	}
}

// NewDefaultRegistry creates a registry with the built-in factories and
// registers every enabled hook in configs.
func NewDefaultRegistry(configs []HookConfig) (*Registry, error) {
	r := NewRegistry()
	RegisterBuiltinHooks(r)

	for i := range configs {
		if err := r.RegisterFromConfig(&configs[i]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Executor returns the executor used by Trigger
func (r *Registry) Executor() *Executor {
	return r.executor
}

// RegisterFactory registers a hook factory
func (r *Registry) RegisterFactory(hookType string, factory HookFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[hookType] = factory
}

// Register adds a hook to the registry
func (r *Registry) Register(hook Hook) error {
	if hook == nil {
		return fmt.Errorf("hook cannot be nil")
	}

	if !hook.Enabled() {
		return nil
	}

	for _, eventType := range hook.EventTypes() {
		if !IsValidEventType(eventType) {
			return fmt.Errorf("hook %s: unknown event %q", hook.Name(), eventType)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, eventType := range hook.EventTypes() {
		r.hooks[eventType] = append(r.hooks[eventType], hook)
	}

	return nil
}

// RegisterFromConfig creates and registers a hook from configuration
func (r *Registry) RegisterFromConfig(config *HookConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if !config.Enabled {
		return nil
	}

	if config.FailureMode != "" && !IsValidFailureMode(config.FailureMode) {
		return errors.NewConfigInvalidError("hooks."+config.Name+".failureMode", config.FailureMode, nil)
	}

	r.mu.RLock()
	factory, exists := r.factories[config.Type]
	r.mu.RUnlock()

	if !exists {
		return errors.NewHookUnknownError(config.Type)
	}

	hook, err := factory(config)
	if err != nil {
		return errors.NewHookFailedError(config.Name, err.Error())
	}

	if config.Timeout > 0 {
		hook = &timedHook{Hook: hook, timeout: config.Timeout}
	}

	if err := r.Register(hook); err != nil {
		return err
	}

	mode := config.FailureMode
	if mode == "" {
		mode = DefaultFailureMode
	}

	r.mu.Lock()
	r.failureModes[hook.Name()] = mode
	r.mu.Unlock()

	return nil
}

// Unregister removes a hook from the registry
func (r *Registry) Unregister(hookName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for eventType, hooks := range r.hooks {
		filtered := make([]Hook, 0, len(hooks))
		for _, hook := range hooks {
			if hook.Name() != hookName {
				filtered = append(filtered, hook)
			}
		}
		r.hooks[eventType] = filtered
	}
	delete(r.failureModes, hookName)
}

// Trigger executes all hooks registered for an event type
func (r *Registry) Trigger(ctx context.Context, event *Event) []ExecutionResult {
	r.mu.RLock()
	hooks := r.hooks[event.Type]
	r.mu.RUnlock()

	if len(hooks) == 0 {
		return nil
	}

	return r.executor.ExecuteAll(ctx, hooks, event)
}

// FailureMode returns the configured failure mode for a hook
func (r *Registry) FailureMode(hookName string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if mode, ok := r.failureModes[hookName]; ok {
		return mode
	}
	return DefaultFailureMode
}

// HandleResults applies each hook's own failure mode to results. The
// first failure from a "fail" hook is returned.
func (r *Registry) HandleResults(results []ExecutionResult, logger Logger) error {
	var firstErr error
	for _, result := range results {
		err := HandleResults([]ExecutionResult{result}, r.FailureMode(result.HookName), logger)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// GetHooks returns all hooks for an event type
func (r *Registry) GetHooks(eventType EventType) []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hooks := r.hooks[eventType]
	result := make([]Hook, len(hooks))
	copy(result, hooks)
	return result
}

// Count returns the total number of registered hooks
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// a hook may be registered for several events
	seen := make(map[string]bool)
	for _, hooks := range r.hooks {
		for _, hook := range hooks {
			seen[hook.Name()] = true
		}
	}
	return len(seen)
}

// Clear removes all hooks from the registry
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hooks = make(map[EventType][]Hook)
	r.failureModes = make(map[string]string)
}

// HasHooksFor checks if there are any hooks registered for an event type
func (r *Registry) HasHooksFor(eventType EventType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.hooks[eventType]) > 0
}

// timedHook carries a per-hook timeout from configuration
type timedHook struct {
	Hook
	timeout time.Duration
}

func (h *timedHook) Timeout() time.Duration { return h.timeout }
