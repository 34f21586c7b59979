// Package interp implements the scoped execution context and the
// tree-walking expression evaluator that sits between the parsed
// ast.Module and the rule engine in package engine.
package interp

import (
	"time"

	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/internal/cache"
	"github.com/atl-run/atl/metamodel"
	"github.com/atl-run/atl/value"
	"github.com/atl-run/atl/xerr"
)

// TraceLink is the immutable record created the moment a matched rule has
// instantiated all of its targets.
type TraceLink struct {
	Rule      string
	SourceID  string
	TargetIDs []string
}

// LazyBinding is a deferred property write whose value expression is
// retried once every rule has fired. Scope holds the variable-scope stack
// exactly as it stood when the recoverable error was raised, captured at
// enqueue time rather than reevaluated against drain-time state.
type LazyBinding struct {
	TargetAlias string
	TargetID    string
	Property    string
	Expr        ast.Expression
	Scope       []*value.OrderedMap[value.Value]
}

// Statistics holds the observable per-run counters.
type Statistics struct {
	Started            time.Time
	Duration           time.Duration
	Successful         bool
	MatchedRulesFired  int
	CalledRulesInvoked int
	SourceElemsVisited int
	TargetsCreated     int
	TracesRecorded     int
	LazyBindingsResolved int
	HelperInvocations  int
	Navigations        int
	Warnings           []string
	LastError          error
}

// ExecutionContext owns everything scoped to one VirtualMachine.execute
// call: the variable scope stack, trace links, the lazy-binding queue, and
// the bound source/target resources. One ExecutionContext is created per
// run and discarded (or returned to the engine's scratch pool) afterwards.
type ExecutionContext struct {
	mod *ast.Module

	sources map[string]metamodel.Provider
	targets map[string]metamodel.Provider

	scopes []*value.OrderedMap[value.Value]

	traces       []TraceLink
	lazyBindings []LazyBinding

	helperCache *cache.Cache[*ast.Helper]

	Stats Statistics
}

// New builds a fresh ExecutionContext for mod, bound to the given source
// and target resources (keyed by the aliases mod declares).
func New(mod *ast.Module, sources, targets map[string]metamodel.Provider) *ExecutionContext {
	return &ExecutionContext{
		mod:         mod,
		sources:     sources,
		targets:     targets,
		scopes:      []*value.OrderedMap[value.Value]{value.NewOrderedMap[value.Value]()},
		helperCache: cache.New[*ast.Helper](256),
		Stats:       Statistics{Started: time.Time{}},
	}
}

// Reset clears all per-run state so a pooled ExecutionContext can be reused
// for the next execute() call without reallocating its scope stack.
func (ec *ExecutionContext) Reset(mod *ast.Module, sources, targets map[string]metamodel.Provider) {
	ec.mod = mod
	ec.sources = sources
	ec.targets = targets
	ec.scopes = ec.scopes[:0]
	ec.scopes = append(ec.scopes, value.NewOrderedMap[value.Value]())
	ec.traces = nil
	ec.lazyBindings = nil
	ec.Stats = Statistics{}
}

func (ec *ExecutionContext) Module() *ast.Module { return ec.mod }

// PushScope makes a fresh empty scope current.
func (ec *ExecutionContext) PushScope() {
	ec.scopes = append(ec.scopes, value.NewOrderedMap[value.Value]())
}

// PopScope restores the previous current scope.
func (ec *ExecutionContext) PopScope() {
	if len(ec.scopes) > 1 {
		ec.scopes = ec.scopes[:len(ec.scopes)-1]
	}
}

// WithScope pushes a scope, runs fn, and pops on every exit path, even
// when fn panics or returns early via error.
func (ec *ExecutionContext) WithScope(fn func() (value.Value, error)) (value.Value, error) {
	ec.PushScope()
	defer ec.PopScope()
	return fn()
}

// SetVar binds name in the current (topmost) scope.
func (ec *ExecutionContext) SetVar(name string, v value.Value) {
	ec.scopes[len(ec.scopes)-1].Set(name, v)
}

// GetVar searches the current scope, then walks the stack from top to
// bottom, returning the first (deepest/nearest-enclosing) match.
func (ec *ExecutionContext) GetVar(name string) (value.Value, error) {
	for i := len(ec.scopes) - 1; i >= 0; i-- {
		if v, ok := ec.scopes[i].Get(name); ok {
			return v, nil
		}
	}
	return value.Null(), xerr.NewVariableNotFound(name)
}

// snapshotScopes is used by the rule engine when enqueuing a lazy binding:
// it captures the scope stack at enqueue time, not at drain time.
func (ec *ExecutionContext) snapshotScopes() []*value.OrderedMap[value.Value] {
	out := make([]*value.OrderedMap[value.Value], len(ec.scopes))
	for i, s := range ec.scopes {
		m := value.NewOrderedMap[value.Value]()
		s.Range(func(k string, v value.Value) bool {
			m.Set(k, v)
			return true
		})
		out[i] = m
	}
	return out
}

// AddTrace records a trace link.
func (ec *ExecutionContext) AddTrace(rule, sourceID string, targetIDs []string) {
	ec.traces = append(ec.traces, TraceLink{Rule: rule, SourceID: sourceID, TargetIDs: targetIDs})
	ec.Stats.TracesRecorded++
}

func (ec *ExecutionContext) Traces() []TraceLink { return ec.traces }

// AddLazyBinding enqueues a deferred property write, capturing the current
// scope stack.
func (ec *ExecutionContext) AddLazyBinding(alias, targetID, prop string, expr ast.Expression) {
	ec.lazyBindings = append(ec.lazyBindings, LazyBinding{
		TargetAlias: alias,
		TargetID:    targetID,
		Property:    prop,
		Expr:        expr,
		Scope:       ec.snapshotScopes(),
	})
}

// ResolveLazyBindings drains the FIFO queue to completion: a lazy binding
// that still fails at drain time is fatal.
func (ec *ExecutionContext) ResolveLazyBindings() error {
	for len(ec.lazyBindings) > 0 {
		b := ec.lazyBindings[0]
		ec.lazyBindings = ec.lazyBindings[1:]

		saved := ec.scopes
		ec.scopes = b.Scope

		v, err := ec.Eval(b.Expr)
		ec.scopes = saved
		if err != nil {
			return xerr.NewRuntimeError("lazy binding %s.%s failed: %s", b.TargetID, b.Property, err)
		}

		target, ok := ec.targets[b.TargetAlias]
		if !ok {
			return xerr.NewRuntimeError("lazy binding references unknown target alias %q", b.TargetAlias)
		}
		if err := target.WriteFeature(b.TargetID, b.Property, v); err != nil {
			return xerr.NewRuntimeError("lazy binding %s.%s failed to write: %s", b.TargetID, b.Property, err)
		}
		ec.Stats.LazyBindingsResolved++
	}
	return nil
}

func (ec *ExecutionContext) Source(alias string) (metamodel.Provider, bool) {
	p, ok := ec.sources[alias]
	return p, ok
}

func (ec *ExecutionContext) Target(alias string) (metamodel.Provider, bool) {
	p, ok := ec.targets[alias]
	return p, ok
}

func (ec *ExecutionContext) resourceFor(alias string) (metamodel.Provider, bool) {
	if p, ok := ec.sources[alias]; ok {
		return p, true
	}
	if p, ok := ec.targets[alias]; ok {
		return p, true
	}
	return nil, false
}
