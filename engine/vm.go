// Package engine implements the rule driver: validating bound resources
// against a parsed Module, firing matched rules over source instances in
// declaration order, draining the lazy-binding queue, and recording run
// statistics.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/puddle/v2"
	"github.com/pkg/errors"

	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/interp"
	"github.com/atl-run/atl/metamodel"
	"github.com/atl-run/atl/value"
	"github.com/atl-run/atl/xerr"
)

// VirtualMachine drives one Module's matched and called rules against
// caller-supplied source/target resources. A VirtualMachine is safe to
// reuse across repeated Execute calls (each gets its own ExecutionContext,
// pooled rather than reallocated; ExecuteCalledRule runs in the context
// its caller passes in) but not to share across
// concurrent calls against the same resources — each run owns its bound
// resources exclusively.
type VirtualMachine struct {
	mod *ast.Module
	log *slog.Logger

	ctxPool *puddle.Pool[*interp.ExecutionContext]
}

// New builds a VirtualMachine for mod. log defaults to slog.Default() when
// nil.
func New(mod *ast.Module, log *slog.Logger) (*VirtualMachine, error) {
	if log == nil {
		log = slog.Default()
	}
	vm := &VirtualMachine{mod: mod, log: log}

	pool, err := puddle.NewPool(&puddle.Config[*interp.ExecutionContext]{
		Constructor: func(context.Context) (*interp.ExecutionContext, error) {
			return interp.New(mod, nil, nil), nil
		},
		Destructor: func(*interp.ExecutionContext) {},
		MaxSize:    8,
	})
	if err != nil {
		return nil, errors.Wrap(err, "engine: build execution-context pool")
	}
	vm.ctxPool = pool
	return vm, nil
}

// Execute runs every matched rule in declaration order against
// sources/targets, keyed by the aliases the Module declares.
func (vm *VirtualMachine) Execute(ctx context.Context, sources, targets map[string]metamodel.Provider) (*interp.Statistics, error) {
	if err := vm.validateAliases(sources, targets); err != nil {
		return nil, err
	}

	res, err := vm.ctxPool.Acquire(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "engine: acquire execution context")
	}
	defer res.Release()

	ec := res.Value()
	ec.Reset(vm.mod, sources, targets)
	ec.Stats.Started = time.Now()

	stats := &ec.Stats
	if err := vm.runMatchedRules(ec); err != nil {
		stats.Successful = false
		stats.LastError = err
		stats.Duration = time.Since(stats.Started)
		vm.log.Error("transformation failed", "error", err, "rulesFired", stats.MatchedRulesFired)
		return stats, err
	}

	if err := ec.ResolveLazyBindings(); err != nil {
		stats.Successful = false
		stats.LastError = err
		stats.Duration = time.Since(stats.Started)
		vm.log.Error("lazy binding resolution failed", "error", err)
		return stats, err
	}

	stats.Successful = true
	stats.Duration = time.Since(stats.Started)
	vm.log.Info("transformation complete",
		"rulesFired", stats.MatchedRulesFired,
		"targetsCreated", stats.TargetsCreated,
		"traces", stats.TracesRecorded,
		"lazyBindingsResolved", stats.LazyBindingsResolved,
	)
	return stats, nil
}

func (vm *VirtualMachine) validateAliases(sources, targets map[string]metamodel.Provider) error {
	var missing []string
	vm.mod.SourceAliases.Range(func(alias string, _ *ast.MetamodelHandle) bool {
		if _, ok := sources[alias]; !ok {
			missing = append(missing, "source:"+alias)
		}
		return true
	})
	vm.mod.TargetAliases.Range(func(alias string, _ *ast.MetamodelHandle) bool {
		if _, ok := targets[alias]; !ok {
			missing = append(missing, "target:"+alias)
		}
		return true
	})
	if len(missing) > 0 {
		return xerr.NewRuntimeError("unbound aliases: %v", missing)
	}
	return nil
}

// runMatchedRules visits every source instance of each matched rule's
// pattern class, in declaration order, firing the rule when its guard (if
// any) passes.
func (vm *VirtualMachine) runMatchedRules(ec *interp.ExecutionContext) error {
	for _, rule := range vm.mod.MatchedRules {
		alias, class, ok := rule.Source.Type.QualifiedName()
		if !ok {
			return xerr.NewRuntimeError("rule %s: invalid source pattern type", rule.Name)
		}
		if alias == "" {
			alias = defaultSourceAlias(ec, class)
		}
		provider, ok := ec.Source(alias)
		if !ok {
			return xerr.NewRuntimeError("rule %s: unbound source alias %q", rule.Name, alias)
		}

		ids, err := provider.AllInstances(class)
		if err != nil {
			return xerr.NewRuntimeError("rule %s: listing instances of %s: %s", rule.Name, class, err)
		}

		for _, id := range ids {
			ec.Stats.SourceElemsVisited++
			matched, err := vm.fireRule(ec, rule, alias, class, id)
			if err != nil {
				return err
			}
			if matched {
				ec.Stats.MatchedRulesFired++
			}
		}
	}
	return nil
}

func (vm *VirtualMachine) fireRule(ec *interp.ExecutionContext, rule *ast.MatchedRule, alias, class, id string) (bool, error) {
	fired := false
	_, err := ec.WithScope(func() (value.Value, error) {
		self := value.Ref(value.ObjectRef{Alias: alias, ID: id, Class: class})
		ec.SetVar(rule.Source.Var, self)

		if rule.Source.Guard != nil {
			g, err := ec.Eval(rule.Source.Guard)
			if err != nil {
				return value.Null(), err
			}
			if g.Kind != value.KindBool || !g.Bool() {
				return value.Null(), nil
			}
		}

		targetIDs, err := vm.instantiateTargets(ec, rule.Targets)
		if err != nil {
			return value.Null(), err
		}
		ec.AddTrace(rule.Name, id, targetIDs)
		fired = true
		return value.Null(), nil
	})
	return fired, err
}

// instantiateTargets creates each target, binds its pattern variable, then
// evaluates its property bindings, converting a recoverable binding error
// into a lazy binding.
func (vm *VirtualMachine) instantiateTargets(ec *interp.ExecutionContext, patterns []ast.TargetPattern) ([]string, error) {
	ids := make([]string, 0, len(patterns))
	for _, tp := range patterns {
		alias, class, ok := tp.Type.QualifiedName()
		if !ok {
			return nil, xerr.NewRuntimeError("invalid target pattern type for %s", tp.Var)
		}
		if alias == "" {
			alias = defaultTargetAlias(ec, class)
		}
		provider, ok := ec.Target(alias)
		if !ok {
			return nil, xerr.NewRuntimeError("unbound target alias %q", alias)
		}

		id, err := provider.CreateInstance(class)
		if err != nil {
			return nil, xerr.NewRuntimeError("creating %s!%s: %s", alias, class, err)
		}
		ec.Stats.TargetsCreated++
		ids = append(ids, id)

		ref := value.Ref(value.ObjectRef{Alias: alias, ID: id, Class: class})
		if _, err := ec.WithScope(func() (value.Value, error) {
			ec.SetVar(tp.Var, ref)
			for _, b := range tp.Bindings {
				v, err := ec.Eval(b.Value)
				if err != nil {
					if xerr.IsRecoverableBindingError(err) {
						ec.AddLazyBinding(alias, id, b.Property, b.Value)
						continue
					}
					return value.Null(), err
				}
				if err := provider.WriteFeature(id, b.Property, v); err != nil {
					return value.Null(), xerr.NewRuntimeError("writing %s.%s: %s", class, b.Property, err)
				}
			}
			return value.Null(), nil
		}); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// ExecuteCalledRule invokes a called (or lazy) rule explicitly; no trace
// links are recorded, since trace links describe matched-rule firings.
func (vm *VirtualMachine) ExecuteCalledRule(ctx context.Context, ec *interp.ExecutionContext, name string, args []value.Value) ([]value.Value, error) {
	rule, ok := vm.mod.CalledRules.Get(name)
	if !ok {
		return nil, xerr.NewRuntimeError("called rule %q not found", name)
	}
	if len(args) != len(rule.Params) {
		return nil, xerr.NewRuntimeError("called rule %q: expected %d arguments, got %d", name, len(rule.Params), len(args))
	}

	ec.Stats.CalledRulesInvoked++

	var refs []value.Value
	_, err := ec.WithScope(func() (value.Value, error) {
		for i, p := range rule.Params {
			ec.SetVar(p.Name, args[i])
		}
		ids, err := vm.instantiateTargets(ec, rule.Targets)
		if err != nil {
			return value.Null(), err
		}
		for i, id := range ids {
			alias, class, _ := rule.Targets[i].Type.QualifiedName()
			if alias == "" {
				alias = defaultTargetAlias(ec, class)
			}
			refs = append(refs, value.Ref(value.ObjectRef{Alias: alias, ID: id, Class: class}))
		}
		return value.Null(), nil
	})
	return refs, err
}

func defaultSourceAlias(ec *interp.ExecutionContext, class string) string {
	alias := ""
	ec.Module().SourceAliases.Range(func(a string, _ *ast.MetamodelHandle) bool {
		if p, ok := ec.Source(a); ok {
			if _, has := p.ResolveClassifier(class); has {
				alias = a
				return false
			}
		}
		return true
	})
	if alias == "" && ec.Module().SourceAliases.Len() == 1 {
		alias = ec.Module().SourceAliases.Keys()[0]
	}
	return alias
}

func defaultTargetAlias(ec *interp.ExecutionContext, class string) string {
	alias := ""
	ec.Module().TargetAliases.Range(func(a string, _ *ast.MetamodelHandle) bool {
		if p, ok := ec.Target(a); ok {
			if _, has := p.ResolveClassifier(class); has {
				alias = a
				return false
			}
		}
		return true
	})
	if alias == "" && ec.Module().TargetAliases.Len() == 1 {
		alias = ec.Module().TargetAliases.Keys()[0]
	}
	return alias
}

