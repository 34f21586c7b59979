package main

import (
	"context"
	"fmt"

	"github.com/binaek/cling"
	"github.com/pkg/errors"

	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/loader"
	"github.com/atl-run/atl/metamodel"
)

func addCheckCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("check", checkCmd).
			WithArgument(cling.NewStringCmdInput("program").
				WithDescription("Transformation program to validate").
				AsArgument(),
			).
			WithFlag(cling.
				NewStringCmdInput("sources").
				WithDefault("").
				WithDescription("Source resources as alias=schema, comma-separated").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("targets").
				WithDefault("").
				WithDescription("Target resources as alias=schema, comma-separated").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("search-path").
				WithDefault(".").
				WithDescription("Directory searched for workspace-relative @path directives").
				AsFlag(),
			),
	)
}

type checkCmdArgs struct {
	Program    string `cling-name:"program"`
	Sources    string `cling-name:"sources"`
	Targets    string `cling-name:"targets"`
	SearchPath string `cling-name:"search-path"`
}

// checkCmd parses the program and, when resources are supplied, validates
// every matched/called rule's source and target pattern types against the
// bound resources' metamodels, without executing anything.
func checkCmd(ctx context.Context, args []string) error {
	input := checkCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	mod, programDir, err := parseProgram(input.Program)
	if err != nil {
		return err
	}

	sourceSpecs, err := parseResourceSpecs(input.Sources)
	if err != nil {
		return err
	}
	targetSpecs, err := parseResourceSpecs(input.Targets)
	if err != nil {
		return err
	}

	ld := loader.New([]string{input.SearchPath})
	sources, err := buildProviders(ld, programDir, mod.PathDirectives, mod.SourceAliases, sourceSpecs, false)
	if err != nil {
		return errors.Wrap(err, "binding sources")
	}
	targets, err := buildProviders(ld, programDir, mod.PathDirectives, mod.TargetAliases, targetSpecs, true)
	if err != nil {
		return errors.Wrap(err, "binding targets")
	}

	if err := checkPatternTypes(mod, sources, targets); err != nil {
		return err
	}

	fmt.Printf("%s: ok (%d matched rule(s), %d called rule(s), %d helper(s))\n",
		mod.Name, len(mod.MatchedRules), mod.CalledRules.Len(), mod.Helpers.Len())
	return nil
}

func checkPatternTypes(mod *ast.Module, sources, targets map[string]metamodel.Provider) error {
	for _, rule := range mod.MatchedRules {
		if err := checkSourceType(rule.Name, rule.Source.Type, sources); err != nil {
			return err
		}
		for _, tp := range rule.Targets {
			if err := checkTargetType(rule.Name, tp.Type, targets); err != nil {
				return err
			}
		}
	}
	var firstErr error
	mod.CalledRules.Range(func(_ string, rule *ast.CalledRule) bool {
		for _, tp := range rule.Targets {
			if err := checkTargetType(rule.Name, tp.Type, targets); err != nil {
				firstErr = err
				return false
			}
		}
		return true
	})
	return firstErr
}

func checkSourceType(ruleName string, t *ast.TypeRef, sources map[string]metamodel.Provider) error {
	alias, class, ok := t.QualifiedName()
	if !ok {
		return errors.Errorf("rule %s: unsupported source pattern type %s", ruleName, t)
	}
	if alias == "" {
		for _, p := range sources {
			if _, has := p.ResolveClassifier(class); has {
				return nil
			}
		}
		if len(sources) == 0 {
			return nil
		}
		return errors.Errorf("rule %s: no bound source resolves class %q", ruleName, class)
	}
	p, ok := sources[alias]
	if !ok {
		return errors.Errorf("rule %s: unbound source alias %q", ruleName, alias)
	}
	if _, has := p.ResolveClassifier(class); !has {
		return errors.Errorf("rule %s: source %q has no class %q", ruleName, alias, class)
	}
	return nil
}

func checkTargetType(ruleName string, t *ast.TypeRef, targets map[string]metamodel.Provider) error {
	alias, class, ok := t.QualifiedName()
	if !ok {
		return errors.Errorf("rule %s: unsupported target pattern type %s", ruleName, t)
	}
	if alias == "" {
		for _, p := range targets {
			if _, has := p.ResolveClassifier(class); has {
				return nil
			}
		}
		if len(targets) == 0 {
			return nil
		}
		return errors.Errorf("rule %s: no bound target resolves class %q", ruleName, class)
	}
	p, ok := targets[alias]
	if !ok {
		return errors.Errorf("rule %s: unbound target alias %q", ruleName, alias)
	}
	if _, has := p.ResolveClassifier(class); !has {
		return errors.Errorf("rule %s: target %q has no class %q", ruleName, alias, class)
	}
	return nil
}
