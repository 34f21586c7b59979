package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/binaek/cling"
	"github.com/pkg/errors"

	"github.com/atl-run/atl/engine"
	"github.com/atl-run/atl/loader"
	"github.com/atl-run/atl/metamodel"
)

func addRunCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("run", runCmd).
			WithArgument(cling.NewStringCmdInput("program").
				WithDescription("Transformation program to execute").
				AsArgument(),
			).
			WithFlag(cling.
				NewStringCmdInput("sources").
				WithDefault("").
				WithDescription("Source resources as alias=schema[:instances], comma-separated").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("targets").
				WithDefault("").
				WithDescription("Target resources as alias=schema[:instances-out], comma-separated").
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

type runCmdArgs struct {
	Program    string `cling-name:"program"`
	Sources    string `cling-name:"sources"`
	Targets    string `cling-name:"targets"`
	SearchPath string `cling-name:"search-path"`
}

func runCmd(ctx context.Context, args []string) error {
	input := runCmdArgs{}
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

	vm, err := engine.New(mod, slog.Default())
	if err != nil {
		return errors.Wrap(err, "building engine")
	}

	stats, err := vm.Execute(ctx, sources, targets)
	if err != nil {
		return errors.Wrap(err, "executing transformation")
	}
	fmt.Printf("rules fired: %d, targets created: %d, traces: %d, lazy bindings resolved: %d, duration: %s\n",
		stats.MatchedRulesFired, stats.TargetsCreated, stats.TracesRecorded, stats.LazyBindingsResolved, stats.Duration)

	targetSpecByAlias := make(map[string]resourceSpec, len(targetSpecs))
	for _, s := range targetSpecs {
		targetSpecByAlias[s.alias] = s
	}
	for alias, provider := range targets {
		spec, ok := targetSpecByAlias[alias]
		if !ok || spec.instancePath == "" {
			continue
		}
		yp, ok := provider.(*metamodel.YAMLProvider)
		if !ok {
			continue
		}
		if err := dumpTarget(yp, spec.instancePath); err != nil {
			return errors.Wrapf(err, "writing target %q", alias)
		}
	}
	return nil
}

func dumpTarget(p *metamodel.YAMLProvider, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.Dump(f)
}
