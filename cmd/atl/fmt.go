package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/binaek/cling"

	"github.com/atl-run/atl/ast"
)

func addFmtCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("fmt", fmtCmd).
			WithArgument(cling.NewStringCmdInput("program").
				WithDescription("Transformation program to re-emit in canonical form").
				AsArgument(),
			),
	)
}

type fmtCmdArgs struct {
	Program string `cling-name:"program"`
}

func fmtCmd(ctx context.Context, args []string) error {
	input := fmtCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	mod, _, err := parseProgram(input.Program)
	if err != nil {
		return err
	}

	fmt.Print(formatModule(mod))
	return nil
}

// formatModule re-emits mod's canonical textual form by walking the same
// AST the interpreter evaluates, leaning on every Expression's own
// String() for bodies, guards, and bindings.
func formatModule(mod *ast.Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s;\n", mod.Name)

	targetList := aliasList(mod.TargetAliases)
	sourceList := aliasList(mod.SourceAliases)
	if targetList != "" {
		b.WriteString("create " + targetList)
		if sourceList != "" {
			b.WriteString(" from " + sourceList)
		}
		b.WriteString(";\n")
	}
	b.WriteString("\n")

	mod.Helpers.Range(func(_ string, h *ast.Helper) bool {
		b.WriteString(formatHelper(h) + "\n")
		return true
	})

	for _, rule := range mod.MatchedRules {
		b.WriteString(formatMatchedRule(rule) + "\n")
	}

	mod.CalledRules.Range(func(_ string, rule *ast.CalledRule) bool {
		b.WriteString(formatCalledRule(rule) + "\n")
		return true
	})

	return b.String()
}

func aliasList(aliases interface {
	Range(func(string, *ast.MetamodelHandle) bool)
}) string {
	var parts []string
	aliases.Range(func(alias string, h *ast.MetamodelHandle) bool {
		parts = append(parts, alias+" : "+h.PackageName)
		return true
	})
	return strings.Join(parts, ", ")
}

func formatHelper(h *ast.Helper) string {
	var b strings.Builder
	b.WriteString("helper ")
	if h.Context != "" {
		b.WriteString("context " + h.Context + " ")
	}
	b.WriteString("def : " + h.Name + "(")
	for i, p := range h.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name + " : " + p.Type.String())
	}
	fmt.Fprintf(&b, ") : %s = %s;", h.ReturnType.String(), h.Body.String())
	return b.String()
}

// formatMatchedRule re-emits `rule Name from var : Type (guard) to
// target-patterns;`, the grammar parseRule's matched-rule branch accepts.
func formatMatchedRule(r *ast.MatchedRule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "rule %s from %s : %s", r.Name, r.Source.Var, r.Source.Type.String())
	if r.Source.Guard != nil {
		b.WriteString(" (" + r.Source.Guard.String() + ")")
	}
	b.WriteString(" to\n\t")
	for i, tp := range r.Targets {
		if i > 0 {
			b.WriteString(",\n\t")
		}
		b.WriteString(formatTargetPattern(tp))
	}
	b.WriteString(";")
	return b.String()
}

// formatCalledRule re-emits either `rule Name(params) to target-patterns;`
// or, for a lazy rule, `lazy rule Name from param : Type to
// target-patterns;` — the two forms parseRule/parseLazyRule accept.
func formatCalledRule(r *ast.CalledRule) string {
	var b strings.Builder
	if r.Lazy {
		p := r.Params[0]
		fmt.Fprintf(&b, "lazy rule %s from %s : %s to\n\t", r.Name, p.Name, p.Type.String())
	} else {
		b.WriteString("rule " + r.Name + "(")
		for i, p := range r.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Name + " : " + p.Type.String())
		}
		b.WriteString(") to\n\t")
	}
	for i, tp := range r.Targets {
		if i > 0 {
			b.WriteString(",\n\t")
		}
		b.WriteString(formatTargetPattern(tp))
	}
	b.WriteString(";")
	return b.String()
}

func formatTargetPattern(tp ast.TargetPattern) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s : %s", tp.Var, tp.Type.String())
	if len(tp.Bindings) > 0 {
		b.WriteString(" (\n")
		for i, bind := range tp.Bindings {
			if i > 0 {
				b.WriteString(",\n")
			}
			b.WriteString("\t\t\t" + bind.Property + " <- " + bind.Value.String())
		}
		b.WriteString("\n\t\t)")
	}
	return b.String()
}
