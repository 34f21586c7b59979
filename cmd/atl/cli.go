package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/binaek/cling"
	"github.com/pkg/errors"

	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/loader"
	"github.com/atl-run/atl/metamodel"
	"github.com/atl-run/atl/parser"
	"github.com/atl-run/atl/value"
)

func Setup(ctx context.Context, version string) *cling.CLI {
	cli := cling.NewCLI("atl", version).
		WithDescription("atl parses, checks, formats, and runs model-transformation programs").
		WithPreRun(func(ctx context.Context, args []string) error {
			slog.DebugContext(ctx, "==> starting atl", slog.String("version", version))
			return nil
		}).
		WithPostRun(func(ctx context.Context, args []string) error {
			slog.DebugContext(ctx, "==> exiting atl")
			return nil
		})

	addRunCmd(cli)
	addCheckCmd(cli)
	addFmtCmd(cli)

	return cli
}

func Execute(ctx context.Context, cli *cling.CLI, args []string) error {
	if cli == nil {
		panic("CLI cannot be NIL")
	}
	return cli.Run(ctx, args)
}

// parseProgram reads and parses one program file, returning its Module
// alongside the directory it lives in (every @path directive not starting
// with `/` resolves relative to that directory).
func parseProgram(path string) (*ast.Module, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	p := parser.New(f, path)
	mod, err := p.ParseModule()
	if err != nil {
		return nil, "", errors.Wrapf(err, "parsing %s", path)
	}
	return mod, filepath.Dir(path), nil
}

// resourceSpec is one `alias=schema[:instances]` entry from a --sources or
// --targets flag.
type resourceSpec struct {
	alias        string
	schemaPath   string
	instancePath string
}

func parseResourceSpecs(flag string) ([]resourceSpec, error) {
	flag = strings.TrimSpace(flag)
	if flag == "" {
		return nil, nil
	}
	var specs []resourceSpec
	for _, entry := range strings.Split(flag, ",") {
		eq := strings.Index(entry, "=")
		if eq < 0 {
			return nil, errors.Errorf("resource spec %q: expected alias=schema[:instances]", entry)
		}
		alias := strings.TrimSpace(entry[:eq])
		rest := entry[eq+1:]
		schemaPath, instancePath := rest, ""
		if colon := strings.Index(rest, ":"); colon >= 0 {
			schemaPath, instancePath = rest[:colon], rest[colon+1:]
		}
		specs = append(specs, resourceSpec{alias: alias, schemaPath: schemaPath, instancePath: instancePath})
	}
	return specs, nil
}

// buildProviders resolves every alias in aliases to a metamodel.Provider:
// the alias's schema comes from the matching resourceSpec when given, or
// else from a @path directive sharing the alias's declared package name.
// writable controls CreateInstance/WriteFeature permission (false for
// sources, true for targets).
func buildProviders(ld *loader.Loader, programDir string, pathDirectives *value.OrderedMap[string], aliases *value.OrderedMap[*ast.MetamodelHandle], specs []resourceSpec, writable bool) (map[string]metamodel.Provider, error) {
	bySpec := make(map[string]resourceSpec, len(specs))
	for _, s := range specs {
		bySpec[s.alias] = s
	}

	resolved := ld.Resolve(context.Background(), programDir, pathDirectives)

	out := make(map[string]metamodel.Provider, aliases.Len())
	var firstErr error
	aliases.Range(func(alias string, h *ast.MetamodelHandle) bool {
		spec, hasSpec := bySpec[alias]

		var schema *metamodel.Schema
		switch {
		case hasSpec && spec.schemaPath != "":
			s, err := loadSchemaFile(spec.schemaPath)
			if err != nil {
				firstErr = err
				return false
			}
			schema = s
		case resolved.Schemas[h.PackageName] != nil:
			schema = resolved.Schemas[h.PackageName]
		default:
			firstErr = errors.Errorf("alias %q: no schema resolved for package %q (pass one via --sources/--targets or an @path directive)", alias, h.PackageName)
			return false
		}

		var r io.Reader
		if hasSpec && spec.instancePath != "" {
			f, err := os.Open(spec.instancePath)
			if err != nil {
				firstErr = errors.Wrapf(err, "alias %q: opening instances", alias)
				return false
			}
			defer f.Close()
			r = f
		}
		provider, err := metamodel.NewYAMLProvider(schema, r, writable)
		if err != nil {
			firstErr = errors.Wrapf(err, "alias %q", alias)
			return false
		}
		out[alias] = provider
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func loadSchemaFile(path string) (*metamodel.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening schema %s", path)
	}
	defer f.Close()
	return metamodel.LoadSchema(f)
}
