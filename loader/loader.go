// Package loader resolves `@path Name=path` metamodel references against
// a caller-supplied ordered list of search paths, memoizes resolved loads,
// and refuses a set of references that import each other cyclically.
package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atl-run/atl/internal/cache"
	"github.com/atl-run/atl/internal/dag"
	"github.com/atl-run/atl/metamodel"
	"github.com/atl-run/atl/value"
)

// pathNode lets a directive name participate in internal/dag's
// fmt.Stringer-keyed graph.
type pathNode string

func (n pathNode) String() string { return string(n) }

// Loader resolves @path directives to metamodel schemas. One Loader is
// shared across a process's transformation runs; its cache amortises
// repeated loads of the same file across separate @path directives (and
// separate program parses) that name it.
type Loader struct {
	searchPaths []string
	cache       *cache.Cache[*metamodel.Schema]
	ttl         time.Duration
}

// New returns a Loader that resolves workspace-relative (leading-`/`)
// @path targets against searchPaths, in order, and leaves program-relative
// targets to be resolved against each call's programDir.
func New(searchPaths []string) *Loader {
	return &Loader{
		searchPaths: searchPaths,
		cache:       cache.New[*metamodel.Schema](128),
		ttl:         5 * time.Minute,
	}
}

// Result is what Resolve returns for one directive set: the successfully
// resolved schemas, keyed by directive name, and the names that could not
// be resolved (file missing, malformed, or part of an import cycle) — an
// unresolved name is simply absent from Schemas, a placeholder the caller
// can still report against.
type Result struct {
	Schemas   map[string]*metamodel.Schema
	Unresolved []string
}

// Resolve loads every @path directive's target, honouring `imports:`
// cross-references between directive names (resolved depth-first via
// internal/dag so a cyclic import set fails only the names in the cycle,
// not the whole directive set) and resolving each file at most once.
func (l *Loader) Resolve(ctx context.Context, programDir string, directives *value.OrderedMap[string]) Result {
	res := Result{Schemas: make(map[string]*metamodel.Schema)}

	names := directives.Keys()
	g := dag.New[pathNode]()
	for _, n := range names {
		g.AddNode(pathNode(n))
	}

	// A first pass loads raw documents so their optional `imports:` list can
	// contribute edges before anything is cached as resolved.
	raw := make(map[string]*metamodel.Schema, len(names))
	for _, n := range names {
		path, _ := directives.Get(n)
		schema, err := l.resolveOne(ctx, programDir, path)
		if err != nil {
			res.Unresolved = append(res.Unresolved, n)
			continue
		}
		raw[n] = schema
		for _, imp := range schema.Imports {
			if directives.Has(imp) {
				_ = g.AddEdge(pathNode(n), pathNode(imp))
			}
		}
	}

	cyclic := map[string]bool{}
	if cyc := g.DetectFirstCycle(); len(cyc) > 0 {
		for _, n := range cyc {
			cyclic[n.String()] = true
		}
	}

	for n, schema := range raw {
		if cyclic[n] {
			res.Unresolved = append(res.Unresolved, n)
			continue
		}
		res.Schemas[n] = schema
	}
	return res
}

func (l *Loader) resolveOne(ctx context.Context, programDir, path string) (*metamodel.Schema, error) {
	var lastErr error
	for _, candidate := range l.candidatePaths(programDir, path) {
		schema, err := l.cache.Get(ctx, candidate, l.ttl, func(context.Context) (*metamodel.Schema, error) {
			f, err := os.Open(candidate)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			return metamodel.LoadSchema(f)
		})
		if err == nil {
			return schema, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// candidatePaths applies the resolution rule: a leading `/` means
// workspace-relative, tried against each search path in order; otherwise
// the path is resolved relative to the program file's directory.
func (l *Loader) candidatePaths(programDir, path string) []string {
	if strings.HasPrefix(path, "/") {
		rel := strings.TrimPrefix(path, "/")
		out := make([]string, 0, len(l.searchPaths))
		for _, sp := range l.searchPaths {
			out = append(out, filepath.Join(sp, rel))
		}
		return out
	}
	return []string{filepath.Join(programDir, path)}
}
