// Package workspace is ambient tooling around the core: a TOML manifest
// naming a program's metamodel search paths and the range of engine
// versions it was written against. Constructing an engine.VirtualMachine
// never requires a Manifest — a caller can always supply search paths and
// resources directly — but atl-workspace.toml gives an embedder a
// conventional place to read them from. cmd/atl does not read it.
package workspace

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// ManifestFileName is the conventional name Load walks up the directory
// tree looking for.
const ManifestFileName = "atl-workspace.toml"

// EngineVersion is the running engine's own semver, bumped on release.
// CheckCompatibility compares a manifest's RequiresEngine constraint
// against this.
const EngineVersion = "1.0.0"

// Manifest is the parsed form of atl-workspace.toml.
type Manifest struct {
	// SearchPaths lists, in order, the directories the module loader
	// tries when resolving a `@path` directive's relative reference.
	SearchPaths []string `toml:"searchPaths"`
	// RequiresEngine is a semver constraint range (e.g. ">=1.0.0 <2.0.0")
	// the running engine must satisfy.
	RequiresEngine string `toml:"requiresEngine"`
	// Location is the directory the manifest file was found in, populated
	// by Load (not read from the file itself).
	Location string `toml:"-"`
}

var ErrManifestNotFound = errors.New("workspace manifest not found")

// Load walks up from root looking for atl-workspace.toml.
func Load(root string) (*Manifest, error) {
	path, err := locate(root)
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "workspace: read manifest")
	}
	var m Manifest
	if err := toml.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrap(err, "workspace: parse manifest")
	}
	m.Location = filepath.Dir(path)
	return &m, nil
}

func locate(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", errors.New("workspace: root is empty")
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrap(err, "workspace: absolute path")
	}

	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		root = filepath.Dir(root)
	}

	for {
		candidate := filepath.Join(root, ManifestFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(root)
		atTop := parent == root || root == "/" ||
			(runtime.GOOS == "windows" && strings.HasSuffix(root, `:\`))
		if atTop {
			break
		}
		root = parent
	}
	return "", ErrManifestNotFound
}

// CheckCompatibility validates m's RequiresEngine constraint (if any)
// against the running engine's own version and returns an error when it
// is not satisfied. It does not itself stop a VirtualMachine from being
// constructed; acting on the error is left to the caller.
func CheckCompatibility(m *Manifest) error {
	if m.RequiresEngine == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(m.RequiresEngine)
	if err != nil {
		return errors.Wrapf(err, "workspace: invalid requiresEngine constraint %q", m.RequiresEngine)
	}
	running, err := semver.NewVersion(EngineVersion)
	if err != nil {
		return errors.Wrap(err, "workspace: invalid running engine version")
	}
	if !constraint.Check(running) {
		return errors.Errorf("workspace: engine %s does not satisfy required range %q", EngineVersion, m.RequiresEngine)
	}
	return nil
}
