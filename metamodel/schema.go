package metamodel

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/atl-run/atl/typecheck"
)

// Schema is the class/feature shape of one metamodel, as loaded from a
// YAML document — the file format a `@path` directive resolves to is
// opaque to the core; YAML is simply the one concrete format this
// implementation ships behind the Provider interface.
type Schema struct {
	Classes map[string]*ClassDef
	// Imports names other @path directive aliases this schema document
	// depends on; the module loader uses this to order composed schema
	// loads and to detect cyclic cross-references.
	Imports []string
	// order preserves declaration order for deterministic allInstances /
	// feature-listing output when a caller iterates Classes directly.
	order []string
}

type ClassDef struct {
	Name       string
	Supertypes []string
	Features   []Feature
}

type schemaDoc struct {
	Imports []string  `yaml:"imports"`
	Classes yaml.Node `yaml:"classes"` // mapping node, kept to read classes in document order
}

type classDoc struct {
	Supertypes []string     `yaml:"supertypes"`
	Features   []featureDoc `yaml:"features"`
}

type featureDoc struct {
	Name        string `yaml:"name"`
	Many        bool   `yaml:"many"`
	Containment bool   `yaml:"containment"`
	// Type is an optional type-expr string ("Integer", "Sequence(Integer)",
	// "TupleType(x : Integer)", or a classifier name); see typecheck.Parse.
	Type string `yaml:"type"`
}

// LoadSchema parses a YAML metamodel document of the form:
//
//	classes:
//	  Person:
//	    supertypes: []
//	    features:
//	      - name: firstName
//	      - name: friends
//	        many: true
//	        type: Sequence(Person)
func LoadSchema(r io.Reader) (*Schema, error) {
	var doc schemaDoc
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("metamodel: decode schema: %w", err)
	}

	s := &Schema{Classes: make(map[string]*ClassDef, len(doc.Classes.Content)/2), Imports: doc.Imports}
	for i := 0; i+1 < len(doc.Classes.Content); i += 2 {
		name := doc.Classes.Content[i].Value
		var cd classDoc
		if err := doc.Classes.Content[i+1].Decode(&cd); err != nil {
			return nil, fmt.Errorf("metamodel: decode class %s: %w", name, err)
		}
		feats := make([]Feature, 0, len(cd.Features))
		for _, f := range cd.Features {
			feats = append(feats, Feature{Name: f.Name, Many: f.Many, Containment: f.Containment, Type: typecheck.Parse(f.Type)})
		}
		s.Classes[name] = &ClassDef{Name: name, Supertypes: cd.Supertypes, Features: feats}
		s.order = append(s.order, name)
	}
	return s, nil
}

// Supertypes returns class's declared supertype chain, nearest first, by
// walking Supertypes transitively (cycles are defensively capped).
func (s *Schema) Supertypes(class string) []string {
	var chain []string
	seen := map[string]bool{class: true}
	frontier := []string{class}
	for len(frontier) > 0 && len(chain) < 64 {
		cur := frontier[0]
		frontier = frontier[1:]
		cd, ok := s.Classes[cur]
		if !ok {
			continue
		}
		for _, sup := range cd.Supertypes {
			if seen[sup] {
				continue
			}
			seen[sup] = true
			chain = append(chain, sup)
			frontier = append(frontier, sup)
		}
	}
	return chain
}

// IsKindOf reports whether class equals target or has target in its
// transitive supertype chain.
func (s *Schema) IsKindOf(class, target string) bool {
	if class == target {
		return true
	}
	for _, sup := range s.Supertypes(class) {
		if sup == target {
			return true
		}
	}
	return false
}
