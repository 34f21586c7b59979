package metamodel

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/atl-run/atl/typecheck"
	"github.com/atl-run/atl/value"
)

// YAMLProvider is the default Provider backing: one Schema shared across a
// resource's classes, plus an in-memory instance store loaded from (or
// populated into, for a writable target resource) a YAML instance
// document.
type YAMLProvider struct {
	schema   *Schema
	writable bool

	instances map[string]*instance
	byClass   map[string][]string // class -> ordered instance ids, including subclass instances
}

type instance struct {
	class  string
	fields map[string]value.Value
}

type instanceDoc struct {
	Instances []instanceEntry `yaml:"instances"`
}

type instanceEntry struct {
	ID     string         `yaml:"id"`
	Class  string         `yaml:"class"`
	Fields map[string]any `yaml:"fields"`
}

// NewYAMLProvider builds a provider over schema. If r is non-nil its
// `instances:` document seeds the initial instance store; writable
// controls whether CreateInstance/WriteFeature are permitted (false for a
// source resource, true for a target one).
func NewYAMLProvider(schema *Schema, r io.Reader, writable bool) (*YAMLProvider, error) {
	p := &YAMLProvider{
		schema:    schema,
		writable:  writable,
		instances: make(map[string]*instance),
		byClass:   make(map[string][]string),
	}
	if r == nil {
		return p, nil
	}

	var doc instanceDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return p, nil
		}
		return nil, fmt.Errorf("metamodel: decode instances: %w", err)
	}
	for _, e := range doc.Instances {
		fields := make(map[string]value.Value, len(e.Fields))
		for k, v := range e.Fields {
			fields[k] = yamlToValue(v)
		}
		p.addInstance(e.ID, e.Class, fields)
	}
	return p, nil
}

func (p *YAMLProvider) addInstance(id, class string, fields map[string]value.Value) {
	p.instances[id] = &instance{class: class, fields: fields}
	p.byClass[class] = append(p.byClass[class], id)
}

func yamlToValue(v any) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null()
	case bool:
		return value.Bool(t)
	case int:
		return value.Int(int64(t))
	case int64:
		return value.Int(t)
	case float64:
		return value.Real(t)
	case string:
		return value.Str(t)
	case []any:
		elems := make([]value.Value, len(t))
		for i, e := range t {
			elems[i] = yamlToValue(e)
		}
		return value.NewCollection(value.Sequence, elems)
	default:
		return value.Str(fmt.Sprintf("%v", t))
	}
}

var _ Provider = (*YAMLProvider)(nil)

func (p *YAMLProvider) ResolveClassifier(name string) (string, bool) {
	if _, ok := p.schema.Classes[name]; ok {
		return name, true
	}
	return "", false
}

func (p *YAMLProvider) Supertypes(class string) []string {
	return p.schema.Supertypes(class)
}

func (p *YAMLProvider) Features(class string) ([]Feature, error) {
	cd, ok := p.schema.Classes[class]
	if !ok {
		return nil, NewError(UnknownClass, class, "")
	}
	return cd.Features, nil
}

func (p *YAMLProvider) CreateInstance(class string) (string, error) {
	if !p.writable {
		return "", NewError(ReadOnlyModel, class, "")
	}
	if _, ok := p.schema.Classes[class]; !ok {
		return "", NewError(UnknownClass, class, "")
	}
	id := uuid.NewString()
	p.addInstance(id, class, make(map[string]value.Value))
	return id, nil
}

func (p *YAMLProvider) ReadFeature(id, feature string) (value.Value, error) {
	inst, ok := p.instances[id]
	if !ok {
		return value.Null(), NewError(UnknownClass, id, feature)
	}
	if !p.hasFeature(inst.class, feature) {
		return value.Null(), NewError(UnknownFeature, inst.class, feature)
	}
	v, ok := inst.fields[feature]
	if !ok {
		return value.Null(), nil
	}
	return v, nil
}

func (p *YAMLProvider) WriteFeature(id, feature string, v value.Value) error {
	if !p.writable {
		return NewError(ReadOnlyModel, id, feature)
	}
	inst, ok := p.instances[id]
	if !ok {
		return NewError(UnknownClass, id, feature)
	}
	fd, ok := p.findFeature(inst.class, feature)
	if !ok {
		return NewError(UnknownFeature, inst.class, feature)
	}
	if err := typecheck.Check(fd.Type, v); err != nil {
		return err
	}
	inst.fields[feature] = v
	return nil
}

func (p *YAMLProvider) hasFeature(class, feature string) bool {
	_, ok := p.findFeature(class, feature)
	return ok
}

func (p *YAMLProvider) findFeature(class, feature string) (Feature, bool) {
	classes := append([]string{class}, p.schema.Supertypes(class)...)
	for _, c := range classes {
		cd, ok := p.schema.Classes[c]
		if !ok {
			continue
		}
		for _, f := range cd.Features {
			if f.Name == feature {
				return f, true
			}
		}
	}
	return Feature{}, false
}

func (p *YAMLProvider) AllInstances(class string) ([]string, error) {
	if _, ok := p.schema.Classes[class]; !ok {
		return nil, NewError(UnknownClass, class, "")
	}
	var ids []string
	for _, c := range append([]string{class}, allSubclasses(p.schema, class)...) {
		ids = append(ids, p.byClass[c]...)
	}
	return ids, nil
}

func allSubclasses(s *Schema, class string) []string {
	var out []string
	for _, name := range s.order {
		if name == class {
			continue
		}
		if s.IsKindOf(name, class) {
			out = append(out, name)
		}
	}
	return out
}

func (p *YAMLProvider) ClassOf(id string) (string, error) {
	inst, ok := p.instances[id]
	if !ok {
		return "", NewError(UnknownClass, id, "")
	}
	return inst.class, nil
}

// Dump re-emits every instance in the same `instances:` document shape
// NewYAMLProvider reads, in declaration order, for a caller (cmd/atl's
// run command) to write a target resource back out after a transformation.
func (p *YAMLProvider) Dump(w io.Writer) error {
	doc := instanceDoc{}
	for _, class := range p.schema.order {
		for _, id := range p.byClass[class] {
			inst := p.instances[id]
			fields := make(map[string]any, len(inst.fields))
			for k, v := range inst.fields {
				fields[k] = valueToYAML(v)
			}
			doc.Instances = append(doc.Instances, instanceEntry{ID: id, Class: class, Fields: fields})
		}
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(doc)
}

func valueToYAML(v value.Value) any {
	switch v.Kind {
	case value.KindNull:
		return nil
	case value.KindBool:
		return v.Bool()
	case value.KindInt:
		return v.Int()
	case value.KindReal:
		return v.Real()
	case value.KindString:
		return v.Str()
	case value.KindUUID:
		return v.UUID().String()
	case value.KindObjectRef:
		return v.ObjectRef().ID
	case value.KindCollection:
		elems := v.Elements()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = valueToYAML(e)
		}
		return out
	default:
		return fmt.Sprintf("%v", v)
	}
}
