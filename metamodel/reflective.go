package metamodel

import (
	"reflect"

	"github.com/fatih/structs"
	"github.com/google/uuid"

	"github.com/atl-run/atl/value"
)

// ReflectiveProvider exposes a slice of plain Go structs as a read-only
// source resource, deriving classes and features from struct shape via
// reflection rather than a YAML schema — useful when the source side of a
// transformation is already an in-process domain model rather than a
// serialised document. Classes and features are discovered lazily as
// instances are registered; this provider never supports CreateInstance or
// WriteFeature, since source resources are read-only to the core.
type ReflectiveProvider struct {
	instances map[string]*reflectiveInstance
	byClass   map[string][]string
	features  map[string][]Feature
}

type reflectiveInstance struct {
	class string
	s     *structs.Struct
}

// NewReflectiveProvider builds a provider over vals, one Go struct (or
// pointer to struct) per instance. An "ID" field, if present, supplies the
// instance id; otherwise a fresh uuid is minted.
func NewReflectiveProvider(vals []any) *ReflectiveProvider {
	p := &ReflectiveProvider{
		instances: make(map[string]*reflectiveInstance),
		byClass:   make(map[string][]string),
		features:  make(map[string][]Feature),
	}
	for _, v := range vals {
		p.register(v)
	}
	return p
}

func (p *ReflectiveProvider) register(v any) {
	if !structs.IsStruct(v) {
		return
	}
	s := structs.New(v)
	class := reflect.Indirect(reflect.ValueOf(v)).Type().Name()

	if _, ok := p.features[class]; !ok {
		feats := make([]Feature, 0, len(s.Fields()))
		for _, f := range s.Fields() {
			if !f.IsExported() {
				continue
			}
			feats = append(feats, Feature{Name: f.Name(), Many: f.Kind() == reflect.Slice})
		}
		p.features[class] = feats
	}

	id := uuid.NewString()
	if idField, ok := s.FieldOk("ID"); ok {
		if s, ok := idField.Value().(string); ok && s != "" {
			id = s
		}
	}

	p.instances[id] = &reflectiveInstance{class: class, s: s}
	p.byClass[class] = append(p.byClass[class], id)
}

var _ Provider = (*ReflectiveProvider)(nil)

func (p *ReflectiveProvider) ResolveClassifier(name string) (string, bool) {
	_, ok := p.features[name]
	return name, ok
}

// Supertypes is always empty: reflection over unrelated Go struct types
// carries no declared inheritance relationship to recover.
func (p *ReflectiveProvider) Supertypes(string) []string { return nil }

func (p *ReflectiveProvider) Features(class string) ([]Feature, error) {
	feats, ok := p.features[class]
	if !ok {
		return nil, NewError(UnknownClass, class, "")
	}
	return feats, nil
}

func (p *ReflectiveProvider) CreateInstance(class string) (string, error) {
	return "", NewError(ReadOnlyModel, class, "")
}

func (p *ReflectiveProvider) ReadFeature(id, feature string) (value.Value, error) {
	inst, ok := p.instances[id]
	if !ok {
		return value.Null(), NewError(UnknownClass, id, feature)
	}
	f, ok := inst.s.FieldOk(feature)
	if !ok {
		return value.Null(), NewError(UnknownFeature, inst.class, feature)
	}
	return goToValue(f.Value()), nil
}

func (p *ReflectiveProvider) WriteFeature(id, feature string, _ value.Value) error {
	inst, ok := p.instances[id]
	if !ok {
		return NewError(UnknownClass, id, feature)
	}
	return NewError(ReadOnlyModel, inst.class, feature)
}

func (p *ReflectiveProvider) AllInstances(class string) ([]string, error) {
	if _, ok := p.features[class]; !ok {
		return nil, NewError(UnknownClass, class, "")
	}
	return p.byClass[class], nil
}

func (p *ReflectiveProvider) ClassOf(id string) (string, error) {
	inst, ok := p.instances[id]
	if !ok {
		return "", NewError(UnknownClass, id, "")
	}
	return inst.class, nil
}

// goToValue converts a reflected Go field value to the interpreter's
// tagged Value, covering the scalar kinds a domain struct is likely to
// carry; anything else degrades to its string representation rather than
// failing the read, since a read-only reflective binding has no feature
// schema to reject an unsupported shape against.
func goToValue(v any) value.Value {
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
	case uuid.UUID:
		return value.UUID(t)
	case []string:
		elems := make([]value.Value, len(t))
		for i, e := range t {
			elems[i] = value.Str(e)
		}
		return value.NewCollection(value.Sequence, elems)
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice {
			elems := make([]value.Value, rv.Len())
			for i := 0; i < rv.Len(); i++ {
				elems[i] = goToValue(rv.Index(i).Interface())
			}
			return value.NewCollection(value.Sequence, elems)
		}
		return value.Str(toDisplayString(v))
	}
}

func toDisplayString(v any) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return reflect.ValueOf(v).Type().String()
}
