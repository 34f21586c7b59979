package engine

import (
	"fmt"

	"github.com/atl-run/atl/metamodel"
	"github.com/atl-run/atl/value"
)

// fakeProvider is a minimal in-memory metamodel.Provider used to drive the
// VirtualMachine in tests without a real metamodel backend.
type fakeProvider struct {
	readOnly   bool
	supertypes map[string][]string
	instances  map[string]map[string]value.Value
	classOf    map[string]string
	order      []string
	nextID     int
}

func newFakeProvider(readOnly bool) *fakeProvider {
	return &fakeProvider{
		readOnly:   readOnly,
		supertypes: map[string][]string{},
		instances:  map[string]map[string]value.Value{},
		classOf:    map[string]string{},
	}
}

func (p *fakeProvider) addInstance(class, id string, features map[string]value.Value) {
	if features == nil {
		features = map[string]value.Value{}
	}
	p.instances[id] = features
	p.classOf[id] = class
	p.order = append(p.order, id)
}

func (p *fakeProvider) ResolveClassifier(name string) (string, bool) {
	for _, c := range p.classOf {
		if c == name {
			return name, true
		}
	}
	if _, ok := p.supertypes[name]; ok {
		return name, true
	}
	return "", false
}

func (p *fakeProvider) Supertypes(class string) []string { return p.supertypes[class] }

func (p *fakeProvider) Features(class string) ([]metamodel.Feature, error) { return nil, nil }

func (p *fakeProvider) CreateInstance(class string) (string, error) {
	if p.readOnly {
		return "", metamodel.NewError(metamodel.ReadOnlyModel, class, "")
	}
	p.nextID++
	id := fmt.Sprintf("%s#%d", class, p.nextID)
	p.instances[id] = map[string]value.Value{}
	p.classOf[id] = class
	p.order = append(p.order, id)
	return id, nil
}

func (p *fakeProvider) ReadFeature(id, feature string) (value.Value, error) {
	feats, ok := p.instances[id]
	if !ok {
		return value.Null(), metamodel.NewError(metamodel.UnknownClass, id, "")
	}
	v, ok := feats[feature]
	if !ok {
		return value.Null(), metamodel.NewError(metamodel.UnknownFeature, p.classOf[id], feature)
	}
	return v, nil
}

func (p *fakeProvider) WriteFeature(id, feature string, v value.Value) error {
	if p.readOnly {
		return metamodel.NewError(metamodel.ReadOnlyModel, p.classOf[id], feature)
	}
	feats, ok := p.instances[id]
	if !ok {
		return metamodel.NewError(metamodel.UnknownClass, id, "")
	}
	feats[feature] = v
	return nil
}

func (p *fakeProvider) AllInstances(class string) ([]string, error) {
	var out []string
	for _, id := range p.order {
		if p.classOf[id] == class {
			out = append(out, id)
		}
	}
	return out, nil
}

func (p *fakeProvider) ClassOf(id string) (string, error) {
	c, ok := p.classOf[id]
	if !ok {
		return "", metamodel.NewError(metamodel.UnknownClass, id, "")
	}
	return c, nil
}
