// Package metamodel defines the collaborator contract the interpreter core
// consumes for everything it does not own: resolving classifiers, listing
// structural features, creating and mutating instances, and iterating a
// resource's instances in a deterministic order. The core never
// dereferences an object id itself — every read, write, or iteration goes
// back through a Provider for the alias that object lives in.
package metamodel

import (
	"github.com/atl-run/atl/typecheck"
	"github.com/atl-run/atl/value"
)

// Feature describes one structural feature (attribute or reference) of a
// class: its name, whether it may hold more than one value, and whether it
// is a containment reference.
type Feature struct {
	Name        string
	Many        bool
	Containment bool
	// Type is the feature's declared type-expr, parsed from its schema
	// entry's `type:` string; nil when the entry omits it, in which case
	// a written value is never checked against a declared shape.
	Type *typecheck.Expr
}

// Kind classifies the fixed error taxonomy a Provider may return, distinct
// from the interpreter's own xerr.Kind since these name collaborator-level
// failures the core translates into xerr errors at its boundary.
type Kind string

const (
	ReadOnlyModel  Kind = "ReadOnlyModel"
	UnknownClass   Kind = "UnknownClass"
	UnknownFeature Kind = "UnknownFeature"
	WrongKind      Kind = "WrongKind"
)

// Error is the error type Provider methods return for lookup and
// permission failures. A YAMLProvider.WriteFeature whose value does not
// match the feature's declared type returns the xerr TypeError from
// typecheck.Check instead.
type Error struct {
	Kind  Kind
	Class string
	Field string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return string(e.Kind) + ": " + e.Class + "." + e.Field
	}
	return string(e.Kind) + ": " + e.Class
}

func NewError(kind Kind, class, field string) error {
	return &Error{Kind: kind, Class: class, Field: field}
}

// Provider is the contract a resource (a source or target model, bound to
// one alias) exposes to the interpreter core. Implementations are free to
// back it with anything: an in-memory object graph, a YAML document, or a
// reflective view over plain Go structs.
type Provider interface {
	// ResolveClassifier reports whether name (or, for Is, one of its
	// declared supertypes) names a class in this resource's metamodel.
	ResolveClassifier(name string) (class string, ok bool)

	// Supertypes returns the declared supertype chain of class, nearest
	// first, empty if class has none or is unknown.
	Supertypes(class string) []string

	// Features lists the structural features declared directly on class.
	Features(class string) ([]Feature, error)

	// CreateInstance allocates a new instance of class in this resource
	// and returns a stable id for it. Fails with ReadOnlyModel if this
	// resource is a source (read-only to the core).
	CreateInstance(class string) (id string, err error)

	// ReadFeature reads feature on the instance identified by id.
	ReadFeature(id, feature string) (value.Value, error)

	// WriteFeature sets feature on the instance identified by id. Fails
	// with ReadOnlyModel if this resource is a source.
	WriteFeature(id, feature string, v value.Value) error

	// AllInstances returns, in a deterministic order, the ids of every
	// instance of class or one of its subclasses in this resource. Within
	// one class ids keep insertion order; YAMLProvider lists class's own
	// instances first, then each subclass's in schema declaration order.
	AllInstances(class string) ([]string, error)

	// ClassOf returns the most specific class name of the instance
	// identified by id.
	ClassOf(id string) (string, error)
}
