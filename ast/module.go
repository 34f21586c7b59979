package ast

import (
	"github.com/atl-run/atl/tokens"
	"github.com/atl-run/atl/value"
)

// MetamodelHandle names a metamodel reference as parsed (an alias bound to
// a package name). The loader does not modify handles: it returns the
// schemas it resolves keyed by directive name, and cmd/atl looks up a
// handle's schema there by PackageName.
type MetamodelHandle struct {
	Alias       string
	PackageName string
	// PackagePath is not set by the parser or the loader; it stays empty
	// unless a caller fills it in.
	PackagePath string
}

// Helper is a named expression-valued function, optionally attached to a
// type as a context-typed extension method.
type Helper struct {
	Name       string
	Context    string // type name, "" if context-free
	ReturnType *TypeRef
	Params     []Param
	Body       Expression
	Range      tokens.Range
}

type Param struct {
	Name string
	Type *TypeRef
}

// SourcePattern is the `name : type (guard)` left-hand side of a matched
// rule.
type SourcePattern struct {
	Var   string
	Type  *TypeRef
	Guard Expression // nil if absent
}

// PropertyBinding is one `prop <- expr` entry of a target pattern.
type PropertyBinding struct {
	Property string
	Value    Expression
}

// TargetPattern is one `name : type ( bindings )` right-hand side entry of
// a matched or called rule.
type TargetPattern struct {
	Var      string
	Type     *TypeRef
	Bindings []PropertyBinding
}

// MatchedRule fires automatically for every source instance of its
// pattern's class that satisfies the optional guard.
type MatchedRule struct {
	Name    string
	Source  SourcePattern
	Targets []TargetPattern
	Range   tokens.Range
}

// CalledRule is invoked explicitly (including lazy rules, which are
// represented as called rules taking exactly one parameter).
type CalledRule struct {
	Name    string
	Params  []Param
	Targets []TargetPattern
	Lazy    bool
	Range   tokens.Range
}

// Module is the immutable result of parsing one program text.
type Module struct {
	Name string

	SourceAliases *value.OrderedMap[*MetamodelHandle]
	TargetAliases *value.OrderedMap[*MetamodelHandle]

	Helpers     *value.OrderedMap[*Helper]
	MatchedRules []*MatchedRule
	CalledRules  *value.OrderedMap[*CalledRule]

	// PathDirectives is the ordered Name -> path map extracted from
	// `-- @path Name=path` comments.
	PathDirectives *value.OrderedMap[string]
}

func NewModule(name string) *Module {
	return &Module{
		Name:           name,
		SourceAliases:  value.NewOrderedMap[*MetamodelHandle](),
		TargetAliases:  value.NewOrderedMap[*MetamodelHandle](),
		Helpers:        value.NewOrderedMap[*Helper](),
		CalledRules:    value.NewOrderedMap[*CalledRule](),
		PathDirectives: value.NewOrderedMap[string](),
	}
}

// HelperKey is the (contextQualifiedName, helperName) dispatch key used by
// the side index described in the design notes.
func HelperKey(contextType, name string) string {
	if contextType == "" {
		return name
	}
	return contextType + "#" + name
}
