// Package xerr defines the fixed error taxonomy the interpreter surfaces,
// per the error kinds enumerated in the specification: a single Error
// struct whose Kind field names the taxonomy entry, with one constructor
// function per kind.
// Errors are wrapped with github.com/pkg/errors as they cross package
// boundaries so a failure retains a stack of "while parsing X" /
// "while evaluating Y" context without losing its concrete Kind.
package xerr

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/atl-run/atl/tokens"
)

// Kind is the fixed taxonomy named in the specification.
type Kind string

const (
	InvalidSyntax        Kind = "InvalidSyntax"
	UnexpectedToken       Kind = "UnexpectedToken"
	MissingModule         Kind = "MissingModule"
	InvalidModuleName     Kind = "InvalidModuleName"
	InvalidExpression     Kind = "InvalidExpression"
	UnsupportedConstruct  Kind = "UnsupportedConstruct"
	FileNotFound          Kind = "FileNotFound"
	InvalidEncoding       Kind = "InvalidEncoding"
	VariableNotFound      Kind = "VariableNotFound"
	HelperNotFound        Kind = "HelperNotFound"
	InvalidOperation      Kind = "InvalidOperation"
	UnsupportedOperation  Kind = "UnsupportedOperation"
	DivisionByZero        Kind = "DivisionByZero"
	TypeError             Kind = "TypeError"
	RuntimeError          Kind = "RuntimeError"
	Navigation            Kind = "Navigation"
)

// Error is the concrete type every xerr constructor returns. It carries a
// Kind for classification (so callers can do the Navigation/VariableNotFound
// recoverability check with a simple comparison), an optional source Range
// for parser errors, an optional offending Name for helper/rule errors, and
// a free-text Detail.
type Error struct {
	Kind   Kind
	Detail string
	Name   string
	Range  *tokens.Range
}

func (e *Error) Error() string {
	switch {
	case e.Range != nil && e.Name != "":
		return fmt.Sprintf("%s: %s (%s) at %s", e.Kind, e.Detail, e.Name, e.Range)
	case e.Range != nil:
		return fmt.Sprintf("%s: %s at %s", e.Kind, e.Detail, e.Range)
	case e.Name != "":
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Detail, e.Name)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
}

func new(kind Kind, detail string) *Error { return &Error{Kind: kind, Detail: detail} }

func withRange(e *Error, r tokens.Range) *Error { e.Range = &r; return e }
func withName(e *Error, name string) *Error     { e.Name = name; return e }

// Parser/lexer errors, all carrying a Range.

func NewInvalidSyntax(r tokens.Range, format string, args ...any) error {
	return withRange(new(InvalidSyntax, fmt.Sprintf(format, args...)), r)
}

func NewUnexpectedToken(r tokens.Range, got, want string) error {
	return withRange(new(UnexpectedToken, fmt.Sprintf("expected %s, got %s", want, got)), r)
}

func NewMissingModule(r tokens.Range) error {
	return withRange(new(MissingModule, "program text must begin with a module declaration"), r)
}

func NewInvalidModuleName(r tokens.Range, name string) error {
	return withRange(new(InvalidModuleName, fmt.Sprintf("invalid module name %q", name)), r)
}

func NewUnsupportedConstruct(r tokens.Range, what string) error {
	return withRange(new(UnsupportedConstruct, what), r)
}

func NewFileNotFound(path string) error {
	return new(FileNotFound, path)
}

func NewInvalidEncoding(path, reason string) error {
	return new(InvalidEncoding, fmt.Sprintf("%s: %s", path, reason))
}

// Runtime errors.

func NewVariableNotFound(name string) error {
	return withName(new(VariableNotFound, "variable not found"), name)
}

func NewHelperNotFound(name string) error {
	return withName(new(HelperNotFound, "helper not found"), name)
}

func NewInvalidOperation(detail string) error {
	return new(InvalidOperation, detail)
}

func NewUnsupportedOperation(op string, arity int) error {
	return new(UnsupportedOperation, fmt.Sprintf("%s/%d", op, arity))
}

func NewDivisionByZero() error {
	return new(DivisionByZero, "division by zero")
}

func NewTypeError(format string, args ...any) error {
	return new(TypeError, fmt.Sprintf(format, args...))
}

func NewRuntimeError(format string, args ...any) error {
	return new(RuntimeError, fmt.Sprintf(format, args...))
}

func NewNavigation(prop string) error {
	return withName(new(Navigation, "no such feature or helper"), prop)
}

// As extracts the concrete *Error from err, unwrapping github.com/pkg/errors
// wrappers along the way.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or "" if err is not (or does not wrap) an
// *Error.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}

// IsRecoverableBindingError classifies a failure raised while evaluating a
// property binding expression: a Navigation or VariableNotFound error is
// recoverable (converted into a lazy binding); every other error is fatal.
func IsRecoverableBindingError(err error) bool {
	k := KindOf(err)
	return k == Navigation || k == VariableNotFound
}
