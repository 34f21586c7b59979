package tokens

// Kind classifies a lexical token. Keeping it a string (rather than an
// int-based iota) makes tokens self-describing in error messages and test
// failures without a String() switch.
type Kind string

const (
	EOF     Kind = "EOF"
	Error   Kind = "Error"
	Unknown Kind = "Unknown"

	Ident   Kind = "Ident"
	String  Kind = "String"
	Int     Kind = "Int"
	Real    Kind = "RealLiteral"
	Boolean Kind = "Boolean"

	LineComment Kind = "LineComment"

	// Keywords
	KeywordModule  Kind = "module"
	KeywordCreate  Kind = "create"
	KeywordFrom    Kind = "from"
	KeywordHelper  Kind = "helper"
	KeywordDef     Kind = "def"
	KeywordContext Kind = "context"
	KeywordRule    Kind = "rule"
	KeywordQuery   Kind = "query"
	KeywordIf      Kind = "if"
	KeywordThen    Kind = "then"
	KeywordElse    Kind = "else"
	KeywordEndIf   Kind = "endif"
	KeywordAnd     Kind = "and"
	KeywordOr      Kind = "or"
	KeywordNot     Kind = "not"
	KeywordTrue    Kind = "true"
	KeywordFalse   Kind = "false"
	KeywordLet     Kind = "let"
	KeywordIn      Kind = "in"
	KeywordDo      Kind = "do"
	KeywordTo      Kind = "to"
	KeywordSelf    Kind = "self"
	KeywordLazy    Kind = "lazy"

	KeywordInteger Kind = "TypeInteger"
	KeywordString  Kind = "TypeString"
	KeywordBoolean Kind = "TypeBoolean"
	KeywordReal    Kind = "TypeReal"

	// Operators
	OpPlus     Kind = "Plus"
	OpMinus    Kind = "Minus"
	OpMul      Kind = "Star"
	OpDiv      Kind = "Slash"
	OpAssign   Kind = "Equals"
	OpNeq      Kind = "NotEquals"
	OpLt       Kind = "LessThan"
	OpGt       Kind = "GreaterThan"
	OpLte      Kind = "LessThanOrEqual"
	OpGte      Kind = "GreaterThanOrEqual"
	OpArrow    Kind = "Arrow"   // ->
	OpDot      Kind = "Dot"     // .
	OpColon    Kind = "Colon"   // :
	OpBind     Kind = "Bind"    // <-
	OpBang     Kind = "Bang"    // !
	OpPipe     Kind = "Pipe"    // |
	OpSemi     Kind = "Semi"    // ;
	OpComma    Kind = "Comma"   // ,
	OpLParen   Kind = "LParen"  // (
	OpRParen   Kind = "RParen"  // )
	OpLCurly   Kind = "LCurly"  // {
	OpRCurly   Kind = "RCurly"  // }
	OpLBracket Kind = "LBracket" // [
	OpRBracket Kind = "RBracket" // ]
)

var keywords = map[string]Kind{
	"module":    KeywordModule,
	"create":    KeywordCreate,
	"from":      KeywordFrom,
	"helper":    KeywordHelper,
	"def":       KeywordDef,
	"context":   KeywordContext,
	"rule":      KeywordRule,
	"query":     KeywordQuery,
	"if":        KeywordIf,
	"then":      KeywordThen,
	"else":      KeywordElse,
	"endif":     KeywordEndIf,
	"and":       KeywordAnd,
	"or":        KeywordOr,
	"not":       KeywordNot,
	"true":      KeywordTrue,
	"false":     KeywordFalse,
	"let":       KeywordLet,
	"in":        KeywordIn,
	"do":        KeywordDo,
	"to":        KeywordTo,
	"self":      KeywordSelf,
	"lazy":      KeywordLazy,
	"Integer":   KeywordInteger,
	"String":    KeywordString,
	"Boolean":   KeywordBoolean,
	"Real":      KeywordReal,
}

// LookupIdent reports whether word is a reserved keyword, and if so which
// token kind it lexes to.
func LookupIdent(word string) (Kind, bool) {
	kind, ok := keywords[word]
	return kind, ok
}

func (k Kind) String() string { return string(k) }
