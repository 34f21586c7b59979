// Package parser is a hand-written parser producing the ast.Module tree.
// The core loop (parseExpression) is a Pratt precedence-climbing loop:
// prefix and infix handlers are registered in maps keyed by tokens.Kind,
// and the eleven-level precedence ladder in precedence.go decides when the
// climbing loop stops. This is still a recursive-descent parser — the
// Pratt loop is just how the additive/multiplicative/comparison chain is
// expressed without one hand-written function per level.
package parser

import (
	"io"
	"strings"

	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/lexer"
	"github.com/atl-run/atl/tokens"
	"github.com/atl-run/atl/value"
	"github.com/atl-run/atl/xerr"
)

type prefixParserFn func(p *Parser) ast.Expression
type infixParserFn func(p *Parser, left ast.Expression) ast.Expression

type Parser struct {
	lexer    *lexer.Lexer
	filename string

	current, next tokens.Instance
	prevRange     tokens.Range
	atEOF         bool

	err error

	prefix map[tokens.Kind]prefixParserFn
	infix  map[tokens.Kind]infixParserFn

	pathDirectives *value.OrderedMap[string]
}

func New(r io.Reader, filename string) *Parser {
	p := &Parser{
		lexer:          lexer.New(r, filename),
		filename:       filename,
		prefix:         make(map[tokens.Kind]prefixParserFn),
		infix:          make(map[tokens.Kind]infixParserFn),
		pathDirectives: value.NewOrderedMap[string](),
	}
	p.registerParseFns()
	p.advance()
	p.advance()
	return p
}

func NewFromString(src, filename string) *Parser {
	return New(strings.NewReader(src), filename)
}

func (p *Parser) Err() error { return p.err }

func (p *Parser) head() tokens.Instance { return p.current }
func (p *Parser) peek() tokens.Instance { return p.next }

// advance moves HEAD forward, silently absorbing comments (but recording
// any @path directive they carry) since the grammar never references
// comment tokens directly.
func (p *Parser) advance() tokens.Instance {
	cur := p.current
	if cur.Kind != "" {
		p.prevRange = cur.Range
	}
	for {
		if p.atEOF {
			p.current = tokens.EOFInstance(p.filename, p.current.Range.To)
			return cur
		}
		p.current = p.next
		if p.current.Kind == tokens.EOF {
			p.atEOF = true
			return cur
		}
		next := p.lexer.NextToken()
		if next.Kind == tokens.Error {
			p.errorf(next.Range, "%s", next.Value)
		}
		p.next = next
		if p.current.Kind == tokens.LineComment {
			p.recordPathDirective(p.current.Value)
			continue
		}
		return cur
	}
}

// recordPathDirective: within a comment, if the trimmed payload begins
// with "@path ", parse "Name=path" and store it. Malformed directives are
// silently ignored.
func (p *Parser) recordPathDirective(comment string) {
	const prefix = "@path "
	if !strings.HasPrefix(comment, prefix) {
		return
	}
	rest := strings.TrimSpace(comment[len(prefix):])
	name, path, ok := strings.Cut(rest, "=")
	if !ok {
		return
	}
	name = strings.TrimSpace(name)
	path = strings.TrimSpace(path)
	if name == "" || path == "" {
		return
	}
	p.pathDirectives.Set(name, path)
}

func (p *Parser) PathDirectives() *value.OrderedMap[string] { return p.pathDirectives }

func (p *Parser) expect(kind tokens.Kind) (tokens.Instance, bool) {
	if p.current.Kind != kind {
		p.errorf(p.current.Range, "expected %s, got %s", kind, p.current)
		return p.current, false
	}
	return p.advance(), true
}

func (p *Parser) is(kinds ...tokens.Kind) bool { return p.current.Is(kinds...) }

func (p *Parser) errorf(r tokens.Range, format string, args ...any) {
	err := xerr.NewUnexpectedToken(r, p.current.String(), firstArg(format, args))
	if p.err == nil {
		p.err = err
	} else {
		p.err = joinErrs(p.err, err)
	}
}

func firstArg(format string, args []any) string {
	// errorf is always called with a "want" description as its sole
	// format argument by callers in this package; kept generic so callers
	// can still pass fmt-style messages without a "want" token.
	if len(args) == 0 {
		return format
	}
	if s, ok := args[0].(string); ok {
		return s
	}
	return format
}

func joinErrs(a, b error) error {
	return &multiError{errs: append(collectErrs(a), collectErrs(b)...)}
}

type multiError struct{ errs []error }

func collectErrs(e error) []error {
	if m, ok := e.(*multiError); ok {
		return m.errs
	}
	return []error{e}
}

func (m *multiError) Error() string {
	var sb strings.Builder
	for i, e := range m.errs {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

func (p *Parser) registerPrefix(k tokens.Kind, fn prefixParserFn) { p.prefix[k] = fn }
func (p *Parser) registerInfix(k tokens.Kind, fn infixParserFn)   { p.infix[k] = fn }

func (p *Parser) lastConsumedRange() tokens.Range { return p.prevRange }

// span returns a Range covering from the start of a through the end of b.
func span(a, b tokens.Range) tokens.Range {
	return tokens.Range{File: a.File, From: a.From, To: b.To}
}
